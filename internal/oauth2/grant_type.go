// Package oauth2 define los valores de protocolo compartidos por el
// authorization store: grant types, métodos de autenticación de cliente
// y el snapshot del principal autenticado.
//
// Las enumeraciones siguen el esquema "constante conocida o extensión
// arbitraria": los wire strings estándar resuelven siempre al mismo
// singleton (comparables por identidad); cualquier otro string produce
// un value object nuevo, comparable por Value().
package oauth2

import (
	"errors"
	"fmt"
)

// ErrEmptyValue indica que se intentó resolver un grant type o auth
// method vacío. Siempre es un defecto del caller: ambos campos son
// obligatorios en el protocolo.
var ErrEmptyValue = errors.New("oauth2: value must not be empty")

// GrantType representa un authorization grant type de OAuth2.
// Comparar constantes conocidas por identidad de puntero; extensiones
// por Value().
type GrantType struct {
	value string
}

// Value retorna el wire string del grant type.
func (g *GrantType) Value() string { return g.value }

func (g *GrantType) String() string { return g.value }

// Grant types bien conocidos (RFC 6749, RFC 8628, RFC 8693).
var (
	GrantAuthorizationCode = &GrantType{value: "authorization_code"}
	GrantClientCredentials = &GrantType{value: "client_credentials"}
	GrantRefreshToken      = &GrantType{value: "refresh_token"}
	GrantDeviceCode        = &GrantType{value: "urn:ietf:params:oauth:grant-type:device_code"}
	GrantTokenExchange     = &GrantType{value: "urn:ietf:params:oauth:grant-type:token-exchange"}
)

var wellKnownGrants = map[string]*GrantType{
	GrantAuthorizationCode.value: GrantAuthorizationCode,
	GrantClientCredentials.value: GrantClientCredentials,
	GrantRefreshToken.value:      GrantRefreshToken,
	GrantDeviceCode.value:        GrantDeviceCode,
	GrantTokenExchange.value:     GrantTokenExchange,
}

// ResolveGrantType resuelve un wire string a su GrantType. Para los
// valores estándar retorna el singleton compartido; para cualquier otro
// string no vacío construye una extensión nueva.
func ResolveGrantType(value string) (*GrantType, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: grant type", ErrEmptyValue)
	}
	if gt, ok := wellKnownGrants[value]; ok {
		return gt, nil
	}
	return &GrantType{value: value}, nil
}
