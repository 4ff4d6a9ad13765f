package oauth2

import "fmt"

// ClientAuthMethod representa un método de autenticación de cliente
// OAuth2. Mismo contrato que GrantType: singletons para los valores
// estándar, extensiones comparables por Value().
type ClientAuthMethod struct {
	value string
}

// Value retorna el wire string del método.
func (m *ClientAuthMethod) Value() string { return m.value }

func (m *ClientAuthMethod) String() string { return m.value }

// Métodos bien conocidos (RFC 6749 §2.3, OIDC Core §9).
var (
	AuthMethodClientSecretBasic = &ClientAuthMethod{value: "client_secret_basic"}
	AuthMethodClientSecretPost  = &ClientAuthMethod{value: "client_secret_post"}
	AuthMethodClientSecretJWT   = &ClientAuthMethod{value: "client_secret_jwt"}
	AuthMethodPrivateKeyJWT     = &ClientAuthMethod{value: "private_key_jwt"}
	AuthMethodNone              = &ClientAuthMethod{value: "none"}
)

var wellKnownAuthMethods = map[string]*ClientAuthMethod{
	AuthMethodClientSecretBasic.value: AuthMethodClientSecretBasic,
	AuthMethodClientSecretPost.value:  AuthMethodClientSecretPost,
	AuthMethodClientSecretJWT.value:   AuthMethodClientSecretJWT,
	AuthMethodPrivateKeyJWT.value:     AuthMethodPrivateKeyJWT,
	AuthMethodNone.value:              AuthMethodNone,
}

// ResolveAuthMethod resuelve un wire string a su ClientAuthMethod.
func ResolveAuthMethod(value string) (*ClientAuthMethod, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: client authentication method", ErrEmptyValue)
	}
	if m, ok := wellKnownAuthMethods[value]; ok {
		return m, nil
	}
	return &ClientAuthMethod{value: value}, nil
}
