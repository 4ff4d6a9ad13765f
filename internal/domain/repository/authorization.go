package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sgivu/sgivu-auth/internal/oauth2"
)

// Token es un slot de token dentro de una Authorization. Los tres
// campos value/issued/expires van juntos: un slot sin value no existe.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Metadata es el side channel del token (ej: "invalidated" cuando un
	// code ya fue consumido). Se persiste codec-encoded.
	Metadata map[string]any
}

// AccessToken extiende Token con el tipo de token y los scopes
// efectivamente otorgados.
type AccessToken struct {
	Token
	TokenType string
	Scopes    []string
}

// IDToken extiende Token con los claims OIDC, persistidos aparte de la
// metadata.
type IDToken struct {
	Token
	Claims map[string]any
}

// TokenTypeBearer es el único access token type que emitimos hoy.
const TokenTypeBearer = "Bearer"

// AttrState es la clave del atributo "state" del authorization request.
// Se materializa además en su propia columna para lookup.
const AttrState = "state"

// Authorization es el estado persistido de una transacción de
// autorización OAuth2: hasta seis slots de token independientes más un
// bag de atributos arbitrarios del caller (incluyendo el snapshot del
// principal). Se construye una vez vía AuthorizationBuilder y no se
// muta después.
type Authorization struct {
	ID                 string
	RegisteredClientID string
	PrincipalName      string
	GrantType          *oauth2.GrantType
	AuthorizedScopes   []string
	Attributes         map[string]any

	AuthorizationCode *Token
	AccessToken       *AccessToken
	RefreshToken      *Token
	IDToken           *IDToken
	UserCode          *Token
	DeviceCode        *Token
}

// State retorna el atributo "state" si está presente.
func (a *Authorization) State() string {
	if a.Attributes == nil {
		return ""
	}
	s, _ := a.Attributes[AttrState].(string)
	return s
}

// AuthorizationBuilder arma una Authorization en el borde de la capa.
// Los errores de validación se acumulan y se reportan en Build.
type AuthorizationBuilder struct {
	a Authorization
}

// NewAuthorization crea un builder para un grant del client dado.
func NewAuthorization(registeredClientID string) *AuthorizationBuilder {
	return &AuthorizationBuilder{a: Authorization{RegisteredClientID: registeredClientID}}
}

// ID asigna el id del grant. Si no se llama, Build genera un UUID.
func (b *AuthorizationBuilder) ID(id string) *AuthorizationBuilder {
	b.a.ID = id
	return b
}

func (b *AuthorizationBuilder) PrincipalName(name string) *AuthorizationBuilder {
	b.a.PrincipalName = name
	return b
}

func (b *AuthorizationBuilder) GrantType(gt *oauth2.GrantType) *AuthorizationBuilder {
	b.a.GrantType = gt
	return b
}

func (b *AuthorizationBuilder) AuthorizedScopes(scopes []string) *AuthorizationBuilder {
	b.a.AuthorizedScopes = scopes
	return b
}

// Attribute agrega un atributo arbitrario al bag.
func (b *AuthorizationBuilder) Attribute(key string, value any) *AuthorizationBuilder {
	if b.a.Attributes == nil {
		b.a.Attributes = map[string]any{}
	}
	b.a.Attributes[key] = value
	return b
}

// Attributes reemplaza el bag completo.
func (b *AuthorizationBuilder) Attributes(attrs map[string]any) *AuthorizationBuilder {
	b.a.Attributes = attrs
	return b
}

func (b *AuthorizationBuilder) AuthorizationCode(t Token) *AuthorizationBuilder {
	b.a.AuthorizationCode = &t
	return b
}

func (b *AuthorizationBuilder) AccessToken(t AccessToken) *AuthorizationBuilder {
	b.a.AccessToken = &t
	return b
}

func (b *AuthorizationBuilder) RefreshToken(t Token) *AuthorizationBuilder {
	b.a.RefreshToken = &t
	return b
}

func (b *AuthorizationBuilder) IDToken(t IDToken) *AuthorizationBuilder {
	b.a.IDToken = &t
	return b
}

func (b *AuthorizationBuilder) UserCode(t Token) *AuthorizationBuilder {
	b.a.UserCode = &t
	return b
}

func (b *AuthorizationBuilder) DeviceCode(t Token) *AuthorizationBuilder {
	b.a.DeviceCode = &t
	return b
}

// Build valida y retorna el agregado inmutable.
func (b *AuthorizationBuilder) Build() (*Authorization, error) {
	a := b.a
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.RegisteredClientID == "" {
		return nil, fmt.Errorf("%w: registered client id is required", ErrInvalidInput)
	}
	if a.PrincipalName == "" {
		return nil, fmt.Errorf("%w: principal name is required", ErrInvalidInput)
	}
	if a.GrantType == nil {
		return nil, fmt.Errorf("%w: grant type is required", ErrInvalidInput)
	}

	for name, t := range map[string]*Token{
		"authorization code": a.AuthorizationCode,
		"refresh token":      a.RefreshToken,
		"user code":          a.UserCode,
		"device code":        a.DeviceCode,
	} {
		if err := validToken(name, t); err != nil {
			return nil, err
		}
	}
	if a.AccessToken != nil {
		if err := validToken("access token", &a.AccessToken.Token); err != nil {
			return nil, err
		}
	}
	if a.IDToken != nil {
		if err := validToken("id token", &a.IDToken.Token); err != nil {
			return nil, err
		}
	}

	return &a, nil
}

func validToken(name string, t *Token) error {
	if t == nil {
		return nil
	}
	if t.Value == "" {
		return fmt.Errorf("%w: %s without value", ErrInvalidInput, name)
	}
	if !t.IssuedAt.IsZero() && !t.ExpiresAt.IsZero() && t.ExpiresAt.Before(t.IssuedAt) {
		return fmt.Errorf("%w: %s expires before it is issued", ErrInvalidInput, name)
	}
	return nil
}

// AuthorizationRepository define el ciclo de vida de los grants
// persistidos. Save es idempotente (last write wins sobre el mismo id);
// las lecturas no tienen efectos secundarios.
type AuthorizationRepository interface {
	// Save crea o reemplaza el grant completo.
	Save(ctx context.Context, a *Authorization) error

	// Remove elimina el grant. Remover un id inexistente no es error.
	Remove(ctx context.Context, id string) error

	// FindByID retorna el grant o ErrNotFound.
	FindByID(ctx context.Context, id string) (*Authorization, error)

	// FindByToken busca un grant por cualquiera de sus tokens (o por el
	// state). El caller no sabe de antemano qué clase de token tiene en
	// la mano, así que se chequean todas las columnas de valor.
	FindByToken(ctx context.Context, token string) (*Authorization, error)
}
