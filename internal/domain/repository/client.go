package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sgivu/sgivu-auth/internal/oauth2"
)

// Claves bien conocidas de client settings / token settings. Los bags
// admiten claves arbitrarias; estas son las que el motor de protocolo
// interpreta.
const (
	SettingRequireConsent  = "require_authorization_consent"
	SettingRequireProofKey = "require_proof_key"

	SettingAccessTokenTTL  = "access_token_ttl_seconds"
	SettingRefreshTokenTTL = "refresh_token_ttl_seconds"
	SettingReuseRefresh    = "reuse_refresh_tokens"
	SettingIDTokenSigAlg   = "id_token_signature_algorithm"
)

// RegisteredClient es la configuración durable de un cliente OAuth2.
// ID es la clave de storage; ClientID es el identificador de wire.
// Ambos son estables una vez creados.
type RegisteredClient struct {
	ID                     string
	ClientID               string
	ClientIDIssuedAt       time.Time
	ClientSecret           string
	ClientSecretExpiresAt  *time.Time
	ClientName             string
	AuthMethods            []*oauth2.ClientAuthMethod
	GrantTypes             []*oauth2.GrantType
	RedirectURIs           []string
	PostLogoutRedirectURIs []string
	Scopes                 []string
	ClientSettings         map[string]any
	TokenSettings          map[string]any
}

// ClientBuilder arma un RegisteredClient validado.
type ClientBuilder struct {
	c RegisteredClient
}

// NewClient crea un builder para el client_id de wire dado.
func NewClient(clientID string) *ClientBuilder {
	return &ClientBuilder{c: RegisteredClient{ClientID: clientID}}
}

func (b *ClientBuilder) ID(id string) *ClientBuilder {
	b.c.ID = id
	return b
}

func (b *ClientBuilder) ClientIDIssuedAt(t time.Time) *ClientBuilder {
	b.c.ClientIDIssuedAt = t
	return b
}

func (b *ClientBuilder) Secret(secret string) *ClientBuilder {
	b.c.ClientSecret = secret
	return b
}

func (b *ClientBuilder) SecretExpiresAt(t time.Time) *ClientBuilder {
	b.c.ClientSecretExpiresAt = &t
	return b
}

func (b *ClientBuilder) Name(name string) *ClientBuilder {
	b.c.ClientName = name
	return b
}

func (b *ClientBuilder) AuthMethod(m *oauth2.ClientAuthMethod) *ClientBuilder {
	b.c.AuthMethods = append(b.c.AuthMethods, m)
	return b
}

func (b *ClientBuilder) GrantType(gt *oauth2.GrantType) *ClientBuilder {
	b.c.GrantTypes = append(b.c.GrantTypes, gt)
	return b
}

func (b *ClientBuilder) RedirectURI(uri string) *ClientBuilder {
	b.c.RedirectURIs = append(b.c.RedirectURIs, uri)
	return b
}

func (b *ClientBuilder) PostLogoutRedirectURI(uri string) *ClientBuilder {
	b.c.PostLogoutRedirectURIs = append(b.c.PostLogoutRedirectURIs, uri)
	return b
}

func (b *ClientBuilder) Scope(scope string) *ClientBuilder {
	b.c.Scopes = append(b.c.Scopes, scope)
	return b
}

func (b *ClientBuilder) ClientSettings(settings map[string]any) *ClientBuilder {
	b.c.ClientSettings = settings
	return b
}

func (b *ClientBuilder) TokenSettings(settings map[string]any) *ClientBuilder {
	b.c.TokenSettings = settings
	return b
}

// Build valida y retorna el client. Si ID está vacío genera un UUID;
// ClientID es siempre obligatorio.
func (b *ClientBuilder) Build() (*RegisteredClient, error) {
	c := b.c
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ClientID == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	if c.ClientName == "" {
		c.ClientName = c.ClientID
	}
	if c.ClientIDIssuedAt.IsZero() {
		c.ClientIDIssuedAt = time.Now().UTC()
	}
	return &c, nil
}

// ClientRepository define lecturas y alta de registered clients. Las
// dos identidades (id de storage y client_id de wire) se indexan por
// separado. Esta capa no asume borrado en cascada: la política de
// deletion es una preocupación externa.
type ClientRepository interface {
	// Save crea o reemplaza el client (upsert por id).
	Save(ctx context.Context, c *RegisteredClient) error

	// FindByID retorna el client por su clave de storage, o ErrNotFound.
	FindByID(ctx context.Context, id string) (*RegisteredClient, error)

	// FindByClientID retorna el client por su identificador de wire, o
	// ErrNotFound.
	FindByClientID(ctx context.Context, clientID string) (*RegisteredClient, error)
}
