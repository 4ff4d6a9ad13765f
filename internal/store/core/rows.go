// Package core define las filas planas del authorization store y los
// mappers bidireccionales entre agregados de dominio y filas. Los
// adapters de storage (pg) sólo escanean y escriben estas filas; toda
// la lógica de mapeo vive acá para poder testearla sin base de datos.
package core

import "time"

// AuthorizationRow es la fila plana de un grant. Cada uno de los seis
// slots de token aporta su grupo de columnas; un slot ausente deja todo
// su grupo en NULL.
type AuthorizationRow struct {
	ID                 string
	RegisteredClientID string
	PrincipalName      string
	GrantType          string
	AuthorizedScopes   *string
	Attributes         *string
	State              *string

	AuthorizationCodeValue     *string
	AuthorizationCodeIssuedAt  *time.Time
	AuthorizationCodeExpiresAt *time.Time
	AuthorizationCodeMetadata  *string

	AccessTokenValue     *string
	AccessTokenIssuedAt  *time.Time
	AccessTokenExpiresAt *time.Time
	AccessTokenMetadata  *string
	AccessTokenType      *string
	AccessTokenScopes    *string

	RefreshTokenValue     *string
	RefreshTokenIssuedAt  *time.Time
	RefreshTokenExpiresAt *time.Time
	RefreshTokenMetadata  *string

	IDTokenValue     *string
	IDTokenIssuedAt  *time.Time
	IDTokenExpiresAt *time.Time
	IDTokenMetadata  *string
	IDTokenClaims    *string

	UserCodeValue     *string
	UserCodeIssuedAt  *time.Time
	UserCodeExpiresAt *time.Time
	UserCodeMetadata  *string

	DeviceCodeValue     *string
	DeviceCodeIssuedAt  *time.Time
	DeviceCodeExpiresAt *time.Time
	DeviceCodeMetadata  *string
}

// ClientRow es la fila plana de un registered client. Los campos
// multivaluados van delimitados por comas; los settings como JSON
// plano (nunca NULL: el default es "{}").
type ClientRow struct {
	ID                     string
	ClientID               string
	ClientIDIssuedAt       time.Time
	ClientSecret           *string
	ClientSecretExpiresAt  *time.Time
	ClientName             string
	AuthenticationMethods  string
	GrantTypes             string
	RedirectURIs           string
	PostLogoutRedirectURIs string
	Scopes                 string
	ClientSettings         string
	TokenSettings          string
}

// ConsentRow es la fila plana de un consent. La clave es compuesta.
type ConsentRow struct {
	RegisteredClientID string
	PrincipalName      string
	Authorities        string
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
