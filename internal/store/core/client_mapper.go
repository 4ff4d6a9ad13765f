package core

import (
	"fmt"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/oauth2"
	"github.com/sgivu/sgivu-auth/internal/store/codec"
)

// ClientToRow aplana un RegisteredClient a su fila de storage. Los
// settings ausentes producen igual un default codificado ("{}"), nunca
// una columna null.
func ClientToRow(c *repository.RegisteredClient) (*ClientRow, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: client must not be nil", repository.ErrInvalidInput)
	}
	if c.ID == "" || c.ClientID == "" {
		return nil, fmt.Errorf("%w: client id and clientId are required", repository.ErrInvalidInput)
	}

	methods := make([]string, 0, len(c.AuthMethods))
	for _, m := range c.AuthMethods {
		methods = append(methods, m.Value())
	}
	grants := make([]string, 0, len(c.GrantTypes))
	for _, g := range c.GrantTypes {
		grants = append(grants, g.Value())
	}

	clientSettings, err := codec.EncodeSettings(c.ClientSettings)
	if err != nil {
		return nil, fmt.Errorf("%w: client settings: %v", repository.ErrSerialization, err)
	}
	tokenSettings, err := codec.EncodeSettings(c.TokenSettings)
	if err != nil {
		return nil, fmt.Errorf("%w: token settings: %v", repository.ErrSerialization, err)
	}

	return &ClientRow{
		ID:                     c.ID,
		ClientID:               c.ClientID,
		ClientIDIssuedAt:       c.ClientIDIssuedAt,
		ClientSecret:           nullIfEmpty(c.ClientSecret),
		ClientSecretExpiresAt:  c.ClientSecretExpiresAt,
		ClientName:             c.ClientName,
		AuthenticationMethods:  codec.EncodeDelimitedSet(methods),
		GrantTypes:             codec.EncodeDelimitedSet(grants),
		RedirectURIs:           codec.EncodeDelimitedSet(c.RedirectURIs),
		PostLogoutRedirectURIs: codec.EncodeDelimitedSet(c.PostLogoutRedirectURIs),
		Scopes:                 codec.EncodeDelimitedSet(c.Scopes),
		ClientSettings:         clientSettings,
		TokenSettings:          tokenSettings,
	}, nil
}

// RowToClient reconstruye el RegisteredClient desde su fila. Los campos
// enumerados (grant types, auth methods) se resuelven miembro a miembro
// contra los registries, así el caller recibe valores canónicos y no
// strings crudos. Settings JSON malformado es un error de validación:
// los settings gobiernan comportamiento de seguridad y no se
// defaultean en silencio.
func RowToClient(row *ClientRow) (*repository.RegisteredClient, error) {
	if row == nil {
		return nil, fmt.Errorf("%w: client row must not be nil", repository.ErrInvalidInput)
	}

	methods := make([]*oauth2.ClientAuthMethod, 0, 2)
	for _, v := range codec.DecodeDelimitedSet(row.AuthenticationMethods) {
		m, err := oauth2.ResolveAuthMethod(v)
		if err != nil {
			return nil, fmt.Errorf("%w: authentication method: %v", repository.ErrInvalidInput, err)
		}
		methods = append(methods, m)
	}
	grants := make([]*oauth2.GrantType, 0, 2)
	for _, v := range codec.DecodeDelimitedSet(row.GrantTypes) {
		g, err := oauth2.ResolveGrantType(v)
		if err != nil {
			return nil, fmt.Errorf("%w: grant type: %v", repository.ErrInvalidInput, err)
		}
		grants = append(grants, g)
	}

	clientSettings, err := codec.DecodeSettings(row.ClientSettings)
	if err != nil {
		return nil, fmt.Errorf("%w: client settings: %v", repository.ErrInvalidInput, err)
	}
	tokenSettings, err := codec.DecodeSettings(row.TokenSettings)
	if err != nil {
		return nil, fmt.Errorf("%w: token settings: %v", repository.ErrInvalidInput, err)
	}

	return &repository.RegisteredClient{
		ID:                     row.ID,
		ClientID:               row.ClientID,
		ClientIDIssuedAt:       row.ClientIDIssuedAt,
		ClientSecret:           deref(row.ClientSecret),
		ClientSecretExpiresAt:  row.ClientSecretExpiresAt,
		ClientName:             row.ClientName,
		AuthMethods:            methods,
		GrantTypes:             grants,
		RedirectURIs:           codec.DecodeDelimitedSet(row.RedirectURIs),
		PostLogoutRedirectURIs: codec.DecodeDelimitedSet(row.PostLogoutRedirectURIs),
		Scopes:                 codec.DecodeDelimitedSet(row.Scopes),
		ClientSettings:         clientSettings,
		TokenSettings:          tokenSettings,
	}, nil
}
