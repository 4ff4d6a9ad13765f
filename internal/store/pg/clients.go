package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/store/core"
)

const clientColumns = `id, client_id, client_id_issued_at, client_secret, client_secret_expires_at,
	client_name, client_authentication_methods, authorization_grant_types,
	redirect_uris, post_logout_redirect_uris, scopes, client_settings, token_settings`

// SaveClient crea o reemplaza el registered client completo. El id es
// la identidad del upsert; un client_id duplicado bajo otro id es
// ErrConflict por el índice único.
func (s *Store) SaveClient(ctx context.Context, c *repository.RegisteredClient) error {
	start := time.Now()
	row, err := core.ClientToRow(c)
	if err != nil {
		observe("client", "save", start, err)
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			client_id_issued_at = EXCLUDED.client_id_issued_at,
			client_secret = EXCLUDED.client_secret,
			client_secret_expires_at = EXCLUDED.client_secret_expires_at,
			client_name = EXCLUDED.client_name,
			client_authentication_methods = EXCLUDED.client_authentication_methods,
			authorization_grant_types = EXCLUDED.authorization_grant_types,
			redirect_uris = EXCLUDED.redirect_uris,
			post_logout_redirect_uris = EXCLUDED.post_logout_redirect_uris,
			scopes = EXCLUDED.scopes,
			client_settings = EXCLUDED.client_settings,
			token_settings = EXCLUDED.token_settings`,
		row.ID, row.ClientID, row.ClientIDIssuedAt, row.ClientSecret, row.ClientSecretExpiresAt,
		row.ClientName, row.AuthenticationMethods, row.GrantTypes,
		row.RedirectURIs, row.PostLogoutRedirectURIs, row.Scopes, row.ClientSettings, row.TokenSettings)
	if err != nil && isUniqueViolation(err) {
		err = fmt.Errorf("%w: client_id %q already registered", repository.ErrConflict, c.ClientID)
	}
	observe("client", "save", start, err)
	return err
}

// FindByID retorna el client por su id primario o ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id string) (*repository.RegisteredClient, error) {
	start := time.Now()
	c, err := s.scanClient(s.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	observe("client", "find_by_id", start, err)
	return c, err
}

// FindByClientID retorna el client por su client_id público o ErrNotFound.
func (s *Store) FindByClientID(ctx context.Context, clientID string) (*repository.RegisteredClient, error) {
	start := time.Now()
	c, err := s.scanClient(s.pool.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE client_id = $1`, clientID))
	observe("client", "find_by_client_id", start, err)
	return c, err
}

func (s *Store) scanClient(r pgx.Row) (*repository.RegisteredClient, error) {
	var row core.ClientRow
	err := r.Scan(&row.ID, &row.ClientID, &row.ClientIDIssuedAt, &row.ClientSecret, &row.ClientSecretExpiresAt,
		&row.ClientName, &row.AuthenticationMethods, &row.GrantTypes,
		&row.RedirectURIs, &row.PostLogoutRedirectURIs, &row.Scopes, &row.ClientSettings, &row.TokenSettings)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return core.RowToClient(&row)
}
