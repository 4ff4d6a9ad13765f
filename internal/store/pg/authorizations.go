package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/store/core"
)

const authorizationColumns = `id, registered_client_id, principal_name, authorization_grant_type,
	authorized_scopes, attributes, state,
	authorization_code_value, authorization_code_issued_at, authorization_code_expires_at, authorization_code_metadata,
	access_token_value, access_token_issued_at, access_token_expires_at, access_token_metadata,
	access_token_type, access_token_scopes,
	refresh_token_value, refresh_token_issued_at, refresh_token_expires_at, refresh_token_metadata,
	oidc_id_token_value, oidc_id_token_issued_at, oidc_id_token_expires_at, oidc_id_token_metadata, oidc_id_token_claims,
	user_code_value, user_code_issued_at, user_code_expires_at, user_code_metadata,
	device_code_value, device_code_issued_at, device_code_expires_at, device_code_metadata`

// SaveAuthorization crea o reemplaza el grant completo. Siempre se
// escriben las 34 columnas: un slot que desapareció del agregado queda
// NULL también en la fila.
func (s *Store) SaveAuthorization(ctx context.Context, a *repository.Authorization) error {
	start := time.Now()
	row, err := s.authz.ToRow(a)
	if err != nil {
		observe("authorization", "save", start, err)
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO authorizations (`+authorizationColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,
			$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34)
		ON CONFLICT (id) DO UPDATE SET
			registered_client_id = EXCLUDED.registered_client_id,
			principal_name = EXCLUDED.principal_name,
			authorization_grant_type = EXCLUDED.authorization_grant_type,
			authorized_scopes = EXCLUDED.authorized_scopes,
			attributes = EXCLUDED.attributes,
			state = EXCLUDED.state,
			authorization_code_value = EXCLUDED.authorization_code_value,
			authorization_code_issued_at = EXCLUDED.authorization_code_issued_at,
			authorization_code_expires_at = EXCLUDED.authorization_code_expires_at,
			authorization_code_metadata = EXCLUDED.authorization_code_metadata,
			access_token_value = EXCLUDED.access_token_value,
			access_token_issued_at = EXCLUDED.access_token_issued_at,
			access_token_expires_at = EXCLUDED.access_token_expires_at,
			access_token_metadata = EXCLUDED.access_token_metadata,
			access_token_type = EXCLUDED.access_token_type,
			access_token_scopes = EXCLUDED.access_token_scopes,
			refresh_token_value = EXCLUDED.refresh_token_value,
			refresh_token_issued_at = EXCLUDED.refresh_token_issued_at,
			refresh_token_expires_at = EXCLUDED.refresh_token_expires_at,
			refresh_token_metadata = EXCLUDED.refresh_token_metadata,
			oidc_id_token_value = EXCLUDED.oidc_id_token_value,
			oidc_id_token_issued_at = EXCLUDED.oidc_id_token_issued_at,
			oidc_id_token_expires_at = EXCLUDED.oidc_id_token_expires_at,
			oidc_id_token_metadata = EXCLUDED.oidc_id_token_metadata,
			oidc_id_token_claims = EXCLUDED.oidc_id_token_claims,
			user_code_value = EXCLUDED.user_code_value,
			user_code_issued_at = EXCLUDED.user_code_issued_at,
			user_code_expires_at = EXCLUDED.user_code_expires_at,
			user_code_metadata = EXCLUDED.user_code_metadata,
			device_code_value = EXCLUDED.device_code_value,
			device_code_issued_at = EXCLUDED.device_code_issued_at,
			device_code_expires_at = EXCLUDED.device_code_expires_at,
			device_code_metadata = EXCLUDED.device_code_metadata`,
		row.ID, row.RegisteredClientID, row.PrincipalName, row.GrantType,
		row.AuthorizedScopes, row.Attributes, row.State,
		row.AuthorizationCodeValue, row.AuthorizationCodeIssuedAt, row.AuthorizationCodeExpiresAt, row.AuthorizationCodeMetadata,
		row.AccessTokenValue, row.AccessTokenIssuedAt, row.AccessTokenExpiresAt, row.AccessTokenMetadata,
		row.AccessTokenType, row.AccessTokenScopes,
		row.RefreshTokenValue, row.RefreshTokenIssuedAt, row.RefreshTokenExpiresAt, row.RefreshTokenMetadata,
		row.IDTokenValue, row.IDTokenIssuedAt, row.IDTokenExpiresAt, row.IDTokenMetadata, row.IDTokenClaims,
		row.UserCodeValue, row.UserCodeIssuedAt, row.UserCodeExpiresAt, row.UserCodeMetadata,
		row.DeviceCodeValue, row.DeviceCodeIssuedAt, row.DeviceCodeExpiresAt, row.DeviceCodeMetadata)
	observe("authorization", "save", start, err)
	return err
}

// RemoveAuthorization borra el grant. Un id inexistente no es error.
func (s *Store) RemoveAuthorization(ctx context.Context, id string) error {
	start := time.Now()
	_, err := s.pool.Exec(ctx, `DELETE FROM authorizations WHERE id = $1`, id)
	observe("authorization", "remove", start, err)
	return err
}

// FindAuthorizationByID retorna el grant o ErrNotFound.
func (s *Store) FindAuthorizationByID(ctx context.Context, id string) (*repository.Authorization, error) {
	start := time.Now()
	a, err := s.scanAuthorization(ctx, s.pool.QueryRow(ctx,
		`SELECT `+authorizationColumns+` FROM authorizations WHERE id = $1`, id))
	observe("authorization", "find_by_id", start, err)
	return a, err
}

// FindAuthorizationByToken busca el grant dueño de cualquier token (o
// del state). El caller no sabe qué clase de token tiene en la mano,
// así que se matchean todas las columnas de valor en una sola query.
func (s *Store) FindAuthorizationByToken(ctx context.Context, token string) (*repository.Authorization, error) {
	start := time.Now()
	a, err := s.scanAuthorization(ctx, s.pool.QueryRow(ctx,
		`SELECT `+authorizationColumns+` FROM authorizations
		WHERE state = $1
			OR authorization_code_value = $1
			OR access_token_value = $1
			OR refresh_token_value = $1
			OR oidc_id_token_value = $1
			OR user_code_value = $1
			OR device_code_value = $1`, token))
	observe("authorization", "find_by_token", start, err)
	return a, err
}

func (s *Store) scanAuthorization(ctx context.Context, r pgx.Row) (*repository.Authorization, error) {
	var row core.AuthorizationRow
	err := r.Scan(&row.ID, &row.RegisteredClientID, &row.PrincipalName, &row.GrantType,
		&row.AuthorizedScopes, &row.Attributes, &row.State,
		&row.AuthorizationCodeValue, &row.AuthorizationCodeIssuedAt, &row.AuthorizationCodeExpiresAt, &row.AuthorizationCodeMetadata,
		&row.AccessTokenValue, &row.AccessTokenIssuedAt, &row.AccessTokenExpiresAt, &row.AccessTokenMetadata,
		&row.AccessTokenType, &row.AccessTokenScopes,
		&row.RefreshTokenValue, &row.RefreshTokenIssuedAt, &row.RefreshTokenExpiresAt, &row.RefreshTokenMetadata,
		&row.IDTokenValue, &row.IDTokenIssuedAt, &row.IDTokenExpiresAt, &row.IDTokenMetadata, &row.IDTokenClaims,
		&row.UserCodeValue, &row.UserCodeIssuedAt, &row.UserCodeExpiresAt, &row.UserCodeMetadata,
		&row.DeviceCodeValue, &row.DeviceCodeIssuedAt, &row.DeviceCodeExpiresAt, &row.DeviceCodeMetadata)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return s.authz.ToAuthorization(ctx, &row)
}
