package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/store/core"
)

// SaveConsent crea o reemplaza el consent de la clave compuesta.
func (s *Store) SaveConsent(ctx context.Context, c *repository.AuthorizationConsent) error {
	start := time.Now()
	row, err := s.consents.ToRow(c)
	if err != nil {
		observe("consent", "save", start, err)
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO authorization_consents (registered_client_id, principal_name, authorities)
		VALUES ($1,$2,$3)
		ON CONFLICT (registered_client_id, principal_name) DO UPDATE SET
			authorities = EXCLUDED.authorities`,
		row.RegisteredClientID, row.PrincipalName, row.Authorities)
	observe("consent", "save", start, err)
	return err
}

// RemoveConsent borra el consent. Una clave inexistente no es error.
func (s *Store) RemoveConsent(ctx context.Context, registeredClientID, principalName string) error {
	start := time.Now()
	_, err := s.pool.Exec(ctx,
		`DELETE FROM authorization_consents WHERE registered_client_id = $1 AND principal_name = $2`,
		registeredClientID, principalName)
	observe("consent", "remove", start, err)
	return err
}

// FindConsent retorna el consent de la clave compuesta o ErrNotFound.
func (s *Store) FindConsent(ctx context.Context, registeredClientID, principalName string) (*repository.AuthorizationConsent, error) {
	start := time.Now()
	var row core.ConsentRow
	err := s.pool.QueryRow(ctx,
		`SELECT registered_client_id, principal_name, authorities
		FROM authorization_consents WHERE registered_client_id = $1 AND principal_name = $2`,
		registeredClientID, principalName).
		Scan(&row.RegisteredClientID, &row.PrincipalName, &row.Authorities)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = repository.ErrNotFound
		}
		observe("consent", "find", start, err)
		return nil, err
	}
	c, err := s.consents.ToConsent(ctx, &row)
	observe("consent", "find", start, err)
	return c, err
}
