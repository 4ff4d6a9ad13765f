package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/store/codec"
)

// ConsentMapper convierte AuthorizationConsent <-> ConsentRow. Igual
// que con las authorizations, una fila cuyo client ya no existe no se
// reconstruye.
type ConsentMapper struct {
	Clients ClientResolver
}

func (m *ConsentMapper) ToRow(c *repository.AuthorizationConsent) (*ConsentRow, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: consent must not be nil", repository.ErrInvalidInput)
	}
	if c.RegisteredClientID == "" || c.PrincipalName == "" {
		return nil, fmt.Errorf("%w: registered client id and principal name are required", repository.ErrInvalidInput)
	}
	return &ConsentRow{
		RegisteredClientID: c.RegisteredClientID,
		PrincipalName:      c.PrincipalName,
		Authorities:        codec.EncodeDelimitedSet(c.Authorities),
	}, nil
}

func (m *ConsentMapper) ToConsent(ctx context.Context, row *ConsentRow) (*repository.AuthorizationConsent, error) {
	if row == nil {
		return nil, fmt.Errorf("%w: consent row must not be nil", repository.ErrInvalidInput)
	}

	if _, err := m.Clients.FindByID(ctx, row.RegisteredClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: registered client %q referenced by consent for %q", repository.ErrNotFound, row.RegisteredClientID, row.PrincipalName)
		}
		return nil, err
	}

	return repository.NewConsent(row.RegisteredClientID, row.PrincipalName, codec.DecodeDelimitedSet(row.Authorities))
}
