package repository

import (
	"context"
	"fmt"
)

// AuthorizationConsent registra las authorities que un principal le
// otorgó a un client. La identidad es compuesta:
// (registered_client_id, principal_name). La fila se crea, reemplaza y
// borra siempre completa.
type AuthorizationConsent struct {
	RegisteredClientID string
	PrincipalName      string
	Authorities        []string
}

// NewConsent valida y construye un consent.
func NewConsent(registeredClientID, principalName string, authorities []string) (*AuthorizationConsent, error) {
	if registeredClientID == "" {
		return nil, fmt.Errorf("%w: registered client id is required", ErrInvalidInput)
	}
	if principalName == "" {
		return nil, fmt.Errorf("%w: principal name is required", ErrInvalidInput)
	}
	return &AuthorizationConsent{
		RegisteredClientID: registeredClientID,
		PrincipalName:      principalName,
		Authorities:        authorities,
	}, nil
}

// ConsentRepository define el CRUD de consents por clave compuesta.
type ConsentRepository interface {
	// Save crea o reemplaza el consent completo.
	Save(ctx context.Context, c *AuthorizationConsent) error

	// Remove elimina el consent de la clave compuesta. Remover uno
	// inexistente no es error.
	Remove(ctx context.Context, registeredClientID, principalName string) error

	// FindByClientAndPrincipal retorna el consent o ErrNotFound.
	FindByClientAndPrincipal(ctx context.Context, registeredClientID, principalName string) (*AuthorizationConsent, error)
}
