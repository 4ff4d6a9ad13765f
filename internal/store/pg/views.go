package pg

import (
	"context"

	"github.com/sgivu/sgivu-auth/internal/domain/repository"
)

// Las vistas adaptan el Store a las interfaces de repository. Los
// nombres de método de las tres interfaces colisionan (Save, Remove),
// por eso el Store implementa todo con nombres prefijados y las vistas
// sólo delegan.

type clientRepo struct{ s *Store }

// Clients retorna la vista ClientRepository del store.
func (s *Store) Clients() repository.ClientRepository { return clientRepo{s} }

func (r clientRepo) Save(ctx context.Context, c *repository.RegisteredClient) error {
	return r.s.SaveClient(ctx, c)
}

func (r clientRepo) FindByID(ctx context.Context, id string) (*repository.RegisteredClient, error) {
	return r.s.FindByID(ctx, id)
}

func (r clientRepo) FindByClientID(ctx context.Context, clientID string) (*repository.RegisteredClient, error) {
	return r.s.FindByClientID(ctx, clientID)
}

type authorizationRepo struct{ s *Store }

// Authorizations retorna la vista AuthorizationRepository del store.
func (s *Store) Authorizations() repository.AuthorizationRepository { return authorizationRepo{s} }

func (r authorizationRepo) Save(ctx context.Context, a *repository.Authorization) error {
	return r.s.SaveAuthorization(ctx, a)
}

func (r authorizationRepo) Remove(ctx context.Context, id string) error {
	return r.s.RemoveAuthorization(ctx, id)
}

func (r authorizationRepo) FindByID(ctx context.Context, id string) (*repository.Authorization, error) {
	return r.s.FindAuthorizationByID(ctx, id)
}

func (r authorizationRepo) FindByToken(ctx context.Context, token string) (*repository.Authorization, error) {
	return r.s.FindAuthorizationByToken(ctx, token)
}

type consentRepo struct{ s *Store }

// Consents retorna la vista ConsentRepository del store.
func (s *Store) Consents() repository.ConsentRepository { return consentRepo{s} }

func (r consentRepo) Save(ctx context.Context, c *repository.AuthorizationConsent) error {
	return r.s.SaveConsent(ctx, c)
}

func (r consentRepo) Remove(ctx context.Context, registeredClientID, principalName string) error {
	return r.s.RemoveConsent(ctx, registeredClientID, principalName)
}

func (r consentRepo) FindByClientAndPrincipal(ctx context.Context, registeredClientID, principalName string) (*repository.AuthorizationConsent, error) {
	return r.s.FindConsent(ctx, registeredClientID, principalName)
}
