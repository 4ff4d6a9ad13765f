package cached

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sgivu/sgivu-auth/internal/cache"
	"github.com/sgivu/sgivu-auth/internal/domain/repository"
)

type countingRepo struct {
	clients map[string]*repository.RegisteredClient
	finds   int
}

func (r *countingRepo) Save(_ context.Context, c *repository.RegisteredClient) error {
	r.clients[c.ID] = c
	return nil
}

func (r *countingRepo) FindByID(_ context.Context, id string) (*repository.RegisteredClient, error) {
	r.finds++
	if c, ok := r.clients[id]; ok {
		return c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *countingRepo) FindByClientID(_ context.Context, clientID string) (*repository.RegisteredClient, error) {
	r.finds++
	for _, c := range r.clients {
		if c.ClientID == clientID {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestRepo(t *testing.T) *countingRepo {
	t.Helper()
	c, err := repository.NewClient("web-app").ID("rc-1").Name("Web App").Scope("openid").Build()
	require.NoError(t, err)
	return &countingRepo{clients: map[string]*repository.RegisteredClient{"rc-1": c}}
}

func TestCachedFindByIDHitsCacheOnSecondRead(t *testing.T) {
	ctx := context.Background()
	next := newTestRepo(t)
	cc := NewClients(next, cache.NewMemory("test"), time.Minute)

	first, err := cc.FindByID(ctx, "rc-1")
	require.NoError(t, err)
	require.Equal(t, 1, next.finds)

	second, err := cc.FindByID(ctx, "rc-1")
	require.NoError(t, err)
	require.Equal(t, 1, next.finds, "second read should come from cache")
	require.Equal(t, first.ClientID, second.ClientID)
	require.Equal(t, first.Scopes, second.Scopes)
}

func TestCachedFindByClientID(t *testing.T) {
	ctx := context.Background()
	next := newTestRepo(t)
	cc := NewClients(next, cache.NewMemory("test"), time.Minute)

	got, err := cc.FindByClientID(ctx, "web-app")
	require.NoError(t, err)
	require.Equal(t, "rc-1", got.ID)

	_, err = cc.FindByClientID(ctx, "web-app")
	require.NoError(t, err)
	require.Equal(t, 1, next.finds)
}

func TestCachedMissIsNotFound(t *testing.T) {
	ctx := context.Background()
	cc := NewClients(newTestRepo(t), cache.NewMemory("test"), time.Minute)

	_, err := cc.FindByID(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCachedSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	next := newTestRepo(t)
	cc := NewClients(next, cache.NewMemory("test"), time.Minute)

	_, err := cc.FindByID(ctx, "rc-1")
	require.NoError(t, err)

	updated, err := repository.NewClient("web-app").ID("rc-1").Name("Renamed").Build()
	require.NoError(t, err)
	require.NoError(t, cc.Save(ctx, updated))

	got, err := cc.FindByID(ctx, "rc-1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.ClientName)
}
