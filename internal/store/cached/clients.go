// Package cached decora el ClientRepository con un cache read-through.
// Los registered clients cambian poco y se resuelven en cada
// reconstrucción de grant o consent, así que son el punto caliente
// natural del store.
package cached

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/sgivu/sgivu-auth/internal/cache"
	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/metrics"
	"github.com/sgivu/sgivu-auth/internal/observability/logger"
	"github.com/sgivu/sgivu-auth/internal/store/core"
)

// DefaultTTL es el TTL del cache de clients si la config no dice otra cosa.
const DefaultTTL = 2 * time.Minute

type Clients struct {
	next  repository.ClientRepository
	cache cache.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewClients envuelve next con el cache dado. Un ttl <= 0 usa DefaultTTL.
func NewClients(next repository.ClientRepository, c cache.Client, ttl time.Duration) *Clients {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Clients{next: next, cache: c, ttl: ttl, log: logger.Named("store.cached")}
}

// Save delega y después invalida ambas keys del client. Invalidar en
// vez de escribir evita servir una versión vieja si dos Save compiten.
func (c *Clients) Save(ctx context.Context, rc *repository.RegisteredClient) error {
	if err := c.next.Save(ctx, rc); err != nil {
		return err
	}
	c.invalidate(ctx, rc.ID, rc.ClientID)
	return nil
}

func (c *Clients) FindByID(ctx context.Context, id string) (*repository.RegisteredClient, error) {
	return c.find(ctx, "client:id:"+id, func(ctx context.Context) (*repository.RegisteredClient, error) {
		return c.next.FindByID(ctx, id)
	})
}

func (c *Clients) FindByClientID(ctx context.Context, clientID string) (*repository.RegisteredClient, error) {
	return c.find(ctx, "client:cid:"+clientID, func(ctx context.Context) (*repository.RegisteredClient, error) {
		return c.next.FindByClientID(ctx, clientID)
	})
}

// find intenta el cache y cae al repositorio real en miss o en
// cualquier error de cache. El cache nunca convierte un client
// existente en error.
func (c *Clients) find(ctx context.Context, key string, load func(context.Context) (*repository.RegisteredClient, error)) (*repository.RegisteredClient, error) {
	if raw, err := c.cache.Get(ctx, key); err == nil {
		var row core.ClientRow
		if err := json.Unmarshal([]byte(raw), &row); err == nil {
			if rc, err := core.RowToClient(&row); err == nil {
				metrics.CacheHits.WithLabelValues("hit").Inc()
				return rc, nil
			}
		}
		// Entrada ilegible: descartarla y recargar.
		_ = c.cache.Delete(ctx, key)
	} else if !cache.IsNotFound(err) {
		c.log.Debug("cache get failed", zap.String("key", key), zap.Error(err))
	}
	metrics.CacheHits.WithLabelValues("miss").Inc()

	rc, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, rc)
	return rc, nil
}

func (c *Clients) store(ctx context.Context, rc *repository.RegisteredClient) {
	row, err := core.ClientToRow(rc)
	if err != nil {
		return
	}
	raw, err := json.Marshal(row)
	if err != nil {
		return
	}
	for _, key := range []string{"client:id:" + rc.ID, "client:cid:" + rc.ClientID} {
		if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
			c.log.Debug("cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (c *Clients) invalidate(ctx context.Context, id, clientID string) {
	for _, key := range []string{"client:id:" + id, "client:cid:" + clientID} {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.log.Debug("cache delete failed", zap.String("key", key), zap.Error(err))
		}
	}
}
