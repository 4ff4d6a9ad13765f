// Package pg implementa los repositorios del authorization store sobre
// PostgreSQL vía pgx. Las queries son CRUD directo sobre las filas de
// core; el mapeo fila<->agregado vive en core y acá sólo se escanea.
package pg

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sgivu/sgivu-auth/internal/metrics"
	"github.com/sgivu/sgivu-auth/internal/observability/logger"
	"github.com/sgivu/sgivu-auth/internal/store/core"
)

// Options ajusta el pool de conexiones. Los ceros dejan los defaults
// de pgxpool.
type Options struct {
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
}

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger

	authz    core.AuthorizationMapper
	consents core.ConsentMapper
}

// New abre el pool contra el DSN dado. El ping de arranque es
// informativo: si la base está caída, el servicio arranca igual y los
// readiness checks reportan el estado real.
func New(ctx context.Context, dsn string, opts Options) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxConns > 0 {
		pcfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MinConns > 0 {
		pcfg.MinConns = int32(opts.MinConns)
	}
	if opts.ConnMaxLifetime > 0 {
		pcfg.MaxConnLifetime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	log := logger.Named("store.pg")
	if err := pool.Ping(ctx); err != nil {
		log.Warn("startup ping failed", zap.Error(err))
	} else {
		log.Info("pool ready", zap.Int32("max_conns", pcfg.MaxConns))
	}

	s := &Store{pool: pool, log: log}
	s.authz = core.AuthorizationMapper{Clients: s}
	s.consents = core.ConsentMapper{Clients: s}
	return s, nil
}

// UseClientResolver reemplaza el resolver de clients que usan los
// mappers al reconstruir grants y consents (ej: la vista cacheada).
// Llamar durante el wiring, antes de servir tráfico.
func (s *Store) UseClientResolver(r core.ClientResolver) {
	s.authz.Clients = r
	s.consents.Clients = r
}

// Pool expone el pool interno para usos avanzados (métricas, migraciones).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// observe registra contador y latencia de una operación del store.
func observe(entity, op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.StoreOps.WithLabelValues(entity, op, result).Inc()
	metrics.StoreOpLatency.WithLabelValues(entity, op).Observe(float64(time.Since(start).Milliseconds()))
}
