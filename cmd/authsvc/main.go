// Command authsvc levanta el authorization store como servicio: abre el
// storage y el cache, y expone la superficie operacional HTTP (health,
// readiness, métricas).
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sgivu/sgivu-auth/internal/cache"
	"github.com/sgivu/sgivu-auth/internal/config"
	apphttp "github.com/sgivu/sgivu-auth/internal/http"
	"github.com/sgivu/sgivu-auth/internal/metrics"
	"github.com/sgivu/sgivu-auth/internal/observability/logger"
	"github.com/sgivu/sgivu-auth/internal/store/cached"
	"github.com/sgivu/sgivu-auth/internal/store/pg"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "authsvc"})
	defer logger.Sync()
	lg := logger.L()

	if err := metrics.RegisterStore(nil); err != nil {
		lg.Fatal("register metrics", logger.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: cfg.PostgresConnMaxLifetime(),
	})
	if err != nil {
		lg.Fatal("open store", logger.Err(err))
	}
	defer store.Close()

	cc, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Host:     cfg.Cache.Redis.Host,
		Port:     cfg.Cache.Redis.Port,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		lg.Fatal("open cache", logger.Err(err))
	}
	defer cc.Close()

	// Los grants se reconstruyen resolviendo su client en cada lectura;
	// esa resolución pasa por el cache.
	clients := cached.NewClients(store.Clients(), cc, cfg.ClientCacheTTL())
	store.UseClientResolver(clients)

	srv := &stdhttp.Server{
		Addr:         cfg.Server.Addr,
		Handler:      apphttp.NewRouter(apphttp.Deps{Store: store, Cache: cc}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("listening", logger.Key(cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// El backend en memoria no expira entradas solo; un janitor las barre.
	if janitor, ok := cc.(interface{ Cleanup() }); ok {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					janitor.Cleanup()
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		lg.Fatal("server", logger.Err(err))
	}
	lg.Info("shutdown complete")
}
