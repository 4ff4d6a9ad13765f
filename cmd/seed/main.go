// Command seed registra (upsert) los clients declarados en la config.
// Se corre al desplegar: los clients son configuración, no datos de
// usuario, y el YAML es la fuente de verdad.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sgivu/sgivu-auth/internal/config"
	"github.com/sgivu/sgivu-auth/internal/domain/repository"
	"github.com/sgivu/sgivu-auth/internal/oauth2"
	"github.com/sgivu/sgivu-auth/internal/observability/logger"
	"github.com/sgivu/sgivu-auth/internal/store/pg"
)

func main() {
	configPath := flag.String("config", "configs/config.example.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "seed"})
	defer logger.Sync()
	lg := logger.L()

	if len(cfg.Clients) == 0 {
		lg.Info("no clients declared, nothing to do")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := pg.New(ctx, cfg.Storage.DSN, pg.Options{
		MaxConns:        cfg.Storage.Postgres.MaxConns,
		MinConns:        cfg.Storage.Postgres.MinConns,
		ConnMaxLifetime: cfg.PostgresConnMaxLifetime(),
	})
	if err != nil {
		lg.Fatal("open store", logger.Err(err))
	}
	defer store.Close()

	clients := store.Clients()
	for _, sc := range cfg.Clients {
		if err := seedClient(ctx, clients, sc); err != nil {
			lg.Fatal("seed client", logger.ClientID(sc.ClientID), logger.Err(err))
		}
		lg.Info("client registered", logger.ClientID(sc.ClientID))
	}
	lg.Info("seed done", logger.Count(len(cfg.Clients)))
}

func seedClient(ctx context.Context, clients repository.ClientRepository, sc config.SeedClient) error {
	b := repository.NewClient(sc.ClientID).
		Name(sc.ClientName).
		ClientSettings(sc.ClientSettings).
		TokenSettings(sc.TokenSettings)

	for _, uri := range sc.RedirectURIs {
		b.RedirectURI(uri)
	}
	for _, uri := range sc.PostLogoutRedirectURIs {
		b.PostLogoutRedirectURI(uri)
	}
	for _, s := range sc.Scopes {
		b.Scope(s)
	}

	// Re-seed del mismo client_id conserva el id primario para no
	// romper las authorizations existentes que lo referencian.
	if existing, err := clients.FindByClientID(ctx, sc.ClientID); err == nil {
		b.ID(existing.ID)
	} else if !repository.IsNotFound(err) {
		return err
	}

	if sc.ClientSecret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(sc.ClientSecret), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		b.Secret(string(hash))
	}

	for _, v := range sc.AuthenticationMethods {
		m, err := oauth2.ResolveAuthMethod(v)
		if err != nil {
			return err
		}
		b.AuthMethod(m)
	}
	for _, v := range sc.GrantTypes {
		g, err := oauth2.ResolveGrantType(v)
		if err != nil {
			return err
		}
		b.GrantType(g)
	}

	c, err := b.Build()
	if err != nil {
		return err
	}
	return clients.Save(ctx, c)
}
