// Package config carga la configuración YAML del servicio con defaults
// razonables para desarrollo local.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		Redis struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
		ClientTTL string `yaml:"client_ttl"`
	} `yaml:"cache"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	// Clients se registran (upsert) al arrancar cmd/seed.
	Clients []SeedClient `yaml:"clients"`
}

// SeedClient es la definición declarativa de un registered client.
// El secret viene en claro en el YAML y se guarda hasheado.
type SeedClient struct {
	ClientID               string         `yaml:"client_id"`
	ClientSecret           string         `yaml:"client_secret"`
	ClientName             string         `yaml:"client_name"`
	AuthenticationMethods  []string       `yaml:"authentication_methods"`
	GrantTypes             []string       `yaml:"grant_types"`
	RedirectURIs           []string       `yaml:"redirect_uris"`
	PostLogoutRedirectURIs []string       `yaml:"post_logout_redirect_uris"`
	Scopes                 []string       `yaml:"scopes"`
	ClientSettings         map[string]any `yaml:"client_settings"`
	TokenSettings          map[string]any `yaml:"token_settings"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.ClientTTL == "" {
		c.Cache.ClientTTL = "2m"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	// El DSN puede venir por entorno para no dejar credenciales en el YAML.
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DSN = v
	}

	return &c, nil
}

// ClientCacheTTL parsea cache.client_ttl; un valor inválido cae al default.
func (c *Config) ClientCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.ClientTTL)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// PostgresConnMaxLifetime parsea storage.postgres.conn_max_lifetime.
func (c *Config) PostgresConnMaxLifetime() time.Duration {
	d, err := time.ParseDuration(c.Storage.Postgres.ConnMaxLifetime)
	if err != nil {
		return 0
	}
	return d
}
