package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-headless/pkg/headless/api"
	"github.com/tendant/simple-headless/pkg/headless/config"
	repopg "github.com/tendant/simple-headless/pkg/headless/repo/postgres"
)

type Config struct {
	DB      DbConfig
	Content ContentConfig
	HTTP    HTTPConfig
}

type DbConfig struct {
	Port     uint16 `env:"HEADLESS_PG_PORT" env-default:"5432"`
	Host     string `env:"HEADLESS_PG_HOST" env-default:"localhost"`
	Name     string `env:"HEADLESS_PG_NAME" env-default:"headless_db"`
	User     string `env:"HEADLESS_PG_USER" env-default:"headless"`
	Password string `env:"HEADLESS_PG_PASSWORD" env-default:"pwd"`
	Schema   string `env:"HEADLESS_PG_SCHEMA" env-default:"headless"`
	Migrate  bool   `env:"HEADLESS_PG_MIGRATE" env-default:"false"`
}

type ContentConfig struct {
	Locales              []string `env:"LOCALES" env-separator:","`
	MediaURL             string   `env:"MEDIA_URL"`
	EnableFields         bool     `env:"ENABLE_FIELDS" env-default:"true"`
	EnableSearch         bool     `env:"ENABLE_SEARCH" env-default:"true"`
	PostExcludedTypes    []string `env:"POST_EXCLUDED_TYPES" env-separator:","`
	ArchiveExcludedTypes []string `env:"ARCHIVE_EXCLUDED_TYPES" env-separator:","`
}

type HTTPConfig struct {
	RoutePrefix string   `env:"ROUTE_PREFIX" env-default:"/"`
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:","`
	RateLimit   int      `env:"RATE_LIMIT" env-default:"0"`
}

func (c DbConfig) toDatabaseUrl() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

func NewDbPool(ctx context.Context, dbConfig DbConfig) (*pgxpool.Pool, error) {
	pool, err := config.NewPool(ctx, dbConfig.toDatabaseUrl(), dbConfig.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// migrate creates the schema when missing and applies the table definitions
func migrate(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	if _, err := pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schema, err)
	}
	return repopg.Migrate(ctx, pool)
}

// serverConfig maps the env struct onto the library configuration
func serverConfig(cfg Config) (*config.ServerConfig, error) {
	return config.Load(
		config.WithDatabase("postgres", cfg.DB.toDatabaseUrl()),
		config.WithDatabaseSchema(cfg.DB.Schema),
		config.WithLocales(cfg.Content.Locales...),
		config.WithMediaURL(cfg.Content.MediaURL),
		config.WithFields(cfg.Content.EnableFields),
		config.WithSearch(cfg.Content.EnableSearch),
		config.WithExcludedTypes(cfg.Content.PostExcludedTypes, cfg.Content.ArchiveExcludedTypes),
		config.WithRoutePrefix(cfg.HTTP.RoutePrefix),
		config.WithCORSOrigins(cfg.HTTP.CORSOrigins...),
		config.WithRateLimit(cfg.HTTP.RateLimit),
	)
}

func main() {
	// Load configuration
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverCfg, err := serverConfig(cfg)
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	// Initialize database connection
	ctx := context.Background()
	dbPool, err := NewDbPool(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.DB.Migrate {
		if err := migrate(ctx, dbPool, cfg.DB.Schema); err != nil {
			slog.Error("Failed to migrate database", "err", err)
			os.Exit(1)
		}
		slog.Info("Database schema applied", "schema", cfg.DB.Schema)
	}

	svc, err := serverCfg.BuildServiceWithStore(repopg.NewWithPool(dbPool))
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	handler := api.NewHandler(svc)
	server.R.Group(func(r chi.Router) {
		r.Use(api.RequestIDMiddleware)
		r.Use(api.RecoveryMiddleware)
		if len(serverCfg.CORSOrigins) > 0 {
			r.Use(api.CORSMiddleware(serverCfg.CORSOrigins))
		}
		if serverCfg.RateLimit > 0 {
			r.Use(api.RateLimitMiddleware(serverCfg.RateLimit))
		}
		r.Mount(serverCfg.RoutePrefix, handler.Routes())
	})

	// Start server
	server.Run()
}
