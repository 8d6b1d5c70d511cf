package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-headless/pkg/headless"
	"github.com/tendant/simple-headless/pkg/headless/media/s3"
	"github.com/tendant/simple-headless/pkg/headless/media/static"
	"github.com/tendant/simple-headless/pkg/headless/repo/memory"
	repopg "github.com/tendant/simple-headless/pkg/headless/repo/postgres"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		DBSchema:     "headless",
		RoutePrefix:  "/",
		EnableFields: true,
		EnableSearch: true,
	}
}

// ServerConfig represents server configuration for the headless API
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema to use (default: headless)

	// Optional collaborators
	EnableFields bool     // Serve custom fields and options pages
	EnableSearch bool     // Allow the s parameter on /archive
	Locales      []string // Enables locale support; seeds the memory store's locale list
	MediaURL     string   // "", "https://cdn/uploads" or "s3://bucket?region=..."

	// Filters
	PostExcludedTypes    []string
	ArchiveExcludedTypes []string

	// HTTP options
	RoutePrefix string
	CORSOrigins []string
	RateLimit   int // Requests per minute per client IP, 0 disables
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	if !strings.HasPrefix(c.RoutePrefix, "/") {
		return fmt.Errorf("route prefix must start with '/', got: %s", c.RoutePrefix)
	}

	if c.RateLimit < 0 {
		return errors.New("rate_limit cannot be negative")
	}

	if c.MediaURL != "" {
		u, err := url.Parse(c.MediaURL)
		if err != nil {
			return fmt.Errorf("invalid media URL: %w", err)
		}
		switch u.Scheme {
		case "http", "https", "s3":
		default:
			return fmt.Errorf("unsupported media URL scheme: %s (use 'https://...' or 's3://...')", u.Scheme)
		}
	}

	return nil
}

// Store is the combined capability set of the bundled repositories
type Store interface {
	headless.Repository
	headless.FieldStore
	headless.LocaleService
	headless.SearchProvider
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (headless.Service, error) {
	store, err := c.BuildStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	return c.BuildServiceWithStore(store)
}

// BuildServiceWithStore creates a Service on top of an existing store
func (c *ServerConfig) BuildServiceWithStore(store Store) (headless.Service, error) {
	options := []headless.Option{
		headless.WithRepository(store),
		headless.WithFilters(c.buildFilters()),
	}

	if c.EnableFields {
		options = append(options, headless.WithFieldStore(store))
	}
	if c.EnableSearch {
		options = append(options, headless.WithSearchProvider(store))
	}
	if len(c.Locales) > 0 {
		options = append(options, headless.WithLocaleService(store))
	}

	if c.MediaURL != "" {
		media, err := c.buildMediaResolver()
		if err != nil {
			return nil, fmt.Errorf("failed to build media resolver: %w", err)
		}
		options = append(options, headless.WithMediaResolver(media))
	}

	return headless.New(options...)
}

func (c *ServerConfig) buildFilters() *headless.Filters {
	filters := headless.NewFilters()
	if len(c.PostExcludedTypes) > 0 {
		filters.Add(headless.FilterPostExcludedPostTypes, headless.ExcludeTypes(c.PostExcludedTypes...))
	}
	if len(c.ArchiveExcludedTypes) > 0 {
		filters.Add(headless.FilterArchiveExcludedPostTypes, headless.ExcludeTypes(c.ArchiveExcludedTypes...))
	}
	return filters
}

// BuildStore creates the content store based on the configuration
func (c *ServerConfig) BuildStore() (Store, error) {
	switch c.DatabaseType {
	case "memory":
		repo := memory.New()
		repo.SetLocales(c.Locales...)
		return repo, nil
	case "postgres":
		pool, err := NewPool(context.Background(), c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, err
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// NewPool creates a pgx pool whose sessions use schema as search_path
func NewPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		if schema == "" {
			return nil
		}
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", pgx.Identifier{schema}.Sanitize()))
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres and that the schema is usable
func PingPostgres(databaseURL, schema string) error {
	pool, err := NewPool(context.Background(), databaseURL, schema)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// buildMediaResolver creates a resolver from MediaURL
func (c *ServerConfig) buildMediaResolver() (headless.MediaResolver, error) {
	u, err := url.Parse(c.MediaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid media URL: %w", err)
	}

	if u.Scheme != "s3" {
		return static.New(c.MediaURL)
	}

	q := u.Query()
	if u.Host == "" {
		return nil, errors.New("S3 bucket name cannot be empty in MEDIA_URL")
	}
	presign := 0
	if v := q.Get("presign"); v != "" {
		if presign, err = strconv.Atoi(v); err != nil {
			return nil, fmt.Errorf("invalid presign duration %q: %w", v, err)
		}
	}
	pathStyle, _ := strconv.ParseBool(q.Get("path_style"))

	return s3.New(s3.Config{
		Bucket:          u.Host,
		KeyPrefix:       strings.TrimPrefix(u.Path, "/"),
		Region:          firstNonEmpty(q.Get("region"), awsEnv("AWS_REGION")),
		Endpoint:        q.Get("endpoint"),
		UsePathStyle:    pathStyle,
		PresignDuration: presign,
		PublicBaseURL:   q.Get("public_url"),
		AccessKeyID:     awsEnv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: awsEnv("AWS_SECRET_ACCESS_KEY"),
	})
}
