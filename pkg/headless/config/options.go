package config

import (
	"fmt"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithLocales enables locale support with the given codes
func WithLocales(codes ...string) Option {
	return func(c *ServerConfig) error {
		c.Locales = append([]string(nil), codes...)
		return nil
	}
}

// WithFields toggles custom fields and options pages
func WithFields(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableFields = enabled
		return nil
	}
}

// WithSearch toggles full-text search on archives
func WithSearch(enabled bool) Option {
	return func(c *ServerConfig) error {
		c.EnableSearch = enabled
		return nil
	}
}

// WithMediaURL sets where attachment URLs point to
func WithMediaURL(mediaURL string) Option {
	return func(c *ServerConfig) error {
		c.MediaURL = mediaURL
		return nil
	}
}

// WithExcludedTypes excludes post types from the /post and /archive routes
func WithExcludedTypes(post, archive []string) Option {
	return func(c *ServerConfig) error {
		c.PostExcludedTypes = append([]string(nil), post...)
		c.ArchiveExcludedTypes = append([]string(nil), archive...)
		return nil
	}
}

// WithRoutePrefix sets where the API routes are mounted
func WithRoutePrefix(prefix string) Option {
	return func(c *ServerConfig) error {
		if prefix == "" {
			return fmt.Errorf("route prefix cannot be empty")
		}
		c.RoutePrefix = prefix
		return nil
	}
}

// WithCORSOrigins sets the allowed CORS origins
func WithCORSOrigins(origins ...string) Option {
	return func(c *ServerConfig) error {
		c.CORSOrigins = append([]string(nil), origins...)
		return nil
	}
}

// WithRateLimit sets the per-IP request limit per minute; 0 disables it
func WithRateLimit(requestsPerMinute int) Option {
	return func(c *ServerConfig) error {
		if requestsPerMinute < 0 {
			return fmt.Errorf("rate limit cannot be negative, got: %d", requestsPerMinute)
		}
		c.RateLimit = requestsPerMinute
		return nil
	}
}
