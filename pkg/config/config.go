// Package config loads the schema-driven configuration document: the
// database connection, the table list with allowed verbs, and the
// per-endpoint capability settings.
package config

import "time"

// Config is the full configuration value. It is constructed once at
// startup and passed by reference; nothing mutates it afterward.
type Config struct {
	Server      ServerConfig     `yaml:"server"`
	DatabaseURL string           `yaml:"database_url"`
	Tables      []TableConfig    `yaml:"tables"`
	Auth        AuthConfig       `yaml:"auth"`
	Cache       CacheConfig      `yaml:"cache"`
	Pagination  PaginationConfig `yaml:"pagination"`
	Debug       bool             `yaml:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TableConfig declares one table-backed endpoint set.
type TableConfig struct {
	// Name is the table to reflect.
	Name string `yaml:"name"`

	// Verbs are the allowed operations, drawn from
	// {get, post, put, patch, delete}.
	Verbs []string `yaml:"verbs"`

	// Auth requires a valid bearer token on every verb.
	Auth bool `yaml:"auth"`

	// Filters names the columns query parameters may filter on.
	Filters []string `yaml:"filters"`

	// Pagination enables the paginator on the list path.
	Pagination *TablePagination `yaml:"pagination"`

	// Cache enables response caching.
	Cache *TableCache `yaml:"cache"`
}

// TablePagination configures the paginator for one table.
type TablePagination struct {
	Enabled bool `yaml:"enabled"`
	Limit   int  `yaml:"limit"`
}

// TableCache configures response caching for one table.
type TableCache struct {
	Enabled bool          `yaml:"enabled"`
	Verbs   []string      `yaml:"verbs"`
	TTL     time.Duration `yaml:"ttl"`
}

// AuthConfig holds the JWT settings shared by auth-enabled tables.
type AuthConfig struct {
	Secret    string `yaml:"secret"`
	Algorithm string `yaml:"algorithm"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string `yaml:"backend"`

	// TTL is the default entry lifetime.
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries bounds the memory backend. 0 = unbounded.
	MaxEntries uint64 `yaml:"max_entries"`

	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// PaginationConfig holds the global paginator defaults.
type PaginationConfig struct {
	Limit    int `yaml:"limit"`
	MaxLimit int `yaml:"max_limit"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTL:        5 * time.Minute,
			MaxEntries: 4096,
		},
		Pagination: PaginationConfig{
			Limit:    20,
			MaxLimit: 100,
		},
		Auth: AuthConfig{
			Algorithm: "HS256",
		},
	}
}
