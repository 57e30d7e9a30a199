package config

import (
	"fmt"
	"strings"
)

var allowedVerbs = map[string]bool{
	"get":    true,
	"post":   true,
	"put":    true,
	"patch":  true,
	"delete": true,
}

// Validate checks the configuration for startup-fatal problems.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required")
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	seen := map[string]bool{}
	for i, table := range c.Tables {
		if table.Name == "" {
			return fmt.Errorf("tables[%d]: name is required", i)
		}
		if seen[table.Name] {
			return fmt.Errorf("table %q configured twice", table.Name)
		}
		seen[table.Name] = true

		if len(table.Verbs) == 0 {
			return fmt.Errorf("table %q: at least one verb is required", table.Name)
		}
		for _, verb := range table.Verbs {
			if !allowedVerbs[strings.ToLower(verb)] {
				return fmt.Errorf("table %q: unknown verb %q", table.Name, verb)
			}
		}

		if table.Auth && c.Auth.Secret == "" {
			return fmt.Errorf("table %q requires auth but auth.secret is empty", table.Name)
		}
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("cache.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.Pagination.Limit < 1 || c.Pagination.MaxLimit < c.Pagination.Limit {
		return fmt.Errorf("pagination limits must satisfy 1 <= limit <= max_limit")
	}
	return nil
}
