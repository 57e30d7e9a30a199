package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a YAML configuration file. Fields not
// present retain their defaults. Loading failures are configuration
// errors: not recoverable, they abort startup.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := resolveEnvRefs(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return &cfg, nil
}

// envRef matches an environment-variable indirection such as ${DB_URL}.
var envRef = regexp.MustCompile(`^\$\{(\w+)\}$`)

// resolveEnvRefs expands ${VAR} indirections in the fields that commonly
// carry secrets. An unset variable is a configuration error, never an
// empty string.
func resolveEnvRefs(cfg *Config) error {
	fields := []*string{&cfg.DatabaseURL, &cfg.Auth.Secret, &cfg.Cache.Redis.Addr}
	for _, field := range fields {
		resolved, err := resolveEnv(*field)
		if err != nil {
			return err
		}
		*field = resolved
	}
	return nil
}

func resolveEnv(value string) (string, error) {
	m := envRef.FindStringSubmatch(value)
	if m == nil {
		return value, nil
	}
	resolved, ok := os.LookupEnv(m[1])
	if !ok || resolved == "" {
		return "", fmt.Errorf("environment variable %s not set", m[1])
	}
	return resolved, nil
}
