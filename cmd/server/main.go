// Command server runs the tabular REST gateway: it reflects the
// configured tables from Postgres and serves schema-driven CRUD
// endpoints for them.
//
// Usage:
//
//	server -config config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veldt-io/tabular/pkg/auth"
	"github.com/veldt-io/tabular/pkg/auth/jwt"
	"github.com/veldt-io/tabular/pkg/cache"
	cachememory "github.com/veldt-io/tabular/pkg/cache/memory"
	cacheredis "github.com/veldt-io/tabular/pkg/cache/redis"
	"github.com/veldt-io/tabular/pkg/config"
	"github.com/veldt-io/tabular/pkg/crud"
	"github.com/veldt-io/tabular/pkg/endpoint"
	"github.com/veldt-io/tabular/pkg/query"
	"github.com/veldt-io/tabular/pkg/schema"
	transporthttp "github.com/veldt-io/tabular/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("opening database pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}

	backend, closeCache, err := buildCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	var authenticator auth.Authenticator
	if cfg.Auth.Secret != "" {
		authenticator = jwt.New(jwt.Config{
			Secret:    cfg.Auth.Secret,
			Algorithm: cfg.Auth.Algorithm,
		})
	}

	dispatcher := &endpoint.Dispatcher{
		Sessions:    endpoint.PoolSessions{Pool: pool},
		Middlewares: []endpoint.Middleware{endpoint.NewCORS()},
		Logger:      logger,
		Debug:       cfg.Debug,
	}
	router := transporthttp.NewRouter(dispatcher)

	for _, table := range cfg.Tables {
		entity, err := schema.Reflect(ctx, pool, table.Name)
		if err != nil {
			return err
		}
		epCfg, err := endpointConfig(cfg, table, entity, authenticator, backend)
		if err != nil {
			return err
		}
		if err := router.RegisterEntity(crud.New(entity), epCfg); err != nil {
			return err
		}
		logger.Info("table registered",
			"table", table.Name,
			"verbs", strings.Join(epCfg.Verbs, ","),
			"columns", len(entity.Columns),
		)
	}

	mux := router.Mux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := transporthttp.NewServer(mux,
		transporthttp.WithAddr(cfg.Server.Addr),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
		transporthttp.WithLogger(logger),
	)
	return server.Run(ctx)
}

// endpointConfig assembles the capability bundle for one table from its
// configuration and reflected entity type.
func endpointConfig(cfg *config.Config, table config.TableConfig, entity *schema.EntityType, authenticator auth.Authenticator, backend cache.Cache) (*endpoint.Config, error) {
	epCfg := &endpoint.Config{}
	for _, verb := range table.Verbs {
		epCfg.Verbs = append(epCfg.Verbs, strings.ToLower(verb))
	}

	if table.Auth {
		if authenticator == nil {
			return nil, fmt.Errorf("table %q requires auth but no auth secret is configured", table.Name)
		}
		epCfg.Auth = authenticator
	}

	if len(table.Filters) > 0 {
		coercers := make(map[string]query.Coercer)
		for name, fn := range entity.FilterColumns(table.Filters) {
			coercers[name] = fn
		}
		epCfg.Filter = query.NewParamFilter(coercers)
	}

	if table.Pagination != nil && table.Pagination.Enabled {
		limit := table.Pagination.Limit
		if limit <= 0 {
			limit = cfg.Pagination.Limit
		}
		sortable := make(map[string]bool, len(entity.Columns))
		for _, name := range entity.ColumnNames() {
			sortable[name] = true
		}
		epCfg.Paginator = &query.Paginator{
			DefaultLimit: limit,
			MaxLimit:     cfg.Pagination.MaxLimit,
			SortColumns:  sortable,
		}
	}

	if table.Cache != nil && table.Cache.Enabled {
		epCfg.Cache = backend
		epCfg.CacheVerbs = table.Cache.Verbs
		if len(epCfg.CacheVerbs) == 0 {
			epCfg.CacheVerbs = []string{"get"}
		}
		epCfg.CacheTTL = table.Cache.TTL
		if epCfg.CacheTTL == 0 {
			epCfg.CacheTTL = cfg.Cache.TTL
		}
	}
	return epCfg, nil
}

// buildCache constructs the configured cache backend and returns it with
// its shutdown function.
func buildCache(cfg *config.Config) (cache.Cache, func(), error) {
	switch cfg.Cache.Backend {
	case "redis":
		c := cacheredis.New(cacheredis.Config{
			Addr:       cfg.Cache.Redis.Addr,
			DB:         cfg.Cache.Redis.DB,
			DefaultTTL: cfg.Cache.TTL,
		})
		return c, func() { c.Close() }, nil
	default:
		c := cachememory.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
		return c, c.Stop, nil
	}
}
