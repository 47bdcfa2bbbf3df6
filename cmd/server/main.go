package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/employee-api/internal/adapters/http/handler"
	"github.com/ogurasousui/employee-api/internal/adapters/http/router"
	pgrepo "github.com/ogurasousui/employee-api/internal/adapters/repository/postgres"
	sqliterepo "github.com/ogurasousui/employee-api/internal/adapters/repository/sqlite"
	"github.com/ogurasousui/employee-api/internal/core/employee"
	"github.com/ogurasousui/employee-api/internal/platform/config"
	pg "github.com/ogurasousui/employee-api/internal/platform/db/postgres"
	sqlitedb "github.com/ogurasousui/employee-api/internal/platform/db/sqlite"
	"github.com/ogurasousui/employee-api/internal/platform/logger"
	"github.com/ogurasousui/employee-api/internal/platform/metrics"
	"github.com/ogurasousui/employee-api/internal/platform/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

// storage は選択されたドライバのリポジトリ一式です。
type storage struct {
	repo  employee.Repository
	tx    employee.TransactionManager
	ping  handler.DBPinger
	close func()
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	store, err := openStorage(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer store.close()

	svc := employee.NewService(store.repo, store.tx, log)

	e := router.New(router.Deps{
		Logger:   log,
		Service:  svc,
		DB:       store.ping,
		Metrics:  m,
		Gatherer: reg,
	})

	log.Info().
		Str("env", cfg.Env).
		Str("storage", cfg.Storage.Driver).
		Msg("starting employee api")

	return server.New(cfg.Server, e, log).Run(ctx)
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqlitedb.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		if err := sqlitedb.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}

		return &storage{
			repo:  sqliterepo.NewEmployeeRepository(db, m),
			tx:    sqlitedb.NewTransactionManager(db, log),
			ping:  handler.PingFunc(db.PingContext),
			close: func() { _ = db.Close() },
		}, nil

	default:
		var tracer pgx.QueryTracer
		if cfg.Env == config.EnvLocal {
			tracer = logger.NewPgxTracer(log)
		}

		pool, err := pg.NewPool(ctx, cfg.Database, tracer)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}

		return &storage{
			repo:  pgrepo.NewEmployeeRepository(pool, m),
			tx:    pg.NewTransactionManager(pool, pg.WithLogger(log)),
			ping:  pool,
			close: pool.Close,
		}, nil
	}
}
