package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/db"
	httpx "github.com/geocoder89/taskhub/internal/http"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/geocoder89/taskhub/internal/repo/sqlite"
	"github.com/geocoder89/taskhub/internal/service"
)

// stores bundles the repositories picked by DB_DRIVER.
type stores struct {
	users httpx.UserStore
	tasks service.TaskStore
	ping  handlers.Pinger
	close func()
}

func openStores(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (stores, error) {
	switch cfg.DB.Driver {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DBURL(), db.PoolOptions{
			MaxConns:       cfg.DB.MaxConns,
			ConnectTimeout: cfg.DB.ConnectTimeout,
		})
		if err != nil {
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}

		if cfg.DB.AutoMigrate {
			applied, err := db.Migrate(ctx, pool, db.MigrationSource(cfg.DB.Migrations))
			if err != nil {
				pool.Close()
				return stores{}, fmt.Errorf("migrate: %w", err)
			}
			log.Info("migrations applied", "files", applied)
		}

		opts := postgres.Options{Prom: prom, Log: log, LogQueries: cfg.DB.Logging}

		return stores{
			users: postgres.NewUsersRepo(pool, opts),
			tasks: postgres.NewTasksRepo(pool, opts),
			ping:  pool.Ping,
			close: pool.Close,
		}, nil

	case "sqlite":
		s, err := sqlite.Open(cfg.DB.SQLitePath)
		if err != nil {
			return stores{}, err
		}

		return stores{
			users: s.Users(),
			tasks: s.Tasks(),
			ping:  s.Ping,
			close: func() { _ = s.Close() },
		}, nil

	default:
		log.Warn("using in-memory store; data is lost on restart")
		s := memory.NewStore()

		return stores{
			users: s.Users(),
			tasks: s.Tasks(),
			close: func() {},
		}, nil
	}
}
