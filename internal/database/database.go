package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"fyyur/internal/config"
	"fyyur/internal/database/migrations"
	"fyyur/internal/logger"
)

var retryDelay = 2 * time.Second

// Open connects to the configured store and pings it, retrying a few times
// so the app can start alongside its database container.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	var sqldb *sql.DB
	for i := 0; i < retries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to %s (attempt %d/%d)", cfg.Driver, i+1, retries))
		sqldb, err = sql.Open(driverName, dsn)
		if err == nil {
			err = sqldb.PingContext(ctx)
			if err == nil {
				break
			}
			sqldb.Close()
		}

		log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Driver, err))
		if i < retries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", cfg.Driver, retries, err)
	}

	var db *bun.DB
	if cfg.Driver == config.DriverPostgres {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		db, err = NewSQLite(ctx, sqldb)
		if err != nil {
			sqldb.Close()
			return nil, err
		}
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Driver))
	return db, nil
}

// NewSQLite wraps an SQLite handle. SQLite only enforces foreign keys per
// connection, so the pool is pinned to one long-lived connection.
func NewSQLite(ctx context.Context, sqldb *sql.DB) (*bun.DB, error) {
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return db, nil
}

func dataSource(cfg config.DatabaseConfig) (driverName, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqliteshim.ShimName, cfg.SQLitePath, nil
	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return "", "", fmt.Errorf("POSTGRES_DSN not set")
		}
		return "postgres", cfg.PostgresDSN, nil
	default:
		return "", "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// Migrate brings the schema up to date: embedded SQL migrations on Postgres,
// bun CREATE TABLE statements on SQLite.
func Migrate(ctx context.Context, db *bun.DB, cfg config.DatabaseConfig, log *logger.Logger) error {
	if cfg.Driver != config.DriverPostgres {
		if err := CreateSchema(ctx, db); err != nil {
			return err
		}
		log.LogDatabase("CREATE", "venues, artists, shows", "SQLite schema ready")
		return nil
	}

	runner := migrations.NewRunner(cfg.PostgresDSN, log)
	defer runner.Close()
	return runner.MigrateUp()
}
