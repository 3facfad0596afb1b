// Command fyyur-migrate manages the Fyyur schema and sample data outside the
// web process.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"fyyur/internal/config"
	"fyyur/internal/database"
	"fyyur/internal/database/migrations"
	"fyyur/internal/logger"
)

type app struct {
	cfg *config.Config
	log *logger.Logger
	now func() time.Time
}

func newRootCmd(cfg *config.Config, log *logger.Logger) *cobra.Command {
	a := &app{cfg: cfg, log: log, now: time.Now}

	root := &cobra.Command{
		Use:   "fyyur-migrate",
		Short: "Manage the Fyyur database schema",
		Long: `Apply or roll back the Fyyur schema and load sample data.

On Postgres the embedded SQL migrations are used. On SQLite the schema is
created from the models, so only up, down, seed and reset apply.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return a.up(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration, dropping all tables",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return a.down(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "to VERSION",
			Short: "Migrate up or down to a specific version (Postgres only)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return a.to(uint(version))
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied migration version (Postgres only)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.version(cmd)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Insert the sample venues, artists and shows into an empty database",
			Args:  cobra.NoArgs,
			RunE:  func(cmd *cobra.Command, _ []string) error { return a.seed(cmd.Context()) },
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Drop everything, migrate up and seed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := a.down(cmd.Context()); err != nil {
					return err
				}
				if err := a.up(cmd.Context()); err != nil {
					return err
				}
				return a.seed(cmd.Context())
			},
		},
	)
	return root
}

func (a *app) postgres() bool {
	return a.cfg.Database.Driver == config.DriverPostgres
}

func (a *app) runner() *migrations.Runner {
	return migrations.NewRunner(a.cfg.Database.PostgresDSN, a.log)
}

func (a *app) withDB(ctx context.Context, fn func(db *bun.DB) error) error {
	db, err := database.Open(ctx, a.cfg.Database, a.log)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func (a *app) up(ctx context.Context) error {
	if a.postgres() {
		r := a.runner()
		defer r.Close()
		return r.MigrateUp()
	}
	return a.withDB(ctx, func(db *bun.DB) error {
		a.log.Info("MIGRATE", "Creating SQLite schema")
		return database.CreateSchema(ctx, db)
	})
}

func (a *app) down(ctx context.Context) error {
	if a.postgres() {
		r := a.runner()
		defer r.Close()
		return r.MigrateDown()
	}
	return a.withDB(ctx, func(db *bun.DB) error {
		a.log.Info("MIGRATE", "Dropping SQLite schema")
		return database.DropSchema(ctx, db)
	})
}

func (a *app) to(version uint) error {
	if !a.postgres() {
		return fmt.Errorf("versioned migrations need DB_DRIVER=%s", config.DriverPostgres)
	}
	r := a.runner()
	defer r.Close()
	return r.MigrateTo(version)
}

func (a *app) version(cmd *cobra.Command) error {
	if !a.postgres() {
		return fmt.Errorf("versioned migrations need DB_DRIVER=%s", config.DriverPostgres)
	}
	r := a.runner()
	defer r.Close()

	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	if dirty {
		cmd.Printf("%d (dirty)\n", version)
		return nil
	}
	cmd.Println(version)
	return nil
}

func (a *app) seed(ctx context.Context) error {
	return a.withDB(ctx, func(db *bun.DB) error {
		seeded, err := database.Seed(ctx, db, a.now())
		if err != nil {
			return err
		}
		if seeded {
			a.log.Info("MIGRATE", "Sample data inserted")
		} else {
			a.log.Info("MIGRATE", "Venues already present, skipping seed")
		}
		return nil
	})
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log.Dir)
	defer log.Close()

	if err := newRootCmd(cfg, log).ExecuteContext(context.Background()); err != nil {
		log.Error("MIGRATE", err.Error())
		log.Close()
		os.Exit(1)
	}
}
