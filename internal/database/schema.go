package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"fyyur/internal/models"
)

// CreateSchema creates the three tables from the bun models. Postgres
// deployments use the SQL migrations instead.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().Model((*models.Venue)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create venues table: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*models.Artist)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create artists table: %w", err)
	}

	_, err := db.NewCreateTable().
		Model((*models.Show)(nil)).
		IfNotExists().
		ForeignKey(`("venue_id") REFERENCES "venues" ("id")`).
		ForeignKey(`("artist_id") REFERENCES "artists" ("id")`).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create shows table: %w", err)
	}

	for _, column := range []string{"venue_id", "artist_id"} {
		_, err := db.NewCreateIndex().
			Model((*models.Show)(nil)).
			Index("shows_" + column + "_idx").
			Column(column).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create index on shows.%s: %w", column, err)
		}
	}
	return nil
}

// DropSchema drops the tables in reverse dependency order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	tables := []interface{}{(*models.Show)(nil), (*models.Artist)(nil), (*models.Venue)(nil)}
	for _, m := range tables {
		if _, err := db.NewDropTable().Model(m).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", m, err)
		}
	}
	return nil
}
