package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/at-ishikawa/oxword/schemas"
)

const migrationsDir = "migrations"

// Direction selects whether migrations are applied or rolled back.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func setupGoose() error {
	goose.SetBaseFS(schemas.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("goose.SetDialect() > %w", err)
	}
	return nil
}

// Migrate applies every pending migration, or rolls back the latest one.
func Migrate(ctx context.Context, db *sqlx.DB, direction Direction) error {
	if err := setupGoose(); err != nil {
		return err
	}

	switch direction {
	case Up:
		if err := goose.UpContext(ctx, db.DB, migrationsDir); err != nil {
			return fmt.Errorf("goose.UpContext() > %w", err)
		}
	case Down:
		if err := goose.DownContext(ctx, db.DB, migrationsDir); err != nil {
			return fmt.Errorf("goose.DownContext() > %w", err)
		}
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	return nil
}

// MigrationVersions lists the versions of the embedded migrations in order.
func MigrationVersions() ([]int64, error) {
	if err := setupGoose(); err != nil {
		return nil, err
	}
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("goose.CollectMigrations() > %w", err)
	}
	versions := make([]int64, 0, len(migrations))
	for _, m := range migrations {
		versions = append(versions, m.Version)
	}
	return versions, nil
}
