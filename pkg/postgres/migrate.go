package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
)

// RunMigrations applies pending migrations from sourceURL (e.g. "file://migrations").
// It is a no-op when the schema is already current.
func RunMigrations(dsn, sourceURL string) error {
	return migrateWith(dsn, sourceURL, func(m *migrate.Migrate) error { return m.Up() })
}

// RunMigrationsDown rolls every migration back.
func RunMigrationsDown(dsn, sourceURL string) error {
	return migrateWith(dsn, sourceURL, func(m *migrate.Migrate) error { return m.Down() })
}

func migrateWith(dsn, sourceURL string, step func(*migrate.Migrate) error) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("postgres: create migrator: %w", err)
	}
	defer m.Close()

	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: migrate %s: %w", sourceURL, err)
	}
	return nil
}
