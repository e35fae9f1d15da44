package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // File source driver
	"github.com/jmoiron/sqlx"

	"github.com/flavor-emperor/publisher/internal/logger"
)

// RunMigrations runs all pending migrations against an open connection.
// The migrations directory is resolved relative to the binary.
func RunMigrations(db *sqlx.DB, log logger.Logger) error {
	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	migrationsPath := "migrations"
	if absPath, absErr := filepath.Abs(migrationsPath); absErr == nil {
		migrationsPath = absPath
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("No pending migrations",
				logger.String("migrations_path", migrationsPath),
			)
			return nil
		}
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Info("Migrations applied successfully",
		logger.String("migrations_path", migrationsPath),
	)

	return nil
}
