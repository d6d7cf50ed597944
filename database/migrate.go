package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationStatus describes the schema version of a database
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool // false when no migration has run yet
}

// MigrateUp applies all pending migrations
func MigrateUp(databaseURL string) error {
	m, err := newMigrate(databaseURL)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No new migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, _ := m.Version()
	log.WithField("version", version).Info("Migrations applied")
	return nil
}

// MigrateDown rolls back the given number of migrations
func MigrateDown(databaseURL string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	m, err := newMigrate(databaseURL)
	if err != nil {
		return err
	}
	defer closeMigrate(m)

	err = m.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	version, _, verr := m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		log.Info("Rolled back all migrations")
		return nil
	}
	log.WithField("version", version).Info("Migrations rolled back")
	return nil
}

// GetMigrationStatus reports the current schema version
func GetMigrationStatus(databaseURL string) (*MigrationStatus, error) {
	m, err := newMigrate(databaseURL)
	if err != nil {
		return nil, err
	}
	defer closeMigrate(m)

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return &MigrationStatus{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationStatus{Version: version, Dirty: dirty, Applied: true}, nil
}

func newMigrate(databaseURL string) (*migrate.Migrate, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*config.ConnConfig)

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		log.WithFields(log.Fields{
			"sourceError":   srcErr,
			"databaseError": dbErr,
		}).Warn("Failed to close migration resources")
	}
}
