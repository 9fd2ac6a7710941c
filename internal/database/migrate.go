package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"fizcal/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator applies the embedded SQL migrations. It owns a connection separate
// from the GORM pool so closing it never affects the application.
type Migrator struct {
	m *migrate.Migrate
}

// NewMigrator opens a migration connection for the configured driver.
func NewMigrator(config *Config) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create iofs source: %w", err)
	}

	var (
		driver database.Driver
		name   string
	)
	switch config.Driver {
	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", config.Path+"?_foreign_keys=on")
		if err != nil {
			return nil, fmt.Errorf("open migration database: %w", err)
		}
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create sqlite driver: %w", err)
		}
		name = "sqlite3"
	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", config.URL())
		if err != nil {
			return nil, fmt.Errorf("open migration database: %w", err)
		}
		driver, err = postgres.WithInstance(sqlDB, &postgres.Config{})
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create postgres driver: %w", err)
		}
		name = "postgres"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", config.Driver)
	}

	m, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations.
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid step count: %d", steps)
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Version reports the current schema version. A database with no applied
// migrations reports version 0.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the migration connection.
func (mg *Migrator) Close() {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		logger.Get().Warnf("migrate source close error: %v", srcErr)
	}
	if dbErr != nil {
		logger.Get().Warnf("migrate database close error: %v", dbErr)
	}
}

// RunMigrations applies pending SQL migrations for the configured database.
func RunMigrations(config *Config) error {
	logger.Get().Info("Running database migrations...")

	mg, err := NewMigrator(config)
	if err != nil {
		return err
	}
	defer mg.Close()

	if err := mg.Up(); err != nil {
		return err
	}

	logger.Get().Info("Database migrations completed successfully")
	return nil
}
