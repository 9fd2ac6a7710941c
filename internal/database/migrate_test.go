package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "fizcal_test.db"),
	}
}

func TestMigratorUpDownVersion(t *testing.T) {
	cfg := sqliteConfig(t)

	mg, err := NewMigrator(cfg)
	require.NoError(t, err)
	defer mg.Close()

	version, dirty, err := mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)
	assert.False(t, dirty)

	require.NoError(t, mg.Up())
	version, _, err = mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	// Applying again is a no-op.
	require.NoError(t, mg.Up())

	require.NoError(t, mg.Down(1))
	version, _, err = mg.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	assert.Error(t, mg.Down(0))
}

func TestRunMigrationsCreatesSchema(t *testing.T) {
	cfg := sqliteConfig(t)
	require.NoError(t, RunMigrations(cfg))

	mgr, err := NewManager(cfg)
	require.NoError(t, err)
	defer mgr.Close()

	for _, table := range []string{"users", "accounts", "transactions", "budgets", "balance_snapshots"} {
		assert.True(t, mgr.DB().Migrator().HasTable(table), "table %q should exist", table)
	}
}

func TestNewConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	_, err := NewConfig()
	assert.Error(t, err)
}

func TestConfigURL(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5432", User: "app", Password: "p@ss", DBName: "fizcal", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/fizcal?sslmode=disable", cfg.URL())
}
