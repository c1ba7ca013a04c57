package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var migrationSources = map[string]string{
	"postgres": "file://migrations/postgresql",
	"mysql":    "file://migrations/mysql",
}

// RunMigrations applies pending migrations for dbDriver and logs the resulting
// schema version. It refuses to continue from a dirty schema.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string) error {
	source, ok := migrationSources[dbDriver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", dbDriver)
	}

	m, err := migrate.New(source, dbConnectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema already up to date", slog.String("driver", dbDriver))
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}

	logger.Info("migrations applied",
		slog.String("driver", dbDriver),
		slog.Uint64("version", uint64(version)),
	)
	return nil
}
