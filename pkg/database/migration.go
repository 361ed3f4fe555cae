package database

import (
	"fmt"
	"os"

	"github.com/Gobusters/ectologger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
)

// MigrationLogger adapts ectologger to the migrate logger interface.
type MigrationLogger struct {
	ectologger.Logger
}

func (l MigrationLogger) Verbose() bool {
	return true
}

func (l MigrationLogger) Printf(format string, v ...any) {
	l.Infof(format, v...)
}

// MigrationConfig controls how migrations are applied at startup.
type MigrationConfig struct {
	MigrationFolderPath string
	Version             uint
	AutoRollback        bool
}

// MigrationService applies SQL migrations from the configured folder.
type MigrationService struct {
	config MigrationConfig
	logger ectologger.Logger
}

func NewMigrationService(logger ectologger.Logger, config MigrationConfig) *MigrationService {
	return &MigrationService{
		config: config,
		logger: logger,
	}
}

// Migrate brings the database to the configured version (or latest).
func (ms *MigrationService) Migrate(db *sqlx.DB, databaseName string) error {
	folder := ms.config.MigrationFolderPath
	if _, err := os.Stat(folder); err != nil {
		return fmt.Errorf("migration folder %s does not exist: %w", folder, err)
	}

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		ms.logger.WithError(err).Error("Failed to create migration driver")
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+folder, databaseName, driver)
	if err != nil {
		ms.logger.WithError(err).Error("Failed to create migrate instance")
		return err
	}

	m.Log = MigrationLogger{Logger: ms.logger}

	if ms.config.Version != 0 {
		err = m.Migrate(ms.config.Version)
	} else {
		err = m.Up()
	}

	if err == nil {
		ms.logger.Info("Successfully applied migrations")
		return nil
	}
	if err == migrate.ErrNoChange {
		ms.logger.Info("No new migrations to apply")
		return nil
	}

	ms.logger.WithError(err).Errorf("Migration failed with error: %v", err)

	if ms.config.AutoRollback {
		version, dirty, versionErr := m.Version()
		if versionErr == nil && dirty && version > 0 {
			ms.logger.Warnf("Database is dirty at version %d. Reverting to version %d", version, version-1)
			if forceErr := m.Force(int(version - 1)); forceErr != nil {
				ms.logger.WithError(forceErr).Errorf("Failed to force database to version %d", version-1)
			}
		}
	}

	return err
}
