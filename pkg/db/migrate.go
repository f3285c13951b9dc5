package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// TargetSchemaVersion is the highest thanksdb schema version this build understands.
	TargetSchemaVersion int64 = 1
	// ThanksDBComponent names the main component in thankful_versions.
	ThanksDBComponent = "thanksdb"
)

// GetComponentSchemaVersion returns the recorded schema version for a component.
// A missing row or a missing thankful_versions table both read as version 0.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM thankful_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema creates every thanksdb table and records schemaVersionToSet.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.Exec(SchemaV1); err != nil {
		return fmt.Errorf("failed to execute schema v1 SQL: %w", err)
	}

	insertVersionSQL := `
INSERT INTO thankful_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

	if _, err := db.Exec(insertVersionSQL, ThanksDBComponent, schemaVersionToSet); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", ThanksDBComponent, schemaVersionToSet, err)
	}
	return nil
}

// UpgradeDB brings the thanksdb component up to appTargetSchemaVersion.
// dbIdentifier is only used in log lines and error messages.
func UpgradeDB(db *sql.DB, logger *zap.Logger, dbIdentifier string, appTargetSchemaVersion int64) error {
	log := logger.With(zap.String("component", ThanksDBComponent), zap.String("db", dbIdentifier))

	currentDBVersion, err := GetComponentSchemaVersion(db, ThanksDBComponent)
	if err != nil {
		return err
	}

	switch {
	case currentDBVersion == 0:
		log.Info("initializing schema", zap.Int64("version", appTargetSchemaVersion))
		if err := InitializeSchema(db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", ThanksDBComponent, dbIdentifier, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		log.Debug("schema up to date", zap.Int64("version", currentDBVersion))
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is older than application's target schema version %d. Automatic migration from this older version is not yet supported", ThanksDBComponent, dbIdentifier, currentDBVersion, appTargetSchemaVersion)
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", ThanksDBComponent, dbIdentifier, currentDBVersion, appTargetSchemaVersion)
	}
}
