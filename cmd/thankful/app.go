package main

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unowned-ai/thankful/pkg/config"
	pkgdb "github.com/unowned-ai/thankful/pkg/db"
	"github.com/unowned-ai/thankful/pkg/examples"
	"github.com/unowned-ai/thankful/pkg/logging"
	"github.com/unowned-ai/thankful/pkg/photos"
	"github.com/unowned-ai/thankful/pkg/reminders"
	"github.com/unowned-ai/thankful/pkg/thanks"
)

// app holds everything a command needs, built once from config and flags.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	dbPath string

	store     *thanks.Store
	editor    *thanks.Editor
	notifier  *reminders.SQLiteNotifier
	scheduler *reminders.Scheduler
}

// loadConfig reads config and applies the persistent flags on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	config.LoadDotEnv()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		derivedPhotos := cfg.Photos.Dir == config.PhotoDirFor(cfg.DB.Path)
		cfg.DB.Path = dbPath
		if derivedPhotos {
			cfg.Photos.Dir = config.PhotoDirFor(dbPath)
		}
	}
	if flags.Changed("wal") {
		cfg.DB.WAL = walMode
	}
	if flags.Changed("sync") {
		cfg.DB.Sync = strings.ToUpper(syncMode)
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	path, err := config.ResolveAndEnsureDBPath(cfg.DB.Path)
	if err != nil {
		return nil, err
	}

	conn, err := pkgdb.OpenDBConnection(path, cfg.DB.WAL, cfg.DB.Sync)
	if err != nil {
		return nil, err
	}
	if err := pkgdb.UpgradeDB(conn, logger, path, pkgdb.TargetSchemaVersion); err != nil {
		conn.Close()
		return nil, err
	}

	photoStore, err := photos.New(cmd.Context(), photos.Config{
		Backend:     cfg.Photos.Backend,
		Dir:         cfg.Photos.Dir,
		S3Endpoint:  cfg.Photos.S3Endpoint,
		S3Region:    cfg.Photos.S3Region,
		S3Bucket:    cfg.Photos.S3Bucket,
		S3Prefix:    cfg.Photos.S3Prefix,
		S3AccessKey: cfg.Photos.S3AccessKey,
		S3SecretKey: cfg.Photos.S3SecretKey,
	})
	if err != nil {
		conn.Close()
		return nil, err
	}

	store := thanks.NewStore(conn, photoStore, logger)
	notifier := reminders.NewSQLiteNotifier(conn, cfg.Reminders.AutoGrant, logger)

	logger.Debug("thankful ready",
		zap.String("db", path),
		zap.Bool("wal", cfg.DB.WAL),
		zap.String("sync", cfg.DB.Sync),
		zap.String("photos", cfg.Photos.Backend))

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        conn,
		dbPath:    path,
		store:     store,
		editor:    thanks.NewEditor(store, logger),
		notifier:  notifier,
		scheduler: reminders.NewScheduler(notifier, reminders.Content{Title: cfg.Reminders.Title, Body: cfg.Reminders.Body}, logger),
	}, nil
}

// loadCatalog loads the examples catalog named in cfg, or the built-in one.
func loadCatalog(cfg *config.Config) (*examples.Catalog, error) {
	path := cfg.Examples.Path
	if path != "" {
		expanded, err := config.ExpandHome(path)
		if err != nil {
			return nil, err
		}
		path = expanded
	}
	c, err := examples.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load examples: %w", err)
	}
	return c, nil
}

func (a *app) Close() error {
	defer a.logger.Sync() //nolint:errcheck
	return pkgdb.CloseDB(a.db, a.logger)
}
