package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	web "peminatan/internal/adapters/http"
	"peminatan/internal/adapters/storage"
	accountStore "peminatan/internal/adapters/storage/account"
	enrollmentStore "peminatan/internal/adapters/storage/enrollment"
	recommendationStore "peminatan/internal/adapters/storage/recommendation"
	reportScoreStore "peminatan/internal/adapters/storage/reportscore"
	riasecStore "peminatan/internal/adapters/storage/riasec"
	rosterStore "peminatan/internal/adapters/storage/roster"
	studentStore "peminatan/internal/adapters/storage/student"
	"peminatan/internal/application/orchestrators"
	"peminatan/internal/config"
)

// slowQueryThreshold is the WARN threshold for the query log.
const slowQueryThreshold = 100 * time.Millisecond

// app is everything a command needs: config, database and stores.
type app struct {
	cfg    *config.Config
	db     *sql.DB
	stores *web.Stores
}

// newLogger builds the process logger from the logging section.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// openApp loads config, installs the logger, opens and migrates the database and builds
// the stores on a timed connection.
// POST: caller must call close
func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	db, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := storage.MigrateDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	slog.Info("database_ready", "path", cfg.Database.Path, "schema", storage.LatestSchemaVersion())

	timed := storage.NewTimedDB(db, slowQueryThreshold)
	return &app{
		cfg: cfg,
		db:  db,
		stores: &web.Stores{
			AccountStore:        accountStore.NewSQLiteStore(timed),
			StudentStore:        studentStore.NewSQLiteStore(timed),
			ResultStore:         riasecStore.NewSQLiteStore(timed),
			RecommendationStore: recommendationStore.NewSQLiteStore(timed),
			ReportScoreStore:    reportScoreStore.NewSQLiteStore(timed),
			RosterStore:         rosterStore.NewSQLiteStore(timed),
			EnrollmentStore:     enrollmentStore.NewSQLiteStore(timed),
		},
	}, nil
}

func (a *app) close() {
	a.db.Close()
}

// seedAdmin creates the configured admin account when there is none.
func (a *app) seedAdmin(ctx context.Context) error {
	deps := orchestrators.SeedAdminDeps{AccountStore: a.stores.AccountStore}
	created, err := orchestrators.ExecuteSeedAdmin(ctx, deps, a.cfg.Admin.Username, a.cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if created && a.cfg.Admin.Password == config.Defaults().Admin.Password {
		slog.Warn("admin_seeded_with_default_password", "username", a.cfg.Admin.Username)
	}
	return nil
}

// seedDemo loads demo teachers and students; development only.
func (a *app) seedDemo(ctx context.Context) error {
	deps := orchestrators.SeedDemoDeps{
		AccountStore:    a.stores.AccountStore,
		Enrollment:      a.stores.EnrollmentStore,
		Results:         a.stores.ResultStore,
		Recommendations: a.stores.RecommendationStore,
		ReportScores:    a.stores.ReportScoreStore,
	}
	if err := orchestrators.ExecuteSeedDemo(ctx, deps); err != nil {
		return fmt.Errorf("failed to seed demo data: %w", err)
	}
	return nil
}
