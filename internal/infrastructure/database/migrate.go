package database

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq" // database/sql driver "postgres"

	"bookstore-reporting/db"
	"bookstore-reporting/pkg/logger"
)

// Migrator chạy các migration embed trong package db
type Migrator struct {
	sqlDB *sql.DB
	m     *migrate.Migrate
}

// NewMigrator opens a database/sql connection (lib/pq) and prepares migrate.
func NewMigrator(cfg *DBConfig) (*Migrator, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open migration database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping migration database: %w", err)
	}

	m, err := newMigrate(sqlDB, db.Migrations, db.MigrationsDir)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	return &Migrator{sqlDB: sqlDB, m: m}, nil
}

func newMigrate(sqlDB *sql.DB, files fs.FS, dir string) (*migrate.Migrate, error) {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{
		MigrationsTable: "reporting_schema_migrations",
	})
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Up applies all pending migrations. No pending change is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	mg.logVersion("up")
	return nil
}

// Down rolls back steps migrations.
func (mg *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	mg.logVersion("down")
	return nil
}

// Version returns the current version and dirty flag (0 when none applied).
func (mg *Migrator) Version() (uint, bool, error) {
	v, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Close giải phóng source và connection
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

func (mg *Migrator) logVersion(direction string) {
	v, dirty, err := mg.Version()
	if err != nil {
		logger.Error("[MIGRATE] read version failed", err)
		return
	}
	logger.Info("[MIGRATE] done", map[string]interface{}{
		"direction": direction,
		"version":   v,
		"dirty":     dirty,
	})
}
