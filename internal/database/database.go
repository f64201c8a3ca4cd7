package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

type Options struct {
	LogLevel logger.LogLevel
}

func Connect(dsn string) (*gorm.DB, error) {
	return Open(dsn, Options{LogLevel: logger.Warn})
}

func Open(dsn string, opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:  logger.Default.LogMode(opts.LogLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	verbose := opts.LogLevel != logger.Silent

	if IsPostgres(dsn) {
		if verbose {
			log.Println("Connecting to PostgreSQL...")
		}
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	if verbose {
		log.Println("Using SQLite for local development:", dsn)
	}

	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// SQLite allows one writer; a single connection turns concurrent
	// transactions into a queue instead of SQLITE_BUSY failures.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Migrate creates or updates the given tables.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// OpenInMemory opens a named shared-cache SQLite database that lives as long
// as one connection to it stays open. Used by tests and local tooling.
func OpenInMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	return Open(dsn, Options{LogLevel: logger.Silent})
}
