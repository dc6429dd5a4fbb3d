package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"blogly/models"
)

// MemoryDSN is a private in-memory SQLite database with foreign keys on.
const MemoryDSN = "file::memory:?_pragma=foreign_keys(1)"

type Options struct {
	Driver string
	DSN    string
	Echo   bool
}

// Dialector picks the gorm dialector for driver. "memory" ignores dsn.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "memory":
		return sqlite.Open(MemoryDSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// GormConfig is shared by Open and tests. Default per-statement transactions
// are skipped because the service layer opens one explicit transaction per
// operation.
func GormConfig(log *slog.Logger, echo bool) *gorm.Config {
	level := logger.Warn
	if echo {
		level = logger.Info
	}
	return &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 NewGormLogger(log, 200*time.Millisecond).LogMode(level),
	}
}

// Open connects to the database described by opts.
func Open(opts Options, log *slog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, GormConfig(log, opts.Echo))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	if opts.Driver == "memory" {
		// Every SQLite connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open memory: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetConnMaxIdleTime(0)
	}
	return db, nil
}

// OpenMemory opens a fresh in-memory database and migrates it.
func OpenMemory(log *slog.Logger) (*gorm.DB, error) {
	db, err := Open(Options{Driver: "memory"}, log)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the users, posts, tags and posttags tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Tag{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
