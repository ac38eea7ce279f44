package db

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string
	// DSN is the postgres connection string or the sqlite file path.
	DSN string
	// LogLevel overrides the SQL log level (gorm default: Warn).
	LogLevel gormLogger.LogLevel
}

// Open connects with the configured driver. Unique violations surface as gorm.ErrDuplicatedKey.
func Open(cfg Config, baseLog *logger.Logger) (*gorm.DB, error) {
	log := baseLog.With("service", "Database")

	level := cfg.LogLevel
	if level == 0 {
		level = gormLogger.Warn
	}
	gormLog := gormLogger.New(
		stdLog(),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gcfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLog,
	}

	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverPostgres:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres dsn is empty")
		}
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		path := cfg.DSN
		if path == "" {
			path = "roadmap.db"
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialectName(cfg.Driver), err)
	}
	if db.Dialector.Name() == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Info("Database connected", "driver", db.Dialector.Name())
	return db, nil
}

// PostgresDSN assembles a URL from discrete settings.
func PostgresDSN(host, port, user, password, name string) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user,
		password,
		host,
		port,
		name,
	)
}

func dialectName(driver string) string {
	if strings.TrimSpace(driver) == "" {
		return DriverPostgres
	}
	return driver
}

func stdLog() *log.Logger {
	return log.New(os.Stdout, "\r\n", log.LstdFlags)
}
