package dataset

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pivolan/ocorrencias_analyzer/config"
	"github.com/pivolan/ocorrencias_analyzer/executor"
	"github.com/pivolan/ocorrencias_analyzer/logging"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case config.DriverSQLite, "sqlite3", "":
		return sqlite.Open(dsn), nil
	case config.DriverMySQL:
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func gormConfig() *gorm.Config {
	level := logger.Silent
	if logging.Debug() {
		level = logger.Info
	}
	return &gorm.Config{Logger: logger.Default.LogMode(level)}
}

// Connect opens one gorm connection. Callers own it and must close the
// underlying *sql.DB.
func Connect(ctx context.Context, driver, dsn string) (*gorm.DB, error) {
	d, err := dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, gormConfig())
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s dataset: %w", driver, err)
	}
	return db.WithContext(ctx), nil
}

// Opener returns an executor.Opener that connects on every call, so each
// execution gets its own scoped connection. A missing SQLite file is reported
// as an error instead of being created empty.
func Opener(driver, dsn string) executor.Opener {
	return func(ctx context.Context) (*gorm.DB, error) {
		if err := checkSQLiteFile(driver, dsn); err != nil {
			return nil, err
		}
		return Connect(ctx, driver, dsn)
	}
}

func checkSQLiteFile(driver, dsn string) error {
	if driver == config.DriverMySQL || dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	path := dsn
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("dataset %s: %w", path, err)
	}
	return nil
}
