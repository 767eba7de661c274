package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	modernc "modernc.org/sqlite"

	"github.com/ibaloyan/ClimateAnalysis/internal/config"
)

// ErrStoreNotFound is returned by Open when the configured store file does not exist.
var ErrStoreNotFound = errors.New("store not found")

// Open returns a read-only pooled handle to an existing store. Each query
// checks a connection out of the pool for its own duration, so the handle is
// safe to share across request goroutines.
func Open(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	return open(ctx, cfg, false)
}

// OpenWritable opens the store for schema changes, creating the file and its
// directory when they are absent.
func OpenWritable(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	return open(ctx, cfg, true)
}

func open(ctx context.Context, cfg config.Config, writable bool) (*sql.DB, error) {
	dsn, err := buildDSN(cfg, writable)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if cfg.LogSQL {
		drv, err := driverFor(cfg.Driver)
		if err != nil {
			return nil, err
		}
		connector, err := NewLoggingConnector(drv, dsn, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("db connector: %w", err)
		}
		db = sql.OpenDB(connector)
	} else {
		db, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return db, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func driverFor(name string) (driver.Driver, error) {
	switch name {
	case config.DriverMattn:
		return &sqlite3.SQLiteDriver{}, nil
	case config.DriverModernc:
		return &modernc.Driver{}, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", name)
	}
}

func buildDSN(cfg config.Config, writable bool) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := cfg.Path
	if !strings.HasPrefix(path, "file:") {
		if writable {
			dir := filepath.Dir(path)
			if dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return "", fmt.Errorf("mkdir %s: %w", dir, err)
				}
			}
		} else if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrStoreNotFound, path)
			}
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
	}

	params, err := dsnParams(cfg.Driver)
	if err != nil {
		return "", err
	}
	// mode=ro also keeps SQLite from creating a missing file behind a file: URI.
	if !writable && !strings.Contains(path, "mode=") {
		params = append([]string{"mode=ro"}, params...)
	}

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

// dsnParams enables foreign keys and a busy timeout, spelled the way each
// driver expects them. The journal mode is left as the store file has it.
func dsnParams(driverName string) ([]string, error) {
	switch driverName {
	case config.DriverMattn:
		return []string{
			"_foreign_keys=on",
			"_busy_timeout=5000",
		}, nil
	case config.DriverModernc:
		return []string{
			"_pragma=foreign_keys(1)",
			"_pragma=busy_timeout(5000)",
		}, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driverName)
	}
}
