package database

import (
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/saltyorg/fruitstock/internal/config"
)

var (
	// ErrConnectionFailed wraps any failure to open or reach the database.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrNotFound is returned when a statement targets an id that matches no row.
	ErrNotFound = errors.New("not found")
)

// DB wraps the single database connection used for the whole session.
// It intentionally exposes only the database package API (no raw *sql.DB).
type DB struct {
	conn       *sql.DB
	driver     string
	driverName string
	dsn        string
	target     string

	closeOnce sync.Once
	closeErr  error
}

// New opens a connection to the configured database and verifies it is reachable.
// The pool is pinned to one connection; callers must Close it on every exit path.
func New(cfg config.Database) (*DB, error) {
	driverName, dsn, target, err := dataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrConnectionFailed, err)
	}

	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	// Test connection
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", ErrConnectionFailed, err)
	}

	log.Debug().Str("driver", cfg.Driver).Str("target", target).Msg("Database connection established")

	return &DB{
		conn:       conn,
		driver:     cfg.Driver,
		driverName: driverName,
		dsn:        dsn,
		target:     target,
	}, nil
}

// dataSource returns the database/sql driver name, the DSN, and a
// password-free description of the target for logs.
func dataSource(cfg config.Database) (driverName, dsn, target string, err error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		if config.InMemorySQLite(cfg.Path) {
			return "", "", "", fmt.Errorf("in-memory sqlite database %q is not supported", cfg.Path)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", cfg.Path)
		return "sqlite", dsn, cfg.Path, nil
	case config.DriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Path:   "/" + cfg.Name,
		}
		if cfg.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
		}
		return "pgx", u.String(), u.Redacted(), nil
	default:
		return "", "", "", fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Driver returns the configured driver name (sqlite or postgres).
func (db *DB) Driver() string {
	return db.driver
}

// Target returns a password-free description of the database location.
func (db *DB) Target() string {
	return db.target
}

// Close releases the connection. SQLite databases refresh planner
// statistics first; a failure there is only logged. Close may be called more
// than once and from another goroutine.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}

	db.closeOnce.Do(func() {
		if db.driver == config.DriverSQLite {
			if _, err := db.conn.Exec("PRAGMA optimize"); err != nil {
				log.Warn().Err(err).Msg("Failed to optimize database")
			}
		}

		if err := db.conn.Close(); err != nil {
			db.closeErr = fmt.Errorf("failed to close database: %w", err)
			return
		}
		log.Debug().Str("target", db.target).Msg("Database connection closed")
	})
	return db.closeErr
}
