// Package store reads chain of custody samples and test results for a lab
// reporting batch out of the LIMS database.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/juliandevatbs/SRLIMS/internal/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Config names the database to connect to. Driver is a database/sql driver
// name, "sqlserver" for the LIMS server or "sqlite" for a local copy.
type Config struct {
	Driver  string
	DSN     string
	Timeout time.Duration
}

// DB owns a single connection pool. The pool is opened on the first query and
// released by Close; a DB is not reused after Close.
type DB struct {
	cfg Config
	log logrus.FieldLogger

	mu     sync.Mutex
	db     *sqlx.DB
	closed bool
}

// New checks the configuration. It does not connect.
func New(cfg Config, log logrus.FieldLogger) (*DB, error) {
	if strings.TrimSpace(cfg.Driver) == "" {
		return nil, errors.Wrap(table.ErrInvalidInput, "no database driver configured")
	}

	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.Wrap(table.ErrInvalidInput, "no database dsn configured")
	}

	return &DB{cfg: cfg, log: log}, nil
}

// Close releases the connection pool. Closing twice is a no-op.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.db == nil {
		return nil
	}

	err := d.db.Close()
	d.db = nil
	return err
}

func (d *DB) conn(ctx context.Context) (*sqlx.DB, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("database is closed")
	}

	if d.db != nil {
		return d.db, nil
	}

	db, err := sqlx.Open(d.cfg.Driver, d.cfg.DSN)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	d.log.WithField("driver", d.cfg.Driver).Debug("database connection opened")
	d.db = db
	return db, nil
}

func (d *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.cfg.Timeout)
}

func (d *DB) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	db, err := d.conn(ctx)
	if err != nil {
		return table.NewReadError(d.cfg.Driver, err)
	}

	if err := db.SelectContext(ctx, dest, db.Rebind(query), args...); err != nil {
		return table.NewReadError(d.cfg.Driver, err)
	}

	return nil
}
