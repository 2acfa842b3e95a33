package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect identifies the SQL flavour behind a *sql.DB.  Both dialects
// accept "?" placeholders; the few statements that differ are selected by
// repositories through this value.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite3"
)

// Options describes how to reach the database.
type Options struct {
	Driver Dialect
	User   string
	Pass   string
	Host   string
	Port   string
	Name   string
	Path   string // sqlite only
}

// Open connects to MySQL or SQLite and verifies the connection.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
	switch o.Driver {
	case MySQL:
		return openMySQL(ctx, o)
	case SQLite:
		return openSQLite(ctx, o.Path)
	}
	return nil, fmt.Errorf("unsupported driver %q", o.Driver)
}

func openMySQL(ctx context.Context, o Options) (*sql.DB, error) {
	auth := o.User
	if o.Pass != "" {
		auth = fmt.Sprintf("%s:%s", o.User, o.Pass)
	}
	// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, o.Host, o.Port, o.Name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, ping(ctx, db)
}

// openSQLite opens a file (or "file:...?mode=memory" URI) database with
// foreign keys enforced.  SQLite allows a single writer, so the pool is
// capped at one connection; transactions queue instead of failing with
// SQLITE_BUSY.
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path required")
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", path+sep+"_foreign_keys=1&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, ping(ctx, db)
}

func ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}
