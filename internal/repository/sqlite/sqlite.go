// Package sqlite implements repository.Store on top of SQLite.
//
// WHY SQLITE?
// SQLite is an embedded database: it lives inside the Go binary as a single
// file. No separate server to run, and ":memory:" gives every test a fresh,
// isolated database. It is the default store; set DB_DRIVER=postgres to use
// repository/postgres instead.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite, so the binary builds without CGo
// and cross-compiles anywhere Go does.
//
// LOCKING STRATEGY:
// SQLite has one writer at a time. By default a transaction starts as a
// reader and only asks for the write lock on its first write, which leaves a
// window where two transactions both read the same coin balance. We open the
// database with _txlock=immediate so every BEGIN is a BEGIN IMMEDIATE: the
// write lock is taken before the first read, and read-check-write sequences
// for hint purchases and game results run one at a time. busy_timeout makes
// a waiting transaction block for the lock instead of failing with
// SQLITE_BUSY.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/quiz-arena/internal/repository"
)

// compile-time check that *DB implements repository.Store
var _ repository.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and implements repository.Store.
type DB struct {
	conn *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx, so the record queries
// below are written once and used inside and outside transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New opens a SQLite database and runs migrations.
//
// dbPath examples:
//   - "data/quiz.db"  → file-based database (persistent)
//   - ":memory:"      → in-memory database (tests; lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each connection to ":memory:" is its own empty database, so an
	// in-memory store must never open a second one.
	if isMemory(dbPath) {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a writer holds the lock.
	// It is a no-op for in-memory databases.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// dsn appends the per-connection settings to a database path.
// foreign_keys is OFF by default in SQLite; ON DELETE CASCADE needs it.
func dsn(path string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable. Used by /healthz.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// InTx runs fn inside a BEGIN IMMEDIATE transaction.
//
// The deferred Rollback is a no-op after a successful Commit and also
// covers a panic inside fn.
func (db *DB) InTx(ctx context.Context, fn func(tx repository.Tx) error) error {
	sqlTx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{q: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

// txStore implements repository.Tx over an open *sql.Tx.
type txStore struct {
	q querier
}

var _ repository.Tx = (*txStore)(nil)

// migrate creates the schema. CREATE TABLE IF NOT EXISTS makes it safe to
// run on every start.
//
// Per-user collections (achievement progress, hint inventory) are stored as
// one JSON document per user. They are always read and written whole, and
// the set of entries is fixed by the catalog at signup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT,
			github_id     INTEGER UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS stats (
			user_id      TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			wins         INTEGER NOT NULL DEFAULT 0 CHECK (wins >= 0),
			games_played INTEGER NOT NULL DEFAULT 0 CHECK (games_played >= wins),
			streak       INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
			best_streak  INTEGER NOT NULL DEFAULT 0 CHECK (best_streak >= streak),
			total_points INTEGER NOT NULL DEFAULT 0 CHECK (total_points >= 0),
			win_ratio    REAL    NOT NULL DEFAULT 0,
			coins        INTEGER NOT NULL DEFAULT 0 CHECK (coins >= 0)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating stats table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_achievements (
			user_id      TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			achievements TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user_achievements table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_hints (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			hints   TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user_hints table: %w", err)
	}

	return nil
}
