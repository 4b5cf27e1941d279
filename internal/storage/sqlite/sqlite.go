// Package sqlite implements the durable record store on top of a local
// SQLite database. It owns the schema for expenses, subscriptions and
// categories, seeds the default category set, and provides the create, read,
// delete and aggregate operations the services are built on.
//
// Every mutation runs inside its own transaction that is rolled back on any
// error, so no half-committed row ever becomes visible. The *sql.DB handle
// is a bounded pool; SQLite serializes writers, so concurrent mutations of
// the same row resolve to one winner and the loser observes "not found".
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrExpenseExists is returned by SaveExpense when the id is already taken.
var ErrExpenseExists = errors.New("expense already exists")

// Store encapsulates the SQLite connection pool and implements the
// repository methods for expenses, subscriptions and categories.
type Store struct {
	DB *sql.DB
}

// defaultCategories is the fixed seed set inserted at first initialization.
var defaultCategories = [][2]string{
	{"Fournitures", "Förbrukningsmaterial"},
	{"Salaire", "Lön"},
	{"Location", "Hyra"},
	{"Électricité", "El"},
	{"Internet", "Internet"},
	{"Assurance", "Försäkring"},
	{"Marketing", "Marknadsföring"},
	{"Maintenance", "Underhåll"},
	{"Transport", "Transport"},
	{"Autre", "Övrigt"},
}

// New opens the database file, initializes the schema and seeds the default
// categories. Safe to call on every process start regardless of existing
// data; an unreachable storage medium is the only fatal condition.
func New(path string) (*Store, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// SQLite allows a single writer; a pool of one avoids SQLITE_BUSY churn
	// while keeping the per-operation transaction granularity.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = initializeSchema(db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Store{DB: db}, nil
}

func initializeSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS expenses(
            id TEXT PRIMARY KEY,
            date TEXT NOT NULL,
            amount REAL NOT NULL,
            supplier TEXT NOT NULL,
            category TEXT NOT NULL,
            description TEXT,
            file_path TEXT,
            siret TEXT,
            tva_rate REAL DEFAULT 20.0,
            validated INTEGER DEFAULT 1,
            created_at TEXT
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create expenses table: %w", err)
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS subscriptions(
            email TEXT PRIMARY KEY,
            subscription_end TEXT,
            is_admin INTEGER DEFAULT 0
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create subscriptions table: %w", err)
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS categories(
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name_fr TEXT UNIQUE NOT NULL,
            name_se TEXT UNIQUE NOT NULL
        );
    `)
	if err != nil {
		return fmt.Errorf("failed to create categories table: %w", err)
	}

	// Insert-if-absent: a constraint hit here just means "already seeded".
	for _, pair := range defaultCategories {
		_, err = tx.Exec(
			`INSERT OR IGNORE INTO categories (name_fr, name_se) VALUES (?, ?)`,
			pair[0], pair[1])
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", pair[0], err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit initialization: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// isConstraintErr reports whether err is a SQLite constraint violation.
func isConstraintErr(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
