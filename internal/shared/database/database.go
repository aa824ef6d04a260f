// Package database provides SQLite connection management and table initialization.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Supported database/sql driver names.
const (
	// DriverMattn is the cgo SQLite driver and the default.
	DriverMattn = "sqlite3"
	// DriverModernc is the pure-Go SQLite driver, useful where cgo is unavailable.
	DriverModernc = "sqlite"
)

// DB wraps the SQLite database connection with initialization logic.
type DB struct {
	*sql.DB
	path   string
	driver string
	mu     sync.Mutex
}

// New opens the database at dbPath with the default driver and initializes tables.
func New(dbPath string) (*DB, error) {
	return Open(DriverMattn, dbPath)
}

// Open creates a new database connection using the named driver and initializes tables.
func Open(driver, dbPath string) (*DB, error) {
	dsn, err := buildDSN(driver, dbPath)
	if err != nil {
		return nil, err
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports only one writer at a time. A single connection avoids
	// "database is locked" errors and serializes transactions.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	db := &DB{
		DB:     sqlDB,
		path:   dbPath,
		driver: driver,
	}

	if err := db.initTables(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return db, nil
}

// buildDSN encodes foreign key enforcement, WAL and a busy timeout into the
// connection string so every pooled connection gets them, not just the first.
func buildDSN(driver, dbPath string) (string, error) {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}

	switch driver {
	case DriverMattn:
		return dbPath + sep + "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", nil
	case DriverModernc:
		return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// initTables creates the lang-portal tables with indexes.
func (db *DB) initTables() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tables := []struct {
		name string
		ddl  string
	}{
		{"groups", `
		CREATE TABLE IF NOT EXISTS groups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL
		);`},
		{"study_activities", `
		CREATE TABLE IF NOT EXISTS study_activities (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			url TEXT
		);`},
		{"words", `
		CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			kanji TEXT NOT NULL,
			romaji TEXT NOT NULL,
			english TEXT NOT NULL
		);`},
		{"study_sessions", `
		CREATE TABLE IF NOT EXISTS study_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			group_id INTEGER NOT NULL,
			study_activity_id INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (group_id) REFERENCES groups(id),
			FOREIGN KEY (study_activity_id) REFERENCES study_activities(id)
		);`},
		{"word_review_items", `
		CREATE TABLE IF NOT EXISTS word_review_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word_id INTEGER NOT NULL,
			study_session_id INTEGER NOT NULL,
			correct BOOLEAN NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (word_id) REFERENCES words(id),
			FOREIGN KEY (study_session_id) REFERENCES study_sessions(id)
		);`},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", tbl.name, err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_study_sessions_created_at ON study_sessions(created_at);",
		"CREATE INDEX IF NOT EXISTS idx_word_review_items_session ON word_review_items(study_session_id);",
		"CREATE INDEX IF NOT EXISTS idx_word_review_items_word ON word_review_items(word_id);",
		"CREATE INDEX IF NOT EXISTS idx_words_kanji ON words(kanji);",
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Driver returns the database/sql driver name in use.
func (db *DB) Driver() string {
	return db.driver
}
