package cache

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS storage_items (
	item_key TEXT PRIMARY KEY,
	item_value TEXT NOT NULL
)`

// SQLiteStorage keeps items in a single table of a local SQLite database file.
type SQLiteStorage struct {
	db *sqlx.DB
}

// OpenSQLiteStorage opens (and creates if needed) the database at path.
func OpenSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open(%s) > %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Exec(schema) > %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) GetItem(key string) (string, bool, error) {
	var value string
	err := s.db.Get(&value, "SELECT item_value FROM storage_items WHERE item_key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.Get(storage_items) > %w", err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) SetItem(key, value string) error {
	if _, err := s.db.Exec(
		`INSERT INTO storage_items (item_key, item_value) VALUES (?, ?)
		ON CONFLICT(item_key) DO UPDATE SET item_value = excluded.item_value`,
		key, value); err != nil {
		return fmt.Errorf("db.Exec(upsert storage_items) > %w", err)
	}
	return nil
}

func (s *SQLiteStorage) RemoveItem(key string) error {
	if _, err := s.db.Exec("DELETE FROM storage_items WHERE item_key = ?", key); err != nil {
		return fmt.Errorf("db.Exec(delete storage_items) > %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Keys(prefix string) ([]string, error) {
	keys := []string{}
	if err := s.db.Select(&keys,
		"SELECT item_key FROM storage_items WHERE substr(item_key, 1, ?) = ? ORDER BY item_key",
		len(prefix), prefix); err != nil {
		return nil, fmt.Errorf("db.Select(storage_items keys) > %w", err)
	}
	return keys, nil
}
