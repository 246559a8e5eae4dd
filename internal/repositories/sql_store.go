package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type sqlDialect struct {
	driver string
	create string
	get    string
	set    string
	remove string
}

var sqliteDialect = sqlDialect{
	driver: "sqlite",
	create: `CREATE TABLE IF NOT EXISTS kv_store (
		namespace  TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)`,
	get:    "SELECT value FROM kv_store WHERE namespace = ? AND key = ?",
	set:    "INSERT OR REPLACE INTO kv_store (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)",
	remove: "DELETE FROM kv_store WHERE namespace = ? AND key = ?",
}

var postgresDialect = sqlDialect{
	driver: "postgres",
	create: `CREATE TABLE IF NOT EXISTS kv_store (
		namespace  TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (namespace, key)
	)`,
	get: "SELECT value FROM kv_store WHERE namespace = $1 AND key = $2",
	set: `INSERT INTO kv_store (namespace, key, value, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
	remove: "DELETE FROM kv_store WHERE namespace = $1 AND key = $2",
}

// SQLStore keeps keys as rows of a kv_store table, scoped by namespace
type SQLStore struct {
	dsn       string
	namespace string
	dialect   sqlDialect
	db        *sql.DB
}

// NewSQLiteStore creates a store backed by a local SQLite database file
func NewSQLiteStore(path, namespace string) *SQLStore {
	return &SQLStore{dsn: path, namespace: namespace, dialect: sqliteDialect}
}

// NewPostgresStore creates a store backed by a shared PostgreSQL database
func NewPostgresStore(dsn, namespace string) *SQLStore {
	return &SQLStore{dsn: dsn, namespace: namespace, dialect: postgresDialect}
}

// Init opens the database and creates the table if needed
func (s *SQLStore) Init(ctx context.Context) error {
	if s.dialect.driver == sqliteDialect.driver {
		if err := os.MkdirAll(filepath.Dir(s.dsn), 0700); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}

	db, err := sql.Open(s.dialect.driver, s.dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.ExecContext(ctx, s.dialect.create); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.get, s.namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, s.dialect.set, s.namespace, key, string(value), updatedAt); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.remove, s.namespace, key); err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
