package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

const schema = `
	CREATE TABLE IF NOT EXISTS kv_store (
		state_key  TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

// SQLStorage keeps snapshots in a kv_store table. The driver is "postgres"
// for a shared database or "sqlite" for a device-local file.
type SQLStorage struct {
	db *sqlx.DB
}

func NewSQLStorage(driver, dsn string) (*SQLStorage, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// one writer; an in-memory database lives only as long as its connection
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv_store: %w", err)
	}
	return &SQLStorage{db: db}, nil
}

func (s *SQLStorage) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind("SELECT value FROM kv_store WHERE state_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load persisted state: %w", err)
	}
	return []byte(value), nil
}

func (s *SQLStorage) Save(ctx context.Context, key string, data []byte) error {
	query := s.db.Rebind(`
		INSERT INTO kv_store (state_key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(state_key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save persisted state: %w", err)
	}
	return nil
}

func (s *SQLStorage) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM kv_store WHERE state_key = ?"), key)
	return err
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
