package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the serialized ledger record in a single-row key-value
// table, so the persisted shape stays one JSON document per RecordKey.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save serializes the full collection and overwrites the record.
func (s *SQLiteStore) Save(ctx context.Context, txs []core.Transaction) error {
	payload, err := json.Marshal(txs)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to serialize ledger record", "error", err, "count", len(txs))
		return fmt.Errorf("marshal ledger record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ledger_records (record_key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(record_key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP`,
		RecordKey, string(payload))
	if err != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger record", "error", err, "count", len(txs))
		return fmt.Errorf("write ledger record: %w", err)
	}

	slog.DebugContext(ctx, "Ledger record persisted", "count", len(txs))
	return nil
}

// Load reads the record back. Absent or undecodable records degrade to an
// empty collection; the next Save rewrites the record from memory.
func (s *SQLiteStore) Load(ctx context.Context) []core.Transaction {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM ledger_records WHERE record_key = ?`, RecordKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to read ledger record, starting empty", "error", err)
		return nil
	}

	var txs []core.Transaction
	if err := json.Unmarshal([]byte(payload), &txs); err != nil {
		slog.WarnContext(ctx, "Failed to decode ledger record, starting empty", "error", err)
		return nil
	}
	return txs
}
