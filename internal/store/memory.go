package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"spendwise/internal/core"
)

// MemoryStore is a non-durable Store for tests and the default local setup.
// It round-trips through JSON so serialization behaves like the real backend.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	saveErr error // injected failure for tests
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// FailSavesWith makes every subsequent Save return err.
func (s *MemoryStore) FailSavesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *MemoryStore) Save(ctx context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		slog.ErrorContext(ctx, "Failed to persist ledger record", "error", s.saveErr)
		return s.saveErr
	}
	payload, err := json.Marshal(txs)
	if err != nil {
		return err
	}
	s.payload = payload
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payload == nil {
		return nil
	}
	var txs []core.Transaction
	if err := json.Unmarshal(s.payload, &txs); err != nil {
		slog.WarnContext(ctx, "Failed to decode ledger record, starting empty", "error", err)
		return nil
	}
	return txs
}

func (s *MemoryStore) Close() error { return nil }
