// Package worker maintains an on-disk CSV mirror of the persisted ledger.
// It is driven by AMQP change messages, with a periodic rewrite as a
// backstop for lost messages.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendwise/internal/amqp"
	"spendwise/internal/export"
	"spendwise/internal/store"
)

type MirrorWorker struct {
	st   store.Store
	path string
}

func NewMirrorWorker(st store.Store, path string) *MirrorWorker {
	return &MirrorWorker{st: st, path: path}
}

// HandleChange reacts to a single ledger change by rewriting the mirror.
// The message only tells us something changed; the store is authoritative.
func (w *MirrorWorker) HandleChange(ctx context.Context, msg *amqp.LedgerChangeMessage) error {
	slog.InfoContext(ctx, "Processing ledger change",
		"component", "worker",
		"kind", msg.Kind,
		"transaction_id", msg.TransactionID)
	return w.Rewrite(ctx)
}

// Rewrite reloads the ledger from the store and replaces the mirror file
// atomically. An empty ledger removes the mirror instead of leaving a
// header-only file behind.
func (w *MirrorWorker) Rewrite(ctx context.Context) error {
	txs := w.st.Load(ctx)
	content := export.ToCSV(txs)

	if content == "" {
		if err := os.Remove(w.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove mirror: %w", err)
		}
		slog.InfoContext(ctx, "Ledger empty, mirror removed", "component", "worker", "path", w.path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("create mirror directory: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0644); err != nil {
		return fmt.Errorf("write mirror temp file: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}

	slog.InfoContext(ctx, "Mirror rewritten", "component", "worker", "path", w.path, "count", len(txs))
	return nil
}

// RunPeriodic rewrites the mirror on a fixed interval until ctx is done.
func (w *MirrorWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Rewrite(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic mirror rewrite failed", "component", "worker", "error", err)
			}
		}
	}
}
