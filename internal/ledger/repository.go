// Package ledger holds the in-memory authoritative transaction collection.
package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"spendwise/internal/core"
	"spendwise/internal/store"
)

// Repository owns the collection. It assigns ids, keeps insertion order
// (most recent first) and writes the whole collection to the store after
// every mutation. Persistence failures are logged and swallowed: memory
// stays the source of truth for the session, disk catches up on the next
// successful save, and a crash in between is reconciled at next start.
type Repository struct {
	mu    sync.Mutex
	st    store.Store
	items []core.Transaction
}

// New loads the persisted collection once and returns the repository.
func New(ctx context.Context, st store.Store) *Repository {
	r := &Repository{st: st}
	r.items = st.Load(ctx)
	slog.InfoContext(ctx, "Ledger loaded", "component", "ledger", "count", len(r.items))
	return r
}

// Add assigns a fresh id, prepends the transaction and returns the stored
// entity. Validation happens at the caller boundary; Add never fails.
func (r *Repository) Add(ctx context.Context, tx core.Transaction) core.Transaction {
	tx.ID = uuid.NewString()

	r.mu.Lock()
	r.items = append([]core.Transaction{tx}, r.items...)
	snapshot := r.snapshotLocked()
	r.mu.Unlock()

	r.persist(ctx, snapshot)
	return tx
}

// Update replaces the full record matching tx.ID. A missing id is a silent
// no-op externally; it gets a warn log since a stale id usually means the
// caller kept a reference across a delete.
func (r *Repository) Update(ctx context.Context, tx core.Transaction) {
	r.mu.Lock()
	found := false
	for i := range r.items {
		if r.items[i].ID == tx.ID {
			r.items[i] = tx
			found = true
			break
		}
	}
	var snapshot []core.Transaction
	if found {
		snapshot = r.snapshotLocked()
	}
	r.mu.Unlock()

	if !found {
		slog.WarnContext(ctx, "Update for unknown transaction id", "component", "ledger", "transaction_id", tx.ID)
		return
	}
	r.persist(ctx, snapshot)
}

// Delete removes the matching record. Deleting an absent id is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) {
	r.mu.Lock()
	found := false
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			found = true
			break
		}
	}
	var snapshot []core.Transaction
	if found {
		snapshot = r.snapshotLocked()
	}
	r.mu.Unlock()

	if !found {
		slog.WarnContext(ctx, "Delete for unknown transaction id", "component", "ledger", "transaction_id", id)
		return
	}
	r.persist(ctx, snapshot)
}

// List returns a snapshot of the collection, most recent first. Callers
// must treat it as read-only.
func (r *Repository) List() []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Len returns the current collection size.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Repository) snapshotLocked() []core.Transaction {
	return append([]core.Transaction(nil), r.items...)
}

func (r *Repository) persist(ctx context.Context, snapshot []core.Transaction) {
	if err := r.st.Save(ctx, snapshot); err != nil {
		slog.WarnContext(ctx, "Ledger persistence failed, continuing in memory",
			"component", "ledger", "error", err, "count", len(snapshot))
	}
}
