// Package store persists the transaction collection as a single serialized
// record under a fixed key. A write failure must never crash the app: Save
// logs and returns the error for the caller to log again if it wants, and
// Load degrades to an empty collection whenever the record is absent or
// unreadable. The in-memory ledger stays the source of truth for a session.
package store

import (
	"context"

	"spendwise/internal/core"
)

// RecordKey is the fixed namespace key the collection is stored under.
const RecordKey = "spendwise_expenses_data"

// Store is the persistence port for the ledger.
type Store interface {
	// Save overwrites the persisted record with the full collection.
	Save(ctx context.Context, txs []core.Transaction) error

	// Load returns the persisted collection, or an empty one when the
	// record is missing or cannot be decoded. It never fails.
	Load(ctx context.Context) []core.Transaction

	Close() error
}
