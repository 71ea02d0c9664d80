// Package service wires the repository to its side channels: every
// successful mutation is announced on AMQP for the mirror worker. Publish
// failures never fail the mutation; the ledger is already saved locally.
package service

import (
	"context"
	"log/slog"

	"spendwise/internal/amqp"
	"spendwise/internal/core"
	"spendwise/internal/ledger"
)

// ChangePublisher is the outbound notification port, satisfied by
// *amqp.Client. A nil publisher disables notifications.
type ChangePublisher interface {
	PublishLedgerChange(ctx context.Context, kind amqp.ChangeKind, transactionID string) error
}

type LedgerService struct {
	repo      *ledger.Repository
	publisher ChangePublisher
}

func NewLedgerService(repo *ledger.Repository, publisher ChangePublisher) *LedgerService {
	return &LedgerService{repo: repo, publisher: publisher}
}

func (s *LedgerService) Add(ctx context.Context, tx core.Transaction) core.Transaction {
	stored := s.repo.Add(ctx, tx)
	s.publish(ctx, amqp.ChangeUpsert, stored.ID)
	return stored
}

func (s *LedgerService) Update(ctx context.Context, tx core.Transaction) {
	s.repo.Update(ctx, tx)
	s.publish(ctx, amqp.ChangeUpsert, tx.ID)
}

func (s *LedgerService) Delete(ctx context.Context, id string) {
	s.repo.Delete(ctx, id)
	s.publish(ctx, amqp.ChangeDelete, id)
}

func (s *LedgerService) List() []core.Transaction {
	return s.repo.List()
}

func (s *LedgerService) publish(ctx context.Context, kind amqp.ChangeKind, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerChange(ctx, kind, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish ledger change",
			"component", "service", "kind", kind, "transaction_id", id, "error", err)
	}
}
