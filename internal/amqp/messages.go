package amqp

import (
	"encoding/json"
	"time"
)

const (
	ChangeUpsert ChangeKind = "upsert"
	ChangeDelete ChangeKind = "delete"
)

// ChangeKind describes what happened to a transaction.
type ChangeKind string

// LedgerChangeMessage notifies consumers that the ledger changed. It carries
// only the kind and the transaction id; consumers reload the authoritative
// state from the store rather than trusting message payloads.
type LedgerChangeMessage struct {
	Kind          ChangeKind `json:"kind"`
	TransactionID string     `json:"transaction_id"`
	Timestamp     time.Time  `json:"timestamp"`
}

func NewLedgerChangeMessage(kind ChangeKind, transactionID string) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Kind:          kind,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
