package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format for transaction dates. Dates carry no time
// component, so fixed-width ISO strings compare correctly with < and >.
const DateLayout = "2006-01-02"

const (
	Credit TxType = "credit"
	Debit  TxType = "debit"
)

const (
	Income        Category = "Income"
	Food          Category = "Food"
	Travel        Category = "Travel"
	Shopping      Category = "Shopping"
	Entertainment Category = "Entertainment"
	Health        Category = "Health"
	Bills         Category = "Bills"
	Other         Category = "Other"
)

type (
	// TxType is the direction of cash flow.
	TxType string

	// Category is one of the fixed spending categories.
	Category string

	// Transaction is a single ledger entry. ID is assigned at creation and
	// immutable afterwards.
	Transaction struct {
		ID          string   `json:"id"`
		Date        string   `json:"date"`
		Category    Category `json:"category"`
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Type        TxType   `json:"type"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownType      = errors.New("unknown transaction type")
)

// Categories returns every valid category in declaration order.
func Categories() []Category {
	return []Category{Income, Food, Travel, Shopping, Entertainment, Health, Bills, Other}
}

func (c Category) Valid() bool {
	switch c {
	case Income, Food, Travel, Shopping, Entertainment, Health, Bills, Other:
		return true
	default:
		return false
	}
}

func (t TxType) Valid() bool {
	return t == Credit || t == Debit
}

// Validate checks the boundary invariants: parseable date, non-empty
// description, positive amount, known category and type. The repository
// never validates; callers do this before handing a transaction over.
func (t Transaction) Validate() error {
	if _, err := time.Parse(DateLayout, t.Date); err != nil {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Category.Valid() {
		return ErrUnknownCategory
	}
	if !t.Type.Valid() {
		return ErrUnknownType
	}
	return nil
}
