// Package views derives display data from a transaction collection. Every
// function here is pure: collection plus parameters in, fresh values out,
// no hidden state, safe to recompute on every request.
package views

import (
	"sort"
	"time"

	"spendwise/internal/core"
)

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

const (
	SortByDate        SortField = "date"
	SortByCategory    SortField = "category"
	SortByDescription SortField = "description"
	SortByAmount      SortField = "amount"
)

// DailyWindowDays is the trailing window of the daily series, today inclusive.
const DailyWindowDays = 7

type (
	Direction string
	SortField string

	// Totals are the sums of credit and debit amounts. Balance may be
	// negative, so it is plain cents rather than a Money.
	Totals struct {
		Income       core.Money
		Expenses     core.Money
		BalanceCents int64
	}

	// Filter selects transactions by category set and inclusive date range.
	// Zero values mean "no constraint"; predicates compose with AND.
	Filter struct {
		Categories []core.Category
		StartDate  string
		EndDate    string
	}

	// CategorySummary is one debit category's share of the filtered total.
	CategorySummary struct {
		Category core.Category
		Total    core.Money
		Percent  float64
	}

	// DailyBucket accumulates one calendar day's credits and debits.
	DailyBucket struct {
		Date   string
		Credit core.Money
		Debit  core.Money
	}
)

// ComputeTotals sums credits into income and debits into expenses.
// balance = income - expenses holds exactly, in cents.
func ComputeTotals(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case core.Credit:
			t.Income.Cents += tx.Amount.Cents
		case core.Debit:
			t.Expenses.Cents += tx.Amount.Cents
		}
	}
	t.BalanceCents = t.Income.Cents - t.Expenses.Cents
	return t
}

// Apply returns the subsequence of txs satisfying every active predicate,
// preserving input order. An empty category set means all categories; date
// bounds are inclusive and compared lexically, which is valid for the
// fixed-width ISO date format.
func (f Filter) Apply(txs []core.Transaction) []core.Transaction {
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if len(f.Categories) > 0 && !containsCategory(f.Categories, tx.Category) {
			continue
		}
		if f.StartDate != "" && tx.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && tx.Date > f.EndDate {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func containsCategory(set []core.Category, c core.Category) bool {
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}

// SortBy returns a stably ordered copy: numeric comparison for amount,
// lexical for everything else. Equal keys keep their relative input order.
func SortBy(txs []core.Transaction, field SortField, dir Direction) []core.Transaction {
	out := append([]core.Transaction(nil), txs...)
	less := lessFunc(field)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(field SortField) func(a, b core.Transaction) bool {
	switch field {
	case SortByAmount:
		return func(a, b core.Transaction) bool { return a.Amount.Cents < b.Amount.Cents }
	case SortByCategory:
		return func(a, b core.Transaction) bool { return a.Category < b.Category }
	case SortByDescription:
		return func(a, b core.Transaction) bool { return a.Description < b.Description }
	default:
		return func(a, b core.Transaction) bool { return a.Date < b.Date }
	}
}

// SummarizeCategories groups the debit transactions of txs (normally an
// already filtered set) by category, with each group's share of the debit
// total. Groups come back ordered by descending total; ties keep
// first-occurrence order so the output is deterministic.
func SummarizeCategories(txs []core.Transaction) []CategorySummary {
	var totalCents int64
	order := make([]core.Category, 0)
	sums := make(map[core.Category]int64)

	for _, tx := range txs {
		if tx.Type != core.Debit {
			continue
		}
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += tx.Amount.Cents
		totalCents += tx.Amount.Cents
	}

	out := make([]CategorySummary, 0, len(order))
	for _, cat := range order {
		s := CategorySummary{Category: cat, Total: core.Money{Cents: sums[cat]}}
		if totalCents > 0 {
			s.Percent = float64(sums[cat]) / float64(totalCents) * 100
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cents > out[j].Total.Cents
	})
	return out
}

// DailySeries builds exactly DailyWindowDays buckets for the consecutive
// calendar days ending on today inclusive, oldest first. Transactions
// outside the window are ignored by this view only.
func DailySeries(txs []core.Transaction, today time.Time) []DailyBucket {
	buckets := make([]DailyBucket, DailyWindowDays)
	index := make(map[string]int, DailyWindowDays)
	for i := 0; i < DailyWindowDays; i++ {
		day := today.AddDate(0, 0, i-(DailyWindowDays-1)).Format(core.DateLayout)
		buckets[i] = DailyBucket{Date: day}
		index[day] = i
	}

	for _, tx := range txs {
		i, ok := index[tx.Date]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Credit:
			buckets[i].Credit.Cents += tx.Amount.Cents
		case core.Debit:
			buckets[i].Debit.Cents += tx.Amount.Cents
		}
	}
	return buckets
}
