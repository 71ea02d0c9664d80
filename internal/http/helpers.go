package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/views"
)

// transactionRequest is the wire shape of a create/update body. Amount is
// kept as a raw number token so it can be parsed to cents without a float
// round trip.
type transactionRequest struct {
	Date        string      `json:"date"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
}

// decodeTransaction parses and validates the request body. All validation
// happens here; the repository behind it trusts its input.
func decodeTransaction(r *http.Request) (core.Transaction, error) {
	var req transactionRequest
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return core.Transaction{}, fmt.Errorf("invalid request body: %w", err)
	}

	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Transaction{}, core.ErrInvalidAmount
	}

	tx := core.Transaction{
		Date:        strings.TrimSpace(req.Date),
		Category:    core.Category(strings.TrimSpace(req.Category)),
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
		Type:        core.TxType(strings.TrimSpace(req.Type)),
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// parseListQuery builds the filter and sort parameters from query values.
func parseListQuery(q url.Values) (views.Filter, views.SortField, views.Direction, error) {
	var f views.Filter

	if raw := strings.TrimSpace(q.Get("categories")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			cat := core.Category(strings.TrimSpace(name))
			if !cat.Valid() {
				return f, "", "", fmt.Errorf("unknown category %q", name)
			}
			f.Categories = append(f.Categories, cat)
		}
	}

	for param, dst := range map[string]*string{"start": &f.StartDate, "end": &f.EndDate} {
		if raw := strings.TrimSpace(q.Get(param)); raw != "" {
			if _, err := time.Parse(core.DateLayout, raw); err != nil {
				return f, "", "", fmt.Errorf("invalid %s date %q", param, raw)
			}
			*dst = raw
		}
	}

	sortField := views.SortField(q.Get("sort"))
	switch sortField {
	case "", views.SortByDate, views.SortByCategory, views.SortByDescription, views.SortByAmount:
	default:
		return f, "", "", fmt.Errorf("unknown sort field %q", sortField)
	}
	if sortField == "" {
		sortField = views.SortByDate
	}

	dir := views.Direction(q.Get("dir"))
	switch dir {
	case "":
		dir = views.Descending
	case views.Ascending, views.Descending:
	default:
		return f, "", "", fmt.Errorf("unknown sort direction %q", dir)
	}

	return f, sortField, dir, nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal response", "error", err, "url", r.URL.Path)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, `{"error":%q}`, msg)
}
