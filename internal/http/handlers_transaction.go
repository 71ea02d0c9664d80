package http

import (
	"errors"
	"log/slog"
	"net/http"

	"spendwise/internal/core"
	"spendwise/internal/views"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := decodeTransaction(r)
	if err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}

	stored := s.svc.Add(r.Context(), tx)
	s.summaryCache.Clear()

	slog.InfoContext(r.Context(), "Transaction created",
		"transaction_id", stored.ID,
		"category", stored.Category,
		"amount_cents", stored.Amount.Cents,
		"type", stored.Type)

	writeJSON(w, r, http.StatusCreated, stored)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := decodeTransaction(r)
	if err != nil {
		writeError(w, validationStatus(err), err.Error())
		return
	}
	tx.ID = r.PathValue("id")

	s.svc.Update(r.Context(), tx)
	s.summaryCache.Clear()

	writeJSON(w, r, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.svc.Delete(r.Context(), id)
	s.summaryCache.Clear()

	// Idempotent: deleting an absent id still reports success.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, sortField, dir, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs := views.SortBy(filter.Apply(s.svc.List()), sortField, dir)
	writeJSON(w, r, http.StatusOK, struct {
		Transactions []core.Transaction `json:"transactions"`
	}{Transactions: txs})
}

// validationStatus maps boundary validation failures to 422 and anything
// else (malformed JSON and such) to 400.
func validationStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrUnknownType):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
