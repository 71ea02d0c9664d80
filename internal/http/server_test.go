package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spendwise/internal/core"
	"spendwise/internal/ledger"
	"spendwise/internal/service"
	"spendwise/internal/store"
)

type fixedAdvisor struct {
	advice string
	calls  int
}

func (f *fixedAdvisor) GetAdvice(ctx context.Context, recent []core.Transaction) string {
	f.calls++
	return f.advice
}

func newTestServer(t *testing.T) (*Server, *fixedAdvisor) {
	t.Helper()
	repo := ledger.New(context.Background(), store.NewMemoryStore())
	svc := service.NewLedgerService(repo, nil)
	adv := &fixedAdvisor{advice: "test advice"}
	srv := NewServer(":0", svc, adv)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv, adv
}

func doRequest(srv *Server, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListTransactions(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/transactions",
		`{"date":"2024-01-02","category":"Food","description":"groceries","amount":200,"type":"debit"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
	var created core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created: %v", err)
	}
	if created.ID == "" || created.Amount.Cents != 20000 {
		t.Fatalf("unexpected created transaction: %+v", created)
	}

	rec = doRequest(srv, http.MethodGet, "/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Transactions) != 1 || list.Transactions[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCreateRejectsInvalidTransactions(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"empty description", `{"date":"2024-01-02","category":"Food","description":"  ","amount":10,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"date":"2024-01-02","category":"Food","description":"x","amount":0,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"date":"2024-01-02","category":"Food","description":"x","amount":-5,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"bad category", `{"date":"2024-01-02","category":"Fuel","description":"x","amount":10,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"bad type", `{"date":"2024-01-02","category":"Food","description":"x","amount":10,"type":"transfer"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"date":"02/01/2024","category":"Food","description":"x","amount":10,"type":"debit"}`, http.StatusUnprocessableEntity},
		{"malformed json", `{"date":`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := doRequest(srv, http.MethodPost, "/transactions", tc.body)
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.code, rec.Code, rec.Body)
		}
	}

	if rec := doRequest(srv, http.MethodGet, "/transactions", ""); rec.Code != http.StatusOK {
		t.Fatalf("list should still work, got %d", rec.Code)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/transactions",
		`{"date":"2024-01-02","category":"Food","description":"lunch","amount":12,"type":"debit"}`)
	var created core.Transaction
	json.Unmarshal(rec.Body.Bytes(), &created)

	rec = doRequest(srv, http.MethodPut, "/transactions/"+created.ID,
		`{"date":"2024-01-02","category":"Entertainment","description":"team lunch","amount":48,"type":"debit"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = doRequest(srv, http.MethodGet, "/transactions", "")
	var list struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Transactions) != 1 || list.Transactions[0].Description != "team lunch" {
		t.Fatalf("update not applied: %+v", list)
	}

	rec = doRequest(srv, http.MethodDelete, "/transactions/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	// Idempotent delete of an absent id
	rec = doRequest(srv, http.MethodDelete, "/transactions/"+created.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on repeat delete, got %d", rec.Code)
	}
}

func TestListFilterAndSort(t *testing.T) {
	srv, _ := newTestServer(t)

	bodies := []string{
		`{"date":"2024-01-01","category":"Income","description":"salary","amount":1000,"type":"credit"}`,
		`{"date":"2024-01-02","category":"Food","description":"groceries","amount":200,"type":"debit"}`,
		`{"date":"2024-01-03","category":"Travel","description":"train","amount":100,"type":"debit"}`,
	}
	for _, b := range bodies {
		if rec := doRequest(srv, http.MethodPost, "/transactions", b); rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d", rec.Code)
		}
	}

	rec := doRequest(srv, http.MethodGet, "/transactions?categories=Food,Travel&sort=amount&dir=asc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var list struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list.Transactions) != 2 {
		t.Fatalf("expected 2 filtered, got %d", len(list.Transactions))
	}
	if list.Transactions[0].Description != "train" || list.Transactions[1].Description != "groceries" {
		t.Fatalf("expected amount-ascending order, got %+v", list.Transactions)
	}

	if rec := doRequest(srv, http.MethodGet, "/transactions?categories=Fuel", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown category should 400, got %d", rec.Code)
	}
	if rec := doRequest(srv, http.MethodGet, "/transactions?sort=owner", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown sort should 400, got %d", rec.Code)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	bodies := []string{
		`{"date":"2024-01-01","category":"Income","description":"salary","amount":1000,"type":"credit"}`,
		`{"date":"2024-01-02","category":"Food","description":"groceries","amount":200,"type":"debit"}`,
		`{"date":"2024-01-03","category":"Travel","description":"train","amount":100,"type":"debit"}`,
	}
	for _, b := range bodies {
		doRequest(srv, http.MethodPost, "/transactions", b)
	}

	rec := doRequest(srv, http.MethodGet, "/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var totals struct {
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
		Balance  float64 `json:"balance"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &totals); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if totals.Income != 1000 || totals.Expenses != 300 || totals.Balance != 700 {
		t.Fatalf("unexpected totals: %+v", totals)
	}

	rec = doRequest(srv, http.MethodGet, "/summary/categories", "")
	var cats struct {
		Categories []struct {
			Category string  `json:"category"`
			Total    float64 `json:"total"`
			Percent  float64 `json:"percent"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if len(cats.Categories) != 2 || cats.Categories[0].Category != "Food" || cats.Categories[0].Total != 200 {
		t.Fatalf("unexpected category summary: %+v", cats)
	}

	rec = doRequest(srv, http.MethodGet, "/summary/daily", "")
	var days struct {
		Days []struct {
			Date string `json:"date"`
		} `json:"days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &days); err != nil {
		t.Fatalf("decode daily: %v", err)
	}
	if len(days.Days) != 7 {
		t.Fatalf("expected 7 daily buckets, got %d", len(days.Days))
	}
}

func TestSummaryCacheInvalidatedByMutation(t *testing.T) {
	srv, _ := newTestServer(t)

	doRequest(srv, http.MethodPost, "/transactions",
		`{"date":"2024-01-01","category":"Income","description":"salary","amount":100,"type":"credit"}`)
	doRequest(srv, http.MethodGet, "/summary", "") // warm the cache

	doRequest(srv, http.MethodPost, "/transactions",
		`{"date":"2024-01-01","category":"Income","description":"bonus","amount":50,"type":"credit"}`)

	rec := doRequest(srv, http.MethodGet, "/summary", "")
	var totals struct {
		Income float64 `json:"income"`
	}
	json.Unmarshal(rec.Body.Bytes(), &totals)
	if totals.Income != 150 {
		t.Fatalf("stale summary served after mutation: %+v", totals)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	if rec := doRequest(srv, http.MethodGet, "/export.csv", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("empty ledger should 204, got %d", rec.Code)
	}

	doRequest(srv, http.MethodPost, "/transactions",
		`{"date":"2024-01-02","category":"Food","description":"Lunch, \"quick\" bite","amount":15,"type":"debit"}`)

	rec := doRequest(srv, http.MethodGet, "/export.csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("expected text/csv, got %s", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "spendwise_export_") || !strings.HasSuffix(cd, `.csv"`) {
		t.Fatalf("unexpected disposition %q", cd)
	}
	if !strings.Contains(rec.Body.String(), `"Lunch, ""quick"" bite"`) {
		t.Fatalf("CSV quoting wrong:\n%s", rec.Body)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	srv, adv := newTestServer(t)

	rec := doRequest(srv, http.MethodPost, "/insights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Advice string `json:"advice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Advice != "test advice" || adv.calls != 1 {
		t.Fatalf("advisor not consulted: %+v calls=%d", resp, adv.calls)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := doRequest(srv, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
