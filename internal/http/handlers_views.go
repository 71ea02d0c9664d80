package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"spendwise/internal/core"
	"spendwise/internal/export"
	"spendwise/internal/views"
)

type (
	totalsResponse struct {
		Income   core.Money `json:"income"`
		Expenses core.Money `json:"expenses"`
		// Balance may be negative, which Money cannot hold; it is emitted
		// as a raw decimal number token instead.
		Balance json.RawMessage `json:"balance"`
	}

	categorySummaryResponse struct {
		Category core.Category `json:"category"`
		Total    core.Money    `json:"total"`
		Percent  float64       `json:"percent"`
	}

	dailyBucketResponse struct {
		Date   string     `json:"date"`
		Credit core.Money `json:"credit"`
		Debit  core.Money `json:"debit"`
	}
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.serveCachedSummary(w, r) {
		return
	}

	t := views.ComputeTotals(s.svc.List())
	resp := totalsResponse{
		Income:   t.Income,
		Expenses: t.Expenses,
		Balance:  json.RawMessage(strconv.FormatFloat(float64(t.BalanceCents)/100, 'f', -1, 64)),
	}
	s.writeAndCacheSummary(w, r, resp)
}

func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	filter, _, _, err := parseListQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.serveCachedSummary(w, r) {
		return
	}

	summary := views.SummarizeCategories(filter.Apply(s.svc.List()))
	resp := make([]categorySummaryResponse, len(summary))
	for i, cs := range summary {
		resp[i] = categorySummaryResponse{Category: cs.Category, Total: cs.Total, Percent: cs.Percent}
	}
	s.writeAndCacheSummary(w, r, struct {
		Categories []categorySummaryResponse `json:"categories"`
	}{Categories: resp})
}

func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	if s.serveCachedSummary(w, r) {
		return
	}

	buckets := views.DailySeries(s.svc.List(), time.Now())
	resp := make([]dailyBucketResponse, len(buckets))
	for i, b := range buckets {
		resp[i] = dailyBucketResponse{Date: b.Date, Credit: b.Credit, Debit: b.Debit}
	}
	s.writeAndCacheSummary(w, r, struct {
		Days []dailyBucketResponse `json:"days"`
	}{Days: resp})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	content := export.ToCSV(s.svc.List())
	if content == "" {
		// Nothing to export; don't emit a header-only file.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", export.MIMEType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	advice := s.adv.GetAdvice(r.Context(), s.svc.List())
	writeJSON(w, r, http.StatusOK, struct {
		Advice string `json:"advice"`
	}{Advice: advice})
}

func (s *Server) serveCachedSummary(w http.ResponseWriter, r *http.Request) bool {
	body, ok := s.summaryCache.Get(r.URL.RequestURI())
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return true
}

func (s *Server) writeAndCacheSummary(w http.ResponseWriter, r *http.Request, v any) {
	rec := &bodyRecorder{}
	writeJSON(recorderPair{w, rec}, r, http.StatusOK, v)
	if rec.body != nil {
		s.summaryCache.Set(r.URL.RequestURI(), rec.body)
	}
}

type bodyRecorder struct {
	body []byte
}

// recorderPair tees the response body into a recorder for caching.
type recorderPair struct {
	http.ResponseWriter
	rec *bodyRecorder
}

func (p recorderPair) Write(b []byte) (int, error) {
	p.rec.body = append(p.rec.body, b...)
	return p.ResponseWriter.Write(b)
}
