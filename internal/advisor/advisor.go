// Package advisor turns a transaction sample into a short advisory string
// via a remote text-generation collaborator. The remote call is fail-soft:
// every failure maps to a fixed fallback message, never an error.
package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"spendwise/internal/cache"
	"spendwise/internal/core"
)

const (
	// EncouragementAdvice is returned for samples too small to analyze.
	EncouragementAdvice = "Keep adding expenses! Once you have at least 3, I can analyze your spending patterns."

	// FallbackAdvice is returned when the remote call fails in any way.
	FallbackAdvice = "I'm having trouble thinking right now. Check back later!"

	// BusyAdvice is returned while a previous request is still in flight.
	BusyAdvice = "Still analyzing your spending. One moment!"

	// defaultAdvice covers a successful but empty remote response.
	defaultAdvice = "You're doing great! Keep tracking to stay on top of your budget."
)

const (
	minSample   = 3
	sampleLimit = 15

	promptTemplate = "Analyze this list of expenses (JSON format): %s. " +
		"Give me a very short (max 2 sentences), encouraging financial tip based on these categories and amounts. " +
		"Focus on saving or potential habits. Keep it professional yet friendly."
)

// TextGenerator is the remote text-generation collaborator.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Advisor applies the advisory policy: short-circuit small samples, cap the
// payload at the 15 most recent transactions, single in-flight request,
// cache successful answers per sample so an unchanged ledger doesn't
// re-contact the collaborator.
type Advisor struct {
	gen      TextGenerator
	inFlight atomic.Bool
	answers  *cache.LRU[string]
}

func New(gen TextGenerator) *Advisor {
	return &Advisor{
		gen:     gen,
		answers: cache.New[string](32, 5*time.Minute),
	}
}

// GetAdvice maps recent (most recent first) to an advisory string. It never
// returns an error and never panics the caller with one; the worst outcome
// is a fixed fallback message.
func (a *Advisor) GetAdvice(ctx context.Context, recent []core.Transaction) string {
	if len(recent) < minSample {
		return EncouragementAdvice
	}

	sample := recent
	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}
	payload, err := json.Marshal(sample)
	if err != nil {
		slog.WarnContext(ctx, "Failed to serialize advisory sample", "component", "advisor", "error", err)
		return FallbackAdvice
	}

	key := fingerprint(payload)
	if cached, ok := a.answers.Get(key); ok {
		return cached
	}

	if !a.inFlight.CompareAndSwap(false, true) {
		return BusyAdvice
	}
	defer a.inFlight.Store(false)

	text, err := a.gen.GenerateText(ctx, fmt.Sprintf(promptTemplate, payload))
	if err != nil {
		slog.WarnContext(ctx, "Advisory request failed", "component", "advisor", "error", err)
		return FallbackAdvice
	}
	text = strings.TrimSpace(text)
	if text == "" {
		text = defaultAdvice
	}

	a.answers.Set(key, text)
	return text
}

func fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
