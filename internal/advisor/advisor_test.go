package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"spendwise/internal/core"
)

type fakeGenerator struct {
	mu    sync.Mutex
	calls int32
	text  string
	err   error

	// when set, GenerateText blocks until released
	block   chan struct{}
	prompts []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.text, f.err
}

func makeSample(n int) []core.Transaction {
	txs := make([]core.Transaction, n)
	for i := range txs {
		txs[i] = core.Transaction{
			ID:          fmt.Sprintf("tx-%d", i),
			Date:        "2024-01-15",
			Category:    core.Food,
			Description: fmt.Sprintf("item %d", i),
			Amount:      core.Money{Cents: int64(100 * (i + 1))},
			Type:        core.Debit,
		}
	}
	return txs
}

func TestSmallSampleShortCircuits(t *testing.T) {
	gen := &fakeGenerator{text: "remote tip"}
	a := New(gen)

	for _, n := range []int{0, 1, 2} {
		if got := a.GetAdvice(context.Background(), makeSample(n)); got != EncouragementAdvice {
			t.Fatalf("sample of %d: expected encouragement, got %q", n, got)
		}
	}
	if atomic.LoadInt32(&gen.calls) != 0 {
		t.Fatalf("remote collaborator must not be contacted for small samples")
	}
}

func TestAdviceReturnedVerbatim(t *testing.T) {
	gen := &fakeGenerator{text: "  Cut back on Food a little.  "}
	a := New(gen)

	got := a.GetAdvice(context.Background(), makeSample(3))
	if got != "Cut back on Food a little." {
		t.Fatalf("expected trimmed remote text, got %q", got)
	}
}

func TestRemoteFailureFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	a := New(gen)

	if got := a.GetAdvice(context.Background(), makeSample(5)); got != FallbackAdvice {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestEmptyResponseGetsDefault(t *testing.T) {
	gen := &fakeGenerator{text: "   "}
	a := New(gen)

	if got := a.GetAdvice(context.Background(), makeSample(3)); got != defaultAdvice {
		t.Fatalf("expected default advice for empty response, got %q", got)
	}
}

func TestSampleIsCapped(t *testing.T) {
	gen := &fakeGenerator{text: "tip"}
	a := New(gen)

	a.GetAdvice(context.Background(), makeSample(40))
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if strings.Contains(prompt, "tx-15") {
		t.Fatalf("prompt includes transactions beyond the cap")
	}
	if !strings.Contains(prompt, "tx-14") || !strings.Contains(prompt, "tx-0") {
		t.Fatalf("prompt missing expected sample entries")
	}
}

func TestRepeatSampleServedFromCache(t *testing.T) {
	gen := &fakeGenerator{text: "cached tip"}
	a := New(gen)
	sample := makeSample(4)

	first := a.GetAdvice(context.Background(), sample)
	second := a.GetAdvice(context.Background(), sample)
	if first != second {
		t.Fatalf("expected identical advice, got %q then %q", first, second)
	}
	if atomic.LoadInt32(&gen.calls) != 1 {
		t.Fatalf("expected a single remote call, got %d", gen.calls)
	}
}

func TestFailuresAreNotCached(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("down")}
	a := New(gen)
	sample := makeSample(3)

	a.GetAdvice(context.Background(), sample)
	gen.err = nil
	gen.text = "recovered"
	if got := a.GetAdvice(context.Background(), sample); got != "recovered" {
		t.Fatalf("expected retry after failure, got %q", got)
	}
}

func TestOnlyOneRequestInFlight(t *testing.T) {
	gen := &fakeGenerator{text: "slow tip", block: make(chan struct{})}
	a := New(gen)

	started := make(chan string)
	go func() {
		started <- a.GetAdvice(context.Background(), makeSample(3))
	}()

	// Wait until the first request reached the generator.
	for atomic.LoadInt32(&gen.calls) == 0 {
	}

	if got := a.GetAdvice(context.Background(), makeSample(6)); got != BusyAdvice {
		t.Fatalf("expected busy message while a request is in flight, got %q", got)
	}

	close(gen.block)
	if got := <-started; got != "slow tip" {
		t.Fatalf("expected the in-flight request to finish normally, got %q", got)
	}
	if atomic.LoadInt32(&gen.calls) != 1 {
		t.Fatalf("expected exactly one remote call, got %d", gen.calls)
	}
}
