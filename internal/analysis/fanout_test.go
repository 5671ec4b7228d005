package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"car-finder/internal/domain/listing"
)

type stubStrategy struct {
	analyze func(ctx context.Context, view ListingView) (string, error)
}

func (s stubStrategy) Name() string { return "stub" }

func (s stubStrategy) Analyze(ctx context.Context, view ListingView) (string, error) {
	return s.analyze(ctx, view)
}

func quietLogger() *log.Logger {
	return log.New(&strings.Builder{}, "", 0)
}

func sampleListings(n int) []listing.Listing {
	out := make([]listing.Listing, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, listing.Listing{
			ID:    int64(i + 1),
			Make:  "Honda",
			Model: "Civic",
			Year:  2018,
			Price: 20000,
			URL:   fmt.Sprintf("https://x/%d", i+1),
		})
	}
	return out
}

func TestAnalyzeAll_OneResultPerInput(t *testing.T) {
	f := NewFanOut(3, time.Second, quietLogger())
	inputs := sampleListings(10)

	strategy := stubStrategy{analyze: func(_ context.Context, view ListingView) (string, error) {
		// Fail every other listing; completeness must hold regardless.
		if strings.HasSuffix(view.Link, "2") || strings.HasSuffix(view.Link, "4") {
			return "", fmt.Errorf("%w: backend unavailable", ErrAnalysis)
		}
		return "analysis of " + view.Link, nil
	}}

	results := f.AnalyzeAll(context.Background(), inputs, strategy)
	if len(results) != len(inputs) {
		t.Fatalf("expected %d results, got %d", len(inputs), len(results))
	}

	seen := make(map[string]bool)
	for _, r := range results {
		if seen[r.Listing.URL] {
			t.Fatalf("duplicate result for %s", r.Listing.URL)
		}
		seen[r.Listing.URL] = true

		if r.AnalysisErr == nil && r.AnalysisText == "" {
			t.Fatalf("result for %s carries neither text nor error", r.Listing.URL)
		}
	}
	for _, in := range inputs {
		if !seen[in.URL] {
			t.Fatalf("listing %s silently dropped", in.URL)
		}
	}
}

func TestAnalyzeAll_FaultIsolation(t *testing.T) {
	f := NewFanOut(4, time.Second, quietLogger())
	inputs := sampleListings(5)

	strategy := stubStrategy{analyze: func(_ context.Context, view ListingView) (string, error) {
		if strings.HasSuffix(view.Link, "/3") {
			return "", fmt.Errorf("%w: boom", ErrAnalysis)
		}
		return "ok", nil
	}}

	results := f.AnalyzeAll(context.Background(), inputs, strategy)

	failed := 0
	for _, r := range results {
		if r.AnalysisErr != nil {
			failed++
			if !errors.Is(r.AnalysisErr, ErrAnalysis) {
				t.Fatalf("expected ErrAnalysis, got %v", r.AnalysisErr)
			}
			continue
		}
		if r.AnalysisText != "ok" {
			t.Fatalf("sibling result corrupted: %+v", r)
		}
	}
	if failed != 1 {
		t.Fatalf("expected exactly 1 failure, got %d", failed)
	}
}

func TestAnalyzeAll_PanicBecomesError(t *testing.T) {
	f := NewFanOut(2, time.Second, quietLogger())
	inputs := sampleListings(3)

	strategy := stubStrategy{analyze: func(_ context.Context, view ListingView) (string, error) {
		if strings.HasSuffix(view.Link, "/2") {
			panic("backend exploded")
		}
		return "ok", nil
	}}

	results := f.AnalyzeAll(context.Background(), inputs, strategy)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	var panicked *listing.Enriched
	for i := range results {
		if results[i].AnalysisErr != nil {
			panicked = &results[i]
		}
	}
	if panicked == nil {
		t.Fatalf("panic was not captured as a result")
	}
	if !strings.Contains(panicked.AnalysisErr.Error(), "backend exploded") {
		t.Fatalf("panic message lost: %v", panicked.AnalysisErr)
	}
}

func TestAnalyzeAll_BoundedConcurrency(t *testing.T) {
	const workers = 2
	f := NewFanOut(workers, time.Second, quietLogger())
	inputs := sampleListings(8)

	var current, peak int32
	strategy := stubStrategy{analyze: func(_ context.Context, _ ListingView) (string, error) {
		n := atomic.AddInt32(&current, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return "ok", nil
	}}

	f.AnalyzeAll(context.Background(), inputs, strategy)

	if p := atomic.LoadInt32(&peak); p > workers {
		t.Fatalf("concurrency exceeded pool size: peak=%d workers=%d", p, workers)
	}
}

func TestAnalyzeAll_EmptyInput(t *testing.T) {
	f := NewFanOut(4, time.Second, quietLogger())
	if results := f.AnalyzeAll(context.Background(), nil, stubStrategy{}); len(results) != 0 {
		t.Fatalf("expected no results for empty input, got %d", len(results))
	}
}

func TestAnalyzeAll_PerCallTimeout(t *testing.T) {
	f := NewFanOut(2, 20*time.Millisecond, quietLogger())
	inputs := sampleListings(1)

	strategy := stubStrategy{analyze: func(ctx context.Context, _ ListingView) (string, error) {
		<-ctx.Done()
		return "", fmt.Errorf("%w: %v", ErrAnalysis, ctx.Err())
	}}

	results := f.AnalyzeAll(context.Background(), inputs, strategy)
	if len(results) != 1 || results[0].AnalysisErr == nil {
		t.Fatalf("expected timed-out result, got %+v", results)
	}
	if !strings.Contains(results[0].AnalysisErr.Error(), "deadline") {
		t.Fatalf("expected deadline error, got %v", results[0].AnalysisErr)
	}
}
