package analysis

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"car-finder/internal/domain/listing"
)

// FanOut runs one analysis call per listing over a bounded pool of workers.
// Failures are isolated: a failed or panicking call becomes that listing's
// AnalysisErr and never aborts its siblings.
type FanOut struct {
	workers     int
	callTimeout time.Duration
	logger      *log.Logger
}

func NewFanOut(workers int, callTimeout time.Duration, logger *log.Logger) *FanOut {
	if workers <= 0 {
		workers = 4
	}
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FanOut{workers: workers, callTimeout: callTimeout, logger: logger}
}

// AnalyzeAll returns exactly one Enriched per input listing, in completion
// order. Consumers key results by listing identity, not position.
func (f *FanOut) AnalyzeAll(ctx context.Context, listings []listing.Listing, strategy Strategy) []listing.Enriched {
	if f == nil || len(listings) == 0 {
		return nil
	}

	workers := f.workers
	if workers > len(listings) {
		workers = len(listings)
	}

	tasks := make(chan listing.Listing)
	results := make(chan listing.Enriched, len(listings))

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for l := range tasks {
				results <- f.analyzeOne(ctx, l, strategy)
			}
		}()
	}

	for _, l := range listings {
		tasks <- l
	}
	close(tasks)
	wg.Wait()
	close(results)

	out := make([]listing.Enriched, 0, len(listings))
	for r := range results {
		out = append(out, r)
	}
	return out
}

func (f *FanOut) analyzeOne(ctx context.Context, l listing.Listing, strategy Strategy) (enriched listing.Enriched) {
	enriched = listing.Enriched{Listing: l}

	// A panicking backend must cost exactly one result, not the run.
	defer func() {
		if r := recover(); r != nil {
			enriched.AnalysisErr = fmt.Errorf("%w: panic: %v", ErrAnalysis, r)
			f.logger.Printf("fanout status=panic listing_id=%d url=%s err=%v", l.ID, l.URL, r)
		}
	}()

	if strategy == nil {
		enriched.AnalysisErr = fmt.Errorf("%w: no strategy configured", ErrAnalysis)
		return enriched
	}

	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	start := time.Now()
	text, err := strategy.Analyze(callCtx, ViewOf(l))
	if err != nil {
		enriched.AnalysisErr = err
		f.logger.Printf("fanout status=error listing_id=%d url=%s duration=%s err=%v", l.ID, l.URL, time.Since(start), err)
		return enriched
	}

	enriched.AnalysisText = text
	f.logger.Printf("fanout status=ok listing_id=%d url=%s duration=%s", l.ID, l.URL, time.Since(start))
	return enriched
}
