package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"car-finder/internal/analysis"
	"car-finder/internal/digest"
	"car-finder/internal/domain"
	"car-finder/internal/domain/listing"
	"car-finder/internal/repository"
	"car-finder/internal/scraper"
	"car-finder/internal/usecase"
)

// ErrRunInProgress is returned when StartRun is called while a run is
// executing. Callers treat it as "try again later", not a fault.
var ErrRunInProgress = errors.New("a run is already in progress")

// Analyzer is the fan-out contract the orchestrator depends on.
type Analyzer interface {
	AnalyzeAll(ctx context.Context, listings []listing.Listing, strategy analysis.Strategy) []listing.Enriched
}

// Orchestrator sequences extract → store → analyze → digest as one
// background run and owns the observable job state. At most one run executes
// at a time; the check-and-set in StartRun is a single atomic transition.
type Orchestrator struct {
	mu      sync.Mutex
	phase   domain.RunPhase
	message string

	extractor scraper.Extractor
	listings  repository.ListingRepository
	analyzer  Analyzer
	strategy  analysis.Strategy
	sink      digest.Sink
	recipient string

	render func([]listing.Enriched) (string, error)
	notify func(domain.RunStatus)
	logger *log.Logger
}

type Deps struct {
	Extractor scraper.Extractor
	Listings  repository.ListingRepository
	Analyzer  Analyzer
	Strategy  analysis.Strategy
	Sink      digest.Sink
	Recipient string
	// Notify, when set, receives every phase transition (ws broadcast).
	Notify func(domain.RunStatus)
	Logger *log.Logger
}

func NewOrchestrator(deps Deps) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		phase:     domain.RunIdle,
		message:   "no run has been started",
		extractor: deps.Extractor,
		listings:  deps.Listings,
		analyzer:  deps.Analyzer,
		strategy:  deps.Strategy,
		sink:      deps.Sink,
		recipient: deps.Recipient,
		render:    digest.Render,
		notify:    deps.Notify,
		logger:    logger,
	}
}

// StartRun transitions the job to running and schedules the pipeline on its
// own goroutine. It returns immediately: acceptance, not completion. A run
// already in progress yields ErrRunInProgress and no work.
func (o *Orchestrator) StartRun() error {
	o.mu.Lock()
	if o.phase == domain.RunRunning {
		o.mu.Unlock()
		return ErrRunInProgress
	}
	o.phase = domain.RunRunning
	o.message = "run started"
	status := domain.RunStatus{Phase: o.phase, Message: o.message}
	o.mu.Unlock()

	o.broadcast(status)
	o.logger.Printf("pipeline=run status=started")

	// The run outlives the triggering request, so it gets its own context.
	// Cancellation is not exposed today; threading a cancelable context
	// through here is the single change needed to add it.
	go o.run(context.Background())

	return nil
}

// RunOnce starts a run and blocks until it reaches a terminal phase. Used
// by the CLI; the HTTP surface uses StartRun/Status instead.
func (o *Orchestrator) RunOnce(ctx context.Context) (domain.RunStatus, error) {
	if err := o.StartRun(); err != nil {
		return o.Status(), err
	}

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return o.Status(), ctx.Err()
		case <-ticker.C:
			status := o.Status()
			if status.Phase != domain.RunRunning {
				return status, nil
			}
		}
	}
}

// Status returns the current (phase, message) snapshot. Never blocks on a
// running pipeline, never fails.
func (o *Orchestrator) Status() domain.RunStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return domain.RunStatus{Phase: o.phase, Message: o.message}
}

func (o *Orchestrator) run(ctx context.Context) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			o.finish(domain.RunFailed, fmt.Sprintf("run panicked: %v", r))
		}
	}()

	raw, err := o.extractor.Extract(ctx)
	if err != nil {
		o.finish(domain.RunFailed, err.Error())
		return
	}
	if len(raw) == 0 {
		o.finish(domain.RunCompleted, "no listings")
		return
	}

	inserted, skipped, err := o.storeListings(ctx, raw)
	if err != nil {
		o.finish(domain.RunFailed, err.Error())
		return
	}

	// Deliberately the full table, not just this run's inserts: every run
	// re-analyzes the entire known set.
	all, err := o.listings.GetAll(ctx)
	if err != nil {
		o.finish(domain.RunFailed, fmt.Sprintf("reading stored listings: %v", err))
		return
	}

	enriched := o.analyzer.AnalyzeAll(ctx, all, o.strategy)

	if len(enriched) > 0 {
		payload, err := o.render(enriched)
		if err != nil {
			o.finish(domain.RunFailed, err.Error())
			return
		}
		if err := o.sink.Deliver(ctx, payload, o.recipient); err != nil {
			o.finish(domain.RunFailed, err.Error())
			return
		}
	}

	failures := 0
	for _, e := range enriched {
		if e.AnalysisErr != nil {
			failures++
		}
	}

	o.finish(domain.RunCompleted, fmt.Sprintf(
		"run completed: %d scraped, %d new, %d skipped, %d analyzed (%d failed) in %s",
		len(raw), inserted, skipped, len(enriched), failures, time.Since(start).Round(time.Millisecond),
	))
}

// storeListings normalizes and inserts each scraped record. Malformed
// records are skipped with a warning; a store write failure aborts the run.
func (o *Orchestrator) storeListings(ctx context.Context, raw []scraper.RawListing) (inserted, skipped int, err error) {
	now := time.Now()
	source := o.extractor.SourceSite()

	for _, r := range raw {
		l, nerr := usecase.NormalizeListing(r, source, now)
		if nerr != nil {
			skipped++
			o.logger.Printf("pipeline=run step=store status=skipped err=%v", nerr)
			continue
		}

		added, ierr := o.listings.Insert(ctx, l)
		if ierr != nil {
			return inserted, skipped, fmt.Errorf("storing listing %s: %w", l.URL, ierr)
		}
		if added {
			inserted++
		}
	}
	return inserted, skipped, nil
}

func (o *Orchestrator) finish(phase domain.RunPhase, message string) {
	o.mu.Lock()
	o.phase = phase
	o.message = message
	status := domain.RunStatus{Phase: phase, Message: message}
	o.mu.Unlock()

	o.broadcast(status)
	o.logger.Printf("pipeline=run status=%s message=%q", phase, message)
}

func (o *Orchestrator) broadcast(status domain.RunStatus) {
	if o.notify == nil {
		return
	}
	o.notify(status)
}
