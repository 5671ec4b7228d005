package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const listingCardsJS = `Array.from(document.querySelectorAll('.vehicle-card')).map(card => {
	const text = sel => { const el = card.querySelector(sel); return el ? el.textContent.trim() : ''; };
	const link = card.querySelector('a.vehicle-card-link') || card.querySelector('a[href]');
	return {
		title: text('.title'),
		price: text('.primary-price'),
		mileage: text('.mileage'),
		location: text('.miles-from'),
		url: link ? link.href : ''
	};
})`

type dynamicCard struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Mileage  string `json:"mileage"`
	Location string `json:"location"`
	URL      string `json:"url"`
}

// DynamicExtractor drives a headless browser against a JS-rendered listing
// page and pulls one RawListing per card.
type DynamicExtractor struct {
	sourceURL   string
	waitTimeout time.Duration
	snapshotDir string
	logger      *log.Logger
}

func NewDynamicExtractor(sourceURL string, waitTimeout time.Duration, snapshotDir string, logger *log.Logger) *DynamicExtractor {
	if logger == nil {
		logger = log.Default()
	}
	if waitTimeout <= 0 {
		waitTimeout = 10 * time.Second
	}
	return &DynamicExtractor{
		sourceURL:   strings.TrimSpace(sourceURL),
		waitTimeout: waitTimeout,
		snapshotDir: strings.TrimSpace(snapshotDir),
		logger:      logger,
	}
}

func (e *DynamicExtractor) SourceSite() string {
	if e == nil {
		return ""
	}
	u, err := url.Parse(e.sourceURL)
	if err != nil || u.Host == "" {
		return e.sourceURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func (e *DynamicExtractor) Extract(ctx context.Context) ([]RawListing, error) {
	if e == nil || e.sourceURL == "" {
		return nil, fmt.Errorf("%w: no source url configured", ErrExtraction)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	navCtx, navCancel := context.WithTimeout(browserCtx, e.waitTimeout+15*time.Second)
	defer navCancel()

	if err := chromedp.Run(navCtx, chromedp.Navigate(e.sourceURL)); err != nil {
		return nil, fmt.Errorf("%w: navigate %s: %v", ErrExtraction, e.sourceURL, err)
	}

	// Bounded wait for the listing container. A page that never renders it
	// is an extraction failure, not a hang.
	waitCtx, waitCancel := context.WithTimeout(browserCtx, e.waitTimeout)
	err := chromedp.Run(waitCtx, chromedp.WaitVisible(".vehicle-card", chromedp.ByQuery))
	waitCancel()
	if err != nil {
		e.captureSnapshot(browserCtx)
		if waitCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: timed out after %s waiting for listings on %s", ErrExtraction, e.waitTimeout, e.sourceURL)
		}
		return nil, fmt.Errorf("%w: waiting for listings on %s: %v", ErrExtraction, e.sourceURL, err)
	}

	var cards []dynamicCard
	evalCtx, evalCancel := context.WithTimeout(browserCtx, e.waitTimeout)
	err = chromedp.Run(evalCtx, chromedp.EvaluateAsDevTools(listingCardsJS, &cards))
	evalCancel()
	if err != nil {
		e.captureSnapshot(browserCtx)
		return nil, fmt.Errorf("%w: reading listing cards on %s: %v", ErrExtraction, e.sourceURL, err)
	}

	out := make([]RawListing, 0, len(cards))
	for _, c := range cards {
		out = append(out, RawListing{
			Title:    c.Title,
			Price:    c.Price,
			Mileage:  c.Mileage,
			Location: c.Location,
			URL:      c.URL,
		})
	}

	e.logger.Printf("scraper=dynamic source=%s listings=%d", e.SourceSite(), len(out))
	return out, nil
}

// captureSnapshot writes a full-page screenshot for debugging a failed
// extraction. It never fails the caller: the browser may already be gone.
func (e *DynamicExtractor) captureSnapshot(browserCtx context.Context) {
	if e.snapshotDir == "" {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Printf("scraper=dynamic snapshot=panic err=%v", r)
		}
	}()

	shotCtx, cancel := context.WithTimeout(browserCtx, 5*time.Second)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(shotCtx, chromedp.FullScreenshot(&buf, 80)); err != nil {
		e.logger.Printf("scraper=dynamic snapshot=skipped err=%v", err)
		return
	}

	if err := os.MkdirAll(e.snapshotDir, 0o755); err != nil {
		e.logger.Printf("scraper=dynamic snapshot=skipped err=%v", err)
		return
	}
	name := filepath.Join(e.snapshotDir, fmt.Sprintf("extract-failure-%s.png", time.Now().UTC().Format("20060102-150405")))
	if err := os.WriteFile(name, buf, 0o644); err != nil {
		e.logger.Printf("scraper=dynamic snapshot=skipped err=%v", err)
		return
	}
	e.logger.Printf("scraper=dynamic snapshot=%s", name)
}
