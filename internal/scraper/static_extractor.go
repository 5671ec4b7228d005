package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/gocolly/colly/v2"
)

// StaticExtractor parses server-rendered listing pages without a browser.
// Useful for sources that do not hydrate their cards with JS.
type StaticExtractor struct {
	sourceURL string
	logger    *log.Logger
}

func NewStaticExtractor(sourceURL string, logger *log.Logger) *StaticExtractor {
	if logger == nil {
		logger = log.Default()
	}
	return &StaticExtractor{sourceURL: strings.TrimSpace(sourceURL), logger: logger}
}

func (e *StaticExtractor) SourceSite() string {
	if e == nil {
		return ""
	}
	u, err := url.Parse(e.sourceURL)
	if err != nil || u.Host == "" {
		return e.sourceURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func (e *StaticExtractor) Extract(ctx context.Context) ([]RawListing, error) {
	if e == nil || e.sourceURL == "" {
		return nil, fmt.Errorf("%w: no source url configured", ErrExtraction)
	}

	u, err := url.Parse(e.sourceURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid source url %q", ErrExtraction, e.sourceURL)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(u.Host),
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	out := make([]RawListing, 0)

	c.OnHTML(".vehicle-card", func(el *colly.HTMLElement) {
		raw := RawListing{
			Title:    strings.TrimSpace(el.ChildText(".title")),
			Price:    strings.TrimSpace(el.ChildText(".primary-price")),
			Mileage:  strings.TrimSpace(el.ChildText(".mileage")),
			Location: strings.TrimSpace(el.ChildText(".miles-from")),
			URL:      el.Request.AbsoluteURL(strings.TrimSpace(el.ChildAttr("a", "href"))),
		}
		out = append(out, raw)
	})

	var reqErr error
	c.OnError(func(_ *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(e.sourceURL); err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrExtraction, e.sourceURL, err)
	}
	c.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrExtraction, e.sourceURL, err)
	}
	if reqErr != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", ErrExtraction, e.sourceURL, reqErr)
	}

	e.logger.Printf("scraper=static source=%s listings=%d", e.SourceSite(), len(out))
	return out, nil
}
