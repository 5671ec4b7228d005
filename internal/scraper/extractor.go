package scraper

import (
	"context"
	"errors"
)

// ErrExtraction marks a job-level extraction failure: the source was
// unreachable or its expected structure never appeared within the wait
// budget. An empty result is not an error.
var ErrExtraction = errors.New("extraction failed")

// RawListing is one scraped card before any parsing. Every field is the
// untouched text the page carried; any of them may be empty.
type RawListing struct {
	Title    string
	Make     string
	Model    string
	Year     string
	Price    string
	Mileage  string
	Location string
	VIN      string
	URL      string
}

type Extractor interface {
	Extract(ctx context.Context) ([]RawListing, error)
	// SourceSite names the site listings are attributed to in the store.
	SourceSite() string
}
