package listing

import "time"

// Listing is the normalized, persisted car-for-sale record. The url is the
// natural key: the store never holds two rows with the same url.
type Listing struct {
	ID         int64
	Make       string
	Model      string
	Year       int
	Price      float64
	Mileage    *int
	VIN        *string
	Location   *string
	URL        string
	SourceSite string
	ScrapedAt  time.Time
}

// Enriched is a stored listing plus the outcome of one analysis call.
// Exactly one of AnalysisText / AnalysisErr is meaningful. Not persisted.
type Enriched struct {
	Listing     Listing
	AnalysisText string
	AnalysisErr  error
}

// Feedback is an append-only preference record referencing a listing.
type Feedback struct {
	ID         int64
	CarID      int64
	Preference string
	CreatedAt  time.Time
}
