package analysis

import (
	"context"
	"errors"
	"fmt"

	"car-finder/internal/domain/listing"
)

// ErrAnalysis marks a single listing's failed enrichment call. It is
// listing-level: the fan-out records it on the listing and keeps going.
var ErrAnalysis = errors.New("analysis failed")

// ListingView is the short structured payload an analysis backend sees.
type ListingView struct {
	Title    string
	Price    string
	Mileage  string
	Location string
	Link     string
}

// Strategy is the capability contract each analysis backend satisfies.
type Strategy interface {
	Name() string
	Analyze(ctx context.Context, view ListingView) (string, error)
}

// ViewOf formats a stored listing the way the backends expect it.
func ViewOf(l listing.Listing) ListingView {
	mileage := "N/A"
	if l.Mileage != nil {
		mileage = fmt.Sprintf("%d miles", *l.Mileage)
	}
	location := ""
	if l.Location != nil {
		location = *l.Location
	}
	return ListingView{
		Title:    fmt.Sprintf("%d %s %s", l.Year, l.Make, l.Model),
		Price:    fmt.Sprintf("$%.0f", l.Price),
		Mileage:  mileage,
		Location: location,
		Link:     l.URL,
	}
}

func buildPrompt(view ListingView) string {
	return fmt.Sprintf(`Analyze the following car listing and provide a summary of its pros and cons.
Be concise and to the point.

**Car Data:**
- Title: %s
- Price: %s
- Mileage: %s
- Location: %s
- Link: %s

**Analysis:**
`, view.Title, view.Price, view.Mileage, view.Location, view.Link)
}
