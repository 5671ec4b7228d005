package usecase

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"car-finder/internal/domain/listing"
	"car-finder/internal/scraper"
)

// ErrBadRecord marks a single malformed scraped record. The caller skips the
// record and keeps going; it never aborts a run.
var ErrBadRecord = errors.New("malformed listing record")

var (
	yearRe    = regexp.MustCompile(`^(19|20)\d{2}$`)
	numberRe  = regexp.MustCompile(`[\d]+(?:\.\d+)?`)
	mileageRe = regexp.MustCompile(`[\d,]+`)
)

// NormalizeListing validates and parses one raw scraped record into a
// storable listing. Make, model, year, price and url are required; a record
// missing any of them is rejected whole, never partially stored.
func NormalizeListing(raw scraper.RawListing, sourceSite string, now time.Time) (listing.Listing, error) {
	mk := normalizeText(raw.Make)
	mdl := normalizeText(raw.Model)
	yearStr := strings.TrimSpace(raw.Year)

	// Sources that only carry a combined title ("2018 Honda Civic Type R")
	// get it split into year/make/model.
	if mk == "" || mdl == "" || yearStr == "" {
		y, m, md := splitTitle(raw.Title)
		if yearStr == "" {
			yearStr = y
		}
		if mk == "" {
			mk = m
		}
		if mdl == "" {
			mdl = md
		}
	}

	year, err := parseYear(yearStr)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("%w: %v (title %q)", ErrBadRecord, err, raw.Title)
	}

	price, err := parsePrice(raw.Price)
	if err != nil {
		return listing.Listing{}, fmt.Errorf("%w: %v (title %q)", ErrBadRecord, err, raw.Title)
	}

	url := strings.TrimSpace(raw.URL)
	if mk == "" || mdl == "" || url == "" {
		return listing.Listing{}, fmt.Errorf("%w: missing required fields (title %q)", ErrBadRecord, raw.Title)
	}

	l := listing.Listing{
		Make:       mk,
		Model:      mdl,
		Year:       year,
		Price:      price,
		URL:        url,
		SourceSite: sourceSite,
		ScrapedAt:  now.UTC(),
	}

	if miles, ok := parseMileage(raw.Mileage); ok {
		l.Mileage = &miles
	}
	if loc := normalizeText(raw.Location); loc != "" {
		l.Location = &loc
	}
	if vin := strings.TrimSpace(raw.VIN); vin != "" {
		l.VIN = &vin
	}

	return l, nil
}

// splitTitle separates "2018 Honda Civic Type R" into year, make and model.
func splitTitle(title string) (year, make, model string) {
	parts := strings.Fields(strings.TrimSpace(title))
	if len(parts) == 0 {
		return "", "", ""
	}
	if yearRe.MatchString(parts[0]) {
		year = parts[0]
		parts = parts[1:]
	}
	if len(parts) > 0 {
		make = parts[0]
	}
	if len(parts) > 1 {
		model = strings.Join(parts[1:], " ")
	}
	return year, make, model
}

func parseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if !yearRe.MatchString(s) {
		return 0, fmt.Errorf("missing or invalid year %q", s)
	}
	return strconv.Atoi(s)
}

// parsePrice strips currency symbols and thousands separators:
// "$35,000" -> 35000.
func parsePrice(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	m := numberRe.FindString(cleaned)
	if m == "" {
		return 0, fmt.Errorf("missing or invalid price %q", raw)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("missing or invalid price %q", raw)
	}
	return v, nil
}

// parseMileage strips unit suffixes: "30,000 miles" -> 30000. Mileage is
// optional, so failure just means absent.
func parseMileage(raw string) (int, bool) {
	m := mileageRe.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

func normalizeText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), unicode.IsSpace)
	return strings.Join(fields, " ")
}
