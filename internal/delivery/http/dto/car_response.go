package dto

import (
	"time"

	"car-finder/internal/domain/listing"
)

type CarResponse struct {
	ID         int64   `json:"id"`
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	Price      float64 `json:"price"`
	Mileage    *int    `json:"mileage"`
	VIN        *string `json:"vin"`
	Location   *string `json:"location"`
	URL        string  `json:"url"`
	SourceSite string  `json:"source_site"`
	ScrapedAt  string  `json:"scraped_at"`
}

func CarResponseFrom(l listing.Listing) CarResponse {
	return CarResponse{
		ID:         l.ID,
		Make:       l.Make,
		Model:      l.Model,
		Year:       l.Year,
		Price:      l.Price,
		Mileage:    l.Mileage,
		VIN:        l.VIN,
		Location:   l.Location,
		URL:        l.URL,
		SourceSite: l.SourceSite,
		ScrapedAt:  l.ScrapedAt.UTC().Format(time.RFC3339),
	}
}
