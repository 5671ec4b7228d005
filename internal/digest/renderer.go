package digest

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"car-finder/internal/analysis"
	"car-finder/internal/domain/listing"
)

const digestTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <style>
    body { font-family: Arial, sans-serif; color: #222; }
    .car { border: 1px solid #ddd; border-radius: 6px; padding: 12px; margin-bottom: 12px; }
    .car h2 { margin: 0 0 4px 0; font-size: 16px; }
    .meta { color: #666; font-size: 13px; }
    .analysis { margin-top: 8px; white-space: pre-wrap; }
    .analysis-error { margin-top: 8px; color: #a33; font-style: italic; }
  </style>
</head>
<body>
  <h1>Daily Car Digest</h1>
  <p>{{ len .Cars }} listings — generated {{ .GeneratedAt }}</p>
  {{ range .Cars }}
  <div class="car">
    <h2><a href="{{ .Link }}">{{ .Title }}</a></h2>
    <div class="meta">{{ .Price }} · {{ .Mileage }}{{ if .Location }} · {{ .Location }}{{ end }}</div>
    {{ if .AnalysisError }}
    <div class="analysis-error">{{ .AnalysisError }}</div>
    {{ else }}
    <div class="analysis">{{ .Analysis }}</div>
    {{ end }}
  </div>
  {{ end }}
</body>
</html>`

var tmpl = template.Must(template.New("digest").Parse(digestTemplate))

type digestCar struct {
	Title         string
	Price         string
	Mileage       string
	Location      string
	Link          string
	Analysis      string
	AnalysisError string
}

type digestData struct {
	Cars        []digestCar
	GeneratedAt string
}

// Render turns the enriched set into a single HTML payload. A listing whose
// analysis failed still appears, with an error note in place of the text.
func Render(enriched []listing.Enriched) (string, error) {
	cars := make([]digestCar, 0, len(enriched))
	for _, e := range enriched {
		view := analysis.ViewOf(e.Listing)
		car := digestCar{
			Title:    view.Title,
			Price:    view.Price,
			Mileage:  view.Mileage,
			Location: view.Location,
			Link:     view.Link,
			Analysis: e.AnalysisText,
		}
		if e.AnalysisErr != nil {
			car.AnalysisError = fmt.Sprintf("Analysis unavailable: %v", e.AnalysisErr)
		}
		cars = append(cars, car)
	}

	var out strings.Builder
	err := tmpl.Execute(&out, digestData{
		Cars:        cars,
		GeneratedAt: time.Now().UTC().Format(time.RFC1123),
	})
	if err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return out.String(), nil
}
