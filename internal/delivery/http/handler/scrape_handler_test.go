package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"car-finder/internal/domain"
	"car-finder/internal/pipeline"

	"github.com/gofiber/fiber/v3"
)

type mockStarter struct {
	startErr error
	status   domain.RunStatus
	started  int
}

func (m *mockStarter) StartRun() error {
	m.started++
	return m.startErr
}

func (m *mockStarter) Status() domain.RunStatus { return m.status }

func scrapeApp(starter RunStarter) *fiber.App {
	app := fiber.New()
	NewScrapeHandler(starter).RegisterRoutes(app)
	return app
}

func TestHandleScrape_Accepted(t *testing.T) {
	starter := &mockStarter{}
	app := scrapeApp(starter)

	resp, err := app.Test(httptest.NewRequest("POST", "/scrape", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	if starter.started != 1 {
		t.Fatalf("expected exactly one StartRun call, got %d", starter.started)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "scrape run accepted" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestHandleScrape_ConflictWhileRunning(t *testing.T) {
	starter := &mockStarter{startErr: pipeline.ErrRunInProgress}
	app := scrapeApp(starter)

	resp, err := app.Test(httptest.NewRequest("POST", "/scrape", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "a scrape run is already in progress" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestHandleStatus_ReportsPhase(t *testing.T) {
	starter := &mockStarter{status: domain.RunStatus{
		Phase:   domain.RunFailed,
		Message: "extraction failed: timed out after 10s waiting for listings",
	}}
	app := scrapeApp(starter)

	resp, err := app.Test(httptest.NewRequest("GET", "/scrape-status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	var got domain.RunStatus
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decoding body %s: %v", raw, err)
	}
	if got.Phase != domain.RunFailed {
		t.Fatalf("expected failed phase, got %s", got.Phase)
	}
	if got.Message != starter.status.Message {
		t.Fatalf("status message dropped: %q", got.Message)
	}
}

func TestHandleStatus_InitialIdle(t *testing.T) {
	starter := &mockStarter{status: domain.RunStatus{
		Phase:   domain.RunIdle,
		Message: "no run has been started",
	}}
	app := scrapeApp(starter)

	resp, err := app.Test(httptest.NewRequest("GET", "/scrape-status", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var got domain.RunStatus
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.Phase != domain.RunIdle || got.Message != "no run has been started" {
		t.Fatalf("unexpected initial status: %+v", got)
	}
}
