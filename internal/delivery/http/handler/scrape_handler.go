package handler

import (
	"errors"

	"car-finder/internal/domain"
	"car-finder/internal/pipeline"
	"car-finder/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// RunStarter is the orchestrator surface the HTTP layer needs.
type RunStarter interface {
	StartRun() error
	Status() domain.RunStatus
}

type ScrapeHandler struct {
	orchestrator RunStarter
}

func NewScrapeHandler(orchestrator RunStarter) *ScrapeHandler {
	return &ScrapeHandler{orchestrator: orchestrator}
}

func (h *ScrapeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/scrape", h.HandleScrape)
	r.Get("/scrape-status", h.HandleStatus)
}

// HandleScrape accepts a run and returns immediately; progress is observed
// via /scrape-status. A run already in progress is a 409, not a fault.
func (h *ScrapeHandler) HandleScrape(c fiber.Ctx) error {
	if h == nil || h.orchestrator == nil {
		return fiber.ErrServiceUnavailable
	}

	if err := h.orchestrator.StartRun(); err != nil {
		if errors.Is(err, pipeline.ErrRunInProgress) {
			return response.Message(c, fiber.StatusConflict, "a scrape run is already in progress")
		}
		return response.Error(c, fiber.StatusInternalServerError, "failed to start scrape run", err)
	}

	return response.Message(c, fiber.StatusAccepted, "scrape run accepted")
}

func (h *ScrapeHandler) HandleStatus(c fiber.Ctx) error {
	if h == nil || h.orchestrator == nil {
		return fiber.ErrServiceUnavailable
	}
	return response.JSON(c, fiber.StatusOK, h.orchestrator.Status())
}
