package handler

import (
	"errors"
	"fmt"

	"car-finder/internal/delivery/http/dto"
	"car-finder/internal/pkg/response"
	"car-finder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type TrainHandler struct {
	uc usecase.FeedbackUsecase
}

func NewTrainHandler(uc usecase.FeedbackUsecase) *TrainHandler {
	return &TrainHandler{uc: uc}
}

func (h *TrainHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/train", h.HandleTrain)
}

func (h *TrainHandler) HandleTrain(c fiber.Ctx) error {
	var req dto.TrainRequest
	if err := c.Bind().Body(&req); err != nil {
		return response.Error(c, fiber.StatusBadRequest, "invalid request body", err)
	}

	if req.CarID <= 0 || req.Preference == "" {
		return response.Message(c, fiber.StatusBadRequest, "missing carId or preference")
	}

	if err := h.uc.RecordFeedback(c.Context(), req.CarID, req.Preference); err != nil {
		if errors.Is(err, usecase.ErrInvalidInput) {
			return response.Error(c, fiber.StatusBadRequest, "invalid carId or preference", err)
		}
		return response.Error(c, fiber.StatusInternalServerError, "failed to record feedback", err)
	}

	return response.Message(c, fiber.StatusOK,
		fmt.Sprintf("feedback for car %d (%s) recorded successfully", req.CarID, req.Preference))
}
