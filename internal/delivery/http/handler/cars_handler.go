package handler

import (
	"car-finder/internal/delivery/http/dto"
	"car-finder/internal/delivery/http/middleware"
	"car-finder/internal/pkg/response"
	"car-finder/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CarsHandler struct {
	uc usecase.ListingUsecase
}

func NewCarsHandler(uc usecase.ListingUsecase) *CarsHandler {
	return &CarsHandler{uc: uc}
}

func (h *CarsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/cars", h.HandleListCars)
}

func (h *CarsHandler) HandleListCars(c fiber.Ctx) error {
	cars, err := h.uc.ListCars(c.Context())
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, "failed to load cars", err)
	}

	out := make([]dto.CarResponse, 0, len(cars))
	for _, car := range cars {
		out = append(out, dto.CarResponseFrom(car))
	}
	return response.JSON(c, fiber.StatusOK, out)
}
