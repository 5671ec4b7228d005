package routes

import (
	"car-finder/internal/delivery/http/handler"
	"car-finder/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry wires every handler onto the app. The core endpoints live under
// /api to match the frontend proxy; health and the ws stream sit at the root.
type Registry struct {
	health *handler.HealthHandler
	cars   *handler.CarsHandler
	scrape *handler.ScrapeHandler
	train  *handler.TrainHandler
	runsWS *ws.Handler
}

func NewRegistry(cars *handler.CarsHandler, scrape *handler.ScrapeHandler, train *handler.TrainHandler, runsWS *ws.Handler) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(),
		cars:   cars,
		scrape: scrape,
		train:  train,
		runsWS: runsWS,
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	if r.cars != nil {
		r.cars.RegisterRoutes(api)
	}
	if r.scrape != nil {
		r.scrape.RegisterRoutes(api)
	}
	if r.train != nil {
		r.train.RegisterRoutes(api)
	}

	if r.runsWS != nil {
		app.Get("/ws/runs", r.runsWS.HandleRunsWS)
	}
}
