package app

import (
	"fmt"
	"log"
	"strings"

	"car-finder/internal/config"
	"car-finder/internal/delivery/http/handler"
	"car-finder/internal/delivery/http/middleware"
	"car-finder/internal/delivery/http/routes"
	"car-finder/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the container, wires the HTTP surface and starts the ws
// hub. The returned cleanup closes the container.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	f.Use(middleware.NewAccessLogMiddleware(log.Default()).Middleware())
	f.Use(middleware.NewErrorMiddleware().Middleware())

	registry := routes.NewRegistry(
		handler.NewCarsHandler(c.Listings),
		handler.NewScrapeHandler(c.Orchestrator),
		handler.NewTrainHandler(c.Feedback),
		ws.NewHandler(c.Hub, log.Default()),
	)
	registry.Register(f)

	go c.Hub.Run()

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
