package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"car-finder/internal/analysis"
	"car-finder/internal/config"
	"car-finder/internal/database"
	dbpostgres "car-finder/internal/database/postgres"
	"car-finder/internal/digest"
	"car-finder/internal/domain"
	"car-finder/internal/infrastructure/cache"
	"car-finder/internal/pipeline"
	"car-finder/internal/repository"
	"car-finder/internal/scraper"
	"car-finder/internal/usecase"
	"car-finder/internal/ws"
)

type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Orchestrator *pipeline.Orchestrator
	Listings     usecase.ListingUsecase
	Feedback     usecase.FeedbackUsecase
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	listingRepo := repository.NewPostgresListingRepository(db)
	if err := listingRepo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	feedbackRepo := repository.NewPostgresFeedbackRepository(db)

	redisCache := cache.NewRedis(logger)

	extractor := buildExtractor(cfg.Scraper, logger)

	strategy, err := buildStrategy(ctx, cfg.Analysis)
	if err != nil {
		_ = db.Close()
		_ = redisCache.Close()
		return nil, err
	}

	hub := ws.NewHub(logger)

	orchestrator := pipeline.NewOrchestrator(pipeline.Deps{
		Extractor: extractor,
		Listings:  listingRepo,
		Analyzer:  analysis.NewFanOut(cfg.Analysis.Workers, cfg.Analysis.CallTimeout, logger),
		Strategy:  analysis.WithCache(strategy, redisCache),
		Sink:      buildSink(cfg.Digest, logger),
		Recipient: cfg.Digest.Recipient,
		Notify: func(status domain.RunStatus) {
			ws.NotifyRun(hub, status)
		},
		Logger: logger,
	})

	return &Container{
		Config:       cfg,
		DB:           db,
		Cache:        redisCache,
		Hub:          hub,
		Orchestrator: orchestrator,
		Listings:     usecase.NewListingUsecase(listingRepo),
		Feedback:     usecase.NewFeedbackUsecase(feedbackRepo, listingRepo),
	}, nil
}

func buildExtractor(cfg config.ScraperConfig, logger *log.Logger) scraper.Extractor {
	if strings.EqualFold(cfg.Mode, "static") {
		return scraper.NewStaticExtractor(cfg.SourceURL, logger)
	}
	return scraper.NewDynamicExtractor(cfg.SourceURL, cfg.WaitTimeout, cfg.SnapshotDir, logger)
}

func buildStrategy(ctx context.Context, cfg config.AnalysisConfig) (analysis.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Strategy)) {
	case "", "gemini":
		return analysis.NewGeminiStrategy(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "ollama":
		return analysis.NewOllamaStrategy(cfg.OllamaEndpoint, cfg.OllamaModel), nil
	default:
		return nil, fmt.Errorf("unknown analysis strategy %q", cfg.Strategy)
	}
}

func buildSink(cfg config.DigestConfig, logger *log.Logger) digest.Sink {
	if strings.EqualFold(cfg.Sink, "smtp") && cfg.SMTPHost != "" {
		return digest.NewSMTPSink(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}
	return digest.NewConsoleSink(logger)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
