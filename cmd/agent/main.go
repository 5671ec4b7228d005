package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"car-finder/internal/app"
	"car-finder/internal/config"
	"car-finder/internal/domain"
)

// One-shot agent: runs a single extract → store → analyze → digest pass and
// exits. The server exposes the same pipeline over HTTP.
func main() {
	model := flag.String("model", "", "analysis strategy (gemini or ollama); overrides ANALYSIS_STRATEGY")
	recipient := flag.String("recipient", "", "digest recipient; overrides DIGEST_RECIPIENT")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	if v := strings.TrimSpace(*model); v != "" {
		os.Setenv("ANALYSIS_STRATEGY", v)
	}
	if v := strings.TrimSpace(*recipient); v != "" {
		os.Setenv("DIGEST_RECIPIENT", v)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	status, err := c.Orchestrator.RunOnce(ctx)
	if err != nil {
		log.Fatalf("run aborted: %v", err)
	}
	if status.Phase == domain.RunFailed {
		log.Fatalf("run failed: %s", status.Message)
	}
	log.Printf("run finished: %s", status.Message)
}
