// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command daleel starts the Daleel answers API server.
//
// Daleel resolves Arabic religious-knowledge questions against a curated
// answer corpus:
//   - Intent and keyword extraction with whole-word Arabic matching
//   - Compound question splitting with per-segment answers
//   - Conversation context threading across turns
//   - Hot-reloaded YAML corpus with eager validation
//
// Usage:
//
//	go run ./cmd/daleel
//	go run ./cmd/daleel -port 9090 -debug
//	go run ./cmd/daleel -data-dir ./corpus -catalog-dir ./catalogs
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/health
//
//	# Ask a question
//	curl -X POST http://localhost:8080/v1/ask \
//	  -H "Content-Type: application/json" \
//	  -d '{"question": "ما حكم الصلاة في السفر؟"}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/daleel-ai/daleel/services/answers"
)

// keepAliveInterval is how often the optional keepalive pinger fires. Free
// hosting tiers idle the instance out after ~15 minutes of silence.
const keepAliveInterval = 10 * time.Minute

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	debug := flag.Bool("debug", false, "Enable debug mode")
	dataDir := flag.String("data-dir", "", "Answer corpus directory (empty = embedded corpus)")
	catalogDir := flag.String("catalog-dir", "", "Catalog override directory (empty = embedded catalogs)")
	trace := flag.Bool("trace", false, "Export OTel spans to stdout")
	keepAliveURL := flag.String("keepalive-url", "", "URL to ping periodically to keep the instance warm")
	rateLimit := flag.Float64("rate-limit", 10, "Per-client requests per second (0 disables)")
	flag.Parse()

	logger := setupLogger(*debug)
	slog.SetDefault(logger)

	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if *trace {
		shutdown, err := setupTracing()
		if err != nil {
			logger.Error("Failed to set up tracing", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer shutdown()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := answers.DefaultServiceConfig()
	cfg.DataDir = *dataDir
	cfg.CatalogDir = *catalogDir
	cfg.Logger = logger

	svc, err := answers.NewService(ctx, cfg)
	if err != nil {
		logger.Error("Failed to load service", slog.String("error", err.Error()))
		os.Exit(1)
	}
	handlers := answers.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("daleel-answers"))
	router.Use(answers.Metrics())
	if *rateLimit > 0 {
		router.Use(answers.RateLimiter(*rateLimit, 0))
	}
	if *debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	answers.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	printBanner(*port, *dataDir != "")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting Daleel answers server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down Daleel answers server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		err := svc.Sessions().Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := svc.WatchCorpus(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	if *keepAliveURL != "" {
		g.Go(func() error {
			keepAlive(gctx, *keepAliveURL, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupLogger builds the process logger: human-readable text on a terminal,
// JSON otherwise.
func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// setupTracing installs a stdout span exporter and returns its shutdown.
func setupTracing() (func(), error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("creating stdout exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			slog.Warn("Tracer shutdown failed", slog.String("error", err.Error()))
		}
	}, nil
}

// keepAlive pings the given URL until ctx is cancelled.
func keepAlive(ctx context.Context, url string, logger *slog.Logger) {
	client := &http.Client{Timeout: 30 * time.Second}
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				logger.Warn("Keepalive request build failed", slog.String("error", err.Error()))
				continue
			}
			resp, err := client.Do(req)
			if err != nil {
				logger.Warn("Keepalive ping failed", slog.String("error", err.Error()))
				continue
			}
			resp.Body.Close()
			logger.Debug("Keepalive ping", slog.Int("status", resp.StatusCode))
		}
	}
}

func printBanner(port int, customCorpus bool) {
	corpus := "embedded corpus"
	if customCorpus {
		corpus = "directory corpus (hot reload enabled)"
	}

	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                      DALEEL ANSWERS SERVER                        ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Arabic question resolution over a curated answer corpus.         ║
║  Corpus: %-56s ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/health                    │  ║
║  │                                                             │  ║
║  │ # Ask a question                                            │  ║
║  │ curl -X POST http://localhost:%d/v1/ask \             │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"question": "ما حكم الصلاة في السفر؟"}'              │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints: /v1/ask, /v1/health, /v1/ready, /metrics              ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, corpus, port, port)
}
