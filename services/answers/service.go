// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package answers is the question-answering service: it wires the catalogs,
// the answer corpus, the text normalizer, the resolution engine, and the
// session manager together and exposes them over HTTP.
package answers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/daleel-ai/daleel/services/answers/config"
	"github.com/daleel-ai/daleel/services/answers/engine"
	"github.com/daleel-ai/daleel/services/answers/nlp"
	"github.com/daleel-ai/daleel/services/answers/session"
	"github.com/daleel-ai/daleel/services/answers/store"
)

// ServiceConfig configures the answers service.
type ServiceConfig struct {
	// CatalogDir optionally overrides the embedded intent/keyword catalogs.
	CatalogDir string

	// DataDir optionally overrides the embedded answer corpus. When set it is
	// also the directory hot reloads watch.
	DataDir string

	// SessionTTL bounds how long a quiet conversation keeps its context.
	SessionTTL time.Duration

	// SelectorSeed seeds the answer-variant selector. Zero keeps the
	// deterministic first-answer selector; tests rely on that.
	SelectorSeed int64

	// Logger is the structured logger. Nil falls back to slog.Default().
	Logger *slog.Logger
}

// DefaultServiceConfig returns the production defaults: embedded catalogs and
// corpus, the default session TTL, and time-seeded answer selection.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		SessionTTL:   session.DefaultTTL,
		SelectorSeed: time.Now().UnixNano(),
	}
}

// Service owns the loaded resolution pipeline.
//
// Thread Safety: Safe for concurrent use after NewService.
type Service struct {
	catalog    *engine.Catalog
	store      *store.Store
	resolver   *engine.Resolver
	normalizer *nlp.Normalizer
	sessions   *session.Manager
	logger     *slog.Logger
	dataDir    string
}

// NewService loads catalogs and corpus and builds the resolver.
//
// Outputs:
//
//	*Service - Ready to serve. Never nil on success.
//	error - Non-nil when any catalog or corpus fails validation; the caller
//	should treat this as fatal at startup.
func NewService(ctx context.Context, cfg ServiceConfig) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	catalog, err := config.LoadCatalogDir(ctx, cfg.CatalogDir)
	if err != nil {
		return nil, fmt.Errorf("answers: loading catalogs: %w", err)
	}

	st, err := store.Open(ctx, cfg.DataDir, catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("answers: loading corpus: %w", err)
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if cfg.SelectorSeed != 0 {
		opts = append(opts, engine.WithSelector(engine.NewRandomSelector(cfg.SelectorSeed)))
	}

	return &Service{
		catalog:    catalog,
		store:      st,
		resolver:   engine.NewResolver(catalog, st, opts...),
		normalizer: nlp.NewNormalizer(nlp.BuildVocab(catalog)),
		sessions:   session.NewManager(cfg.SessionTTL, logger),
		logger:     logger,
		dataDir:    cfg.DataDir,
	}, nil
}

// Ask resolves one question within a session.
//
// Description:
//
//	Normalizes the question, merges the caller-provided context with the
//	session's pending context (an explicit context wins), resolves, and
//	stores whatever context the engine wants threaded into the next turn.
//	An empty sessionID mints a new session so the caller can continue the
//	conversation.
//
// Outputs:
//
//	engine.Result - The resolution outcome. Never nil.
//	string - The session ID to use on the next turn.
func (s *Service) Ask(ctx context.Context, question, sessionID string, explicit *engine.ResolutionContext) (engine.Result, string) {
	if sessionID == "" {
		sessionID = s.sessions.NewID()
	}

	prior := explicit
	if prior.IsZero() {
		prior = s.sessions.Get(sessionID)
	}

	prepared := s.normalizer.Prepare(question)
	result, next := s.resolver.Resolve(ctx, prepared, prior)
	s.sessions.Put(sessionID, next)
	return result, sessionID
}

// Sessions exposes the session manager for lifecycle wiring (the janitor
// goroutine runs under the caller's errgroup).
func (s *Service) Sessions() *session.Manager { return s.sessions }

// WatchCorpus blocks, hot-reloading the corpus on file changes. A no-op
// error is returned when no data directory was configured.
func (s *Service) WatchCorpus(ctx context.Context) error {
	if s.dataDir == "" {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.store.Watch(ctx, s.dataDir, s.catalog)
}

// Ready reports whether the service can answer: catalogs compiled and at
// least one record loaded.
func (s *Service) Ready() bool {
	return s.store.Len() > 0
}

// CorpusSize returns the number of loaded answer records.
func (s *Service) CorpusSize() int { return s.store.Len() }

// Catalog returns the loaded catalog (read-only).
func (s *Service) Catalog() *engine.Catalog { return s.catalog }
