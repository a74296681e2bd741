// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session keeps the per-conversation pending resolution context
// between requests. Each session holds at most one context slot with a TTL;
// a conversation that goes quiet simply expires.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daleel-ai/daleel/services/answers/engine"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 15 * time.Minute

// janitorInterval is how often expired sessions are swept.
const janitorInterval = time.Minute

type entry struct {
	rc       *engine.ResolutionContext
	deadline time.Time
}

// Manager stores pending contexts by session ID.
//
// Thread Safety: Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	ttl    time.Duration
	byID   map[string]entry
	logger *slog.Logger
	now    func() time.Time
}

// NewManager builds a session manager. A non-positive ttl falls back to
// DefaultTTL; a nil logger falls back to slog.Default().
func NewManager(ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		ttl:    ttl,
		byID:   make(map[string]entry),
		logger: logger,
		now:    time.Now,
	}
}

// NewID mints a fresh session identifier.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Get returns the pending context for a session, or nil when the session is
// unknown or expired. Reading refreshes the TTL.
func (m *Manager) Get(id string) *engine.ResolutionContext {
	if id == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byID[id]
	if !ok {
		return nil
	}
	if m.now().After(e.deadline) {
		delete(m.byID, id)
		return nil
	}
	e.deadline = m.now().Add(m.ttl)
	m.byID[id] = e
	return e.rc.Clone()
}

// Put stores the pending context for a session. A nil or empty context
// clears the slot instead.
func (m *Manager) Put(id string, rc *engine.ResolutionContext) {
	if id == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if rc.IsZero() {
		delete(m.byID, id)
		return
	}
	m.byID[id] = entry{rc: rc.Clone(), deadline: m.now().Add(m.ttl)}
}

// Clear drops a session's slot.
func (m *Manager) Clear(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// Len returns the live session count, expired entries included until swept.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// Run sweeps expired sessions until ctx is cancelled. Meant to run in its
// own goroutine alongside the server.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Manager) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.byID {
		if now.After(e.deadline) {
			delete(m.byID, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("swept expired sessions", slog.Int("removed", removed))
	}
}
