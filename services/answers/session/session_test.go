// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"testing"
	"time"

	"github.com/daleel-ai/daleel/services/answers/engine"
)

func TestManager_PutGetClear(t *testing.T) {
	m := NewManager(time.Minute, nil)
	id := m.NewID()
	if id == "" {
		t.Fatal("expected a session id")
	}

	rc := &engine.ResolutionContext{Keyword: "الصلاة", Intent: "حكم"}
	m.Put(id, rc)

	got := m.Get(id)
	if got == nil || got.Keyword != "الصلاة" {
		t.Fatalf("expected stored context back, got %+v", got)
	}

	// The returned context is a copy, not shared state.
	got.Keyword = "الزكاة"
	if again := m.Get(id); again.Keyword != "الصلاة" {
		t.Error("stored context must not be mutable through the returned copy")
	}

	m.Clear(id)
	if m.Get(id) != nil {
		t.Error("expected nil after Clear")
	}
}

func TestManager_ZeroContextClearsSlot(t *testing.T) {
	m := NewManager(time.Minute, nil)
	id := m.NewID()
	m.Put(id, &engine.ResolutionContext{Keyword: "الصلاة"})
	m.Put(id, nil)
	if m.Get(id) != nil {
		t.Error("expected nil context to clear the slot")
	}
	if m.Len() != 0 {
		t.Errorf("expected empty manager, got %d", m.Len())
	}
}

func TestManager_Expiry(t *testing.T) {
	m := NewManager(time.Minute, nil)
	clock := time.Now()
	m.now = func() time.Time { return clock }

	id := m.NewID()
	m.Put(id, &engine.ResolutionContext{Keyword: "الصلاة"})

	clock = clock.Add(2 * time.Minute)
	if m.Get(id) != nil {
		t.Error("expected expired session to read as nil")
	}
}

func TestManager_SweepRemovesExpired(t *testing.T) {
	m := NewManager(time.Minute, nil)
	clock := time.Now()
	m.now = func() time.Time { return clock }

	m.Put("a", &engine.ResolutionContext{Keyword: "الصلاة"})
	clock = clock.Add(30 * time.Second)
	m.Put("b", &engine.ResolutionContext{Keyword: "الزكاة"})

	clock = clock.Add(45 * time.Second)
	m.sweep()

	if m.Get("a") != nil {
		t.Error("expected a expired")
	}
	if m.Get("b") == nil {
		t.Error("expected b still live")
	}
}

func TestManager_UnknownAndEmptyIDs(t *testing.T) {
	m := NewManager(time.Minute, nil)
	if m.Get("") != nil || m.Get("missing") != nil {
		t.Error("expected nil for empty and unknown ids")
	}
	m.Put("", &engine.ResolutionContext{Keyword: "الصلاة"})
	if m.Len() != 0 {
		t.Error("expected empty id writes ignored")
	}
}
