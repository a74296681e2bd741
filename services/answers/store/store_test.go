// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/daleel-ai/daleel/services/answers/config"
)

func TestOpen_EmbeddedDefaults(t *testing.T) {
	ctx := context.Background()
	catalog, err := config.LoadDefaultCatalog(ctx)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	s, err := Open(ctx, "", catalog, nil)
	if err != nil {
		t.Fatalf("Open failed on embedded corpus: %v", err)
	}

	recs, ok := s.Records("الصلاة")
	if !ok || len(recs) == 0 {
		t.Fatal("expected records for الصلاة")
	}
	if _, ok := s.Records("غير موجود"); ok {
		t.Error("expected miss for unknown keyword")
	}
	if s.Len() == 0 {
		t.Error("expected non-zero record count")
	}
	// Every embedded keyword must exist in the default catalog; Open would
	// have failed otherwise. Spot check the corpus surface.
	for _, kw := range s.Keywords() {
		if _, ok := catalog.Keyword(kw); !ok {
			t.Errorf("corpus keyword %q missing from catalog", kw)
		}
	}
}

func TestOpen_RejectsUnknownKeyword(t *testing.T) {
	ctx := context.Background()
	catalog, err := config.LoadDefaultCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	bad := []byte(`
records:
  - keyword: البدعة
    intent: حكم
    answers: [نص]
`)
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), bad, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = Open(ctx, dir, catalog, nil)
	if !errors.Is(err, ErrUnknownKeyword) {
		t.Errorf("expected ErrUnknownKeyword, got %v", err)
	}
}

func TestOpen_RejectsUnknownIntent(t *testing.T) {
	ctx := context.Background()
	catalog, err := config.LoadDefaultCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	bad := []byte(`
records:
  - keyword: الصلاة
    intent: مجهول
    answers: [نص]
`)
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), bad, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err = Open(ctx, dir, catalog, nil)
	if !errors.Is(err, ErrUnknownIntent) {
		t.Errorf("expected ErrUnknownIntent, got %v", err)
	}
}

func TestReload_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	ctx := context.Background()
	catalog, err := config.LoadDefaultCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	good := []byte(`
records:
  - keyword: الصلاة
    intent: حكم
    answers: [الصلاة واجبة]
`)
	path := filepath.Join(dir, "records.yaml")
	if err := os.WriteFile(path, good, 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Open(ctx, dir, catalog, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}

	if err := os.WriteFile(path, []byte("records: [not valid"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(ctx, dir, catalog); err == nil {
		t.Fatal("expected reload failure on malformed YAML")
	}

	// The previous snapshot must still serve.
	if recs, ok := s.Records("الصلاة"); !ok || len(recs) != 1 {
		t.Error("expected previous snapshot to stay live after failed reload")
	}
}

func TestOpen_DirOverridesEmbedded(t *testing.T) {
	ctx := context.Background()
	catalog, err := config.LoadDefaultCatalog(ctx)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	override := []byte(`
records:
  - keyword: الحج
    intent: تعريف
    answers: [نص مخصص]
`)
	if err := os.WriteFile(filepath.Join(dir, "records.yaml"), override, 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Open(ctx, dir, catalog, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("expected the directory corpus only, got %d records", s.Len())
	}
	if _, ok := s.Records("الصلاة"); ok {
		t.Error("embedded records must not leak when a directory corpus exists")
	}
}
