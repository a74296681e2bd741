// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultCatalog(t *testing.T) {
	cat, err := LoadDefaultCatalog(context.Background())
	if err != nil {
		t.Fatalf("LoadDefaultCatalog failed on embedded YAML: %v", err)
	}

	if len(cat.Intents) == 0 {
		t.Fatal("expected embedded intents")
	}
	if cat.Intents[0].Name != "حكم" {
		t.Errorf("expected حكم first in catalog order, got %q", cat.Intents[0].Name)
	}
	if len(cat.Keywords) == 0 {
		t.Fatal("expected embedded keywords")
	}
	if _, ok := cat.Keyword("الصلاة"); !ok {
		t.Error("expected الصلاة in the default keyword catalog")
	}
}

func TestLoadCatalog_Validation_MissingName(t *testing.T) {
	intents := []byte(`
intents:
  - name: ""
    patterns: [x]
`)
	_, err := LoadCatalog(context.Background(), intents, defaultKeywordsYAML)
	if err == nil {
		t.Fatal("expected validation error for empty intent name")
	}
}

func TestLoadCatalog_Validation_EmptyPatterns(t *testing.T) {
	intents := []byte(`
intents:
  - name: حكم
    patterns: []
`)
	_, err := LoadCatalog(context.Background(), intents, defaultKeywordsYAML)
	if err == nil {
		t.Fatal("expected validation error for empty pattern list")
	}
}

func TestLoadCatalog_DuplicateIntent(t *testing.T) {
	intents := []byte(`
intents:
  - name: حكم
    patterns: [ما حكم]
  - name: حكم
    patterns: [هل يجوز]
`)
	_, err := LoadCatalog(context.Background(), intents, defaultKeywordsYAML)
	if err == nil {
		t.Fatal("expected duplicate intent error")
	}
}

func TestLoadCatalog_DuplicateQualifierGroup(t *testing.T) {
	keywords := []byte(`
keywords:
  - name: الصلاة
    conditions:
      - name: السفر
        patterns: [في السفر]
      - name: السفر
        patterns: [مسافر]
`)
	_, err := LoadCatalog(context.Background(), defaultIntentsYAML, keywords)
	if err == nil {
		t.Fatal("expected duplicate condition group error")
	}
}

func TestLoadCatalogDir_OverridesAndFallback(t *testing.T) {
	dir := t.TempDir()
	override := []byte(`
intents:
  - name: سؤال
    patterns: [لماذا]
`)
	if err := os.WriteFile(filepath.Join(dir, IntentsFileName), override, 0o600); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadCatalogDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadCatalogDir failed: %v", err)
	}
	if len(cat.Intents) != 1 || cat.Intents[0].Name != "سؤال" {
		t.Errorf("expected the override intents, got %+v", cat.Intents)
	}
	// keywords.yaml absent in the directory: embedded default applies.
	if _, ok := cat.Keyword("الصلاة"); !ok {
		t.Error("expected embedded keyword fallback")
	}
}

func TestLoadCatalogDir_EmptyDirUsesDefaults(t *testing.T) {
	cat, err := LoadCatalogDir(context.Background(), "")
	if err != nil {
		t.Fatalf("LoadCatalogDir(\"\") failed: %v", err)
	}
	if len(cat.Intents) == 0 || len(cat.Keywords) == 0 {
		t.Error("expected embedded defaults")
	}
}
