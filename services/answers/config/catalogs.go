// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads and validates the intent and keyword catalogs the
// engine is built from. Defaults are embedded in the binary; a catalog
// directory may override either file. All validation happens eagerly at load
// time so a malformed catalog fails startup instead of a request.
package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/daleel-ai/daleel/services/answers/engine"
)

var catalogTracer = otel.Tracer("daleel.answers.config")

// =============================================================================
// Embedded Default Catalogs
// =============================================================================

//go:embed intents.yaml
var defaultIntentsYAML []byte

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// MaxCatalogFileSize bounds a single catalog file.
const MaxCatalogFileSize = 5 * 1024 * 1024

// IntentsFileName and KeywordsFileName are the expected file names inside a
// catalog override directory.
const (
	IntentsFileName  = "intents.yaml"
	KeywordsFileName = "keywords.yaml"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func catalogValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

type intentsFile struct {
	Intents []engine.Intent `yaml:"intents" validate:"min=1,dive"`
}

type keywordsFile struct {
	Keywords []engine.KeywordDefinition `yaml:"keywords" validate:"min=1,dive"`
}

// LoadCatalog parses and validates catalog YAML into an engine.Catalog.
//
// Description:
//
//	Parses both files, runs struct validation, and then performs the
//	cross-entry checks the struct tags cannot express: unique intent names,
//	unique keyword names, and unique qualifier group names within each
//	keyword. Catalog order is preserved exactly as written, because the
//	engine's first-match-wins rules depend on it.
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//	intentsYAML - Raw intents catalog.
//	keywordsYAML - Raw keywords catalog.
//
// Outputs:
//
//	*engine.Catalog - The validated catalog. Never nil on success.
//	error - Non-nil on parse or validation failure.
func LoadCatalog(ctx context.Context, intentsYAML, keywordsYAML []byte) (*engine.Catalog, error) {
	_, span := catalogTracer.Start(ctx, "config.LoadCatalog")
	defer span.End()

	if len(intentsYAML) == 0 || len(keywordsYAML) == 0 {
		return nil, fmt.Errorf("LoadCatalog: empty catalog data")
	}
	if len(intentsYAML) > MaxCatalogFileSize || len(keywordsYAML) > MaxCatalogFileSize {
		return nil, fmt.Errorf("LoadCatalog: catalog file exceeds maximum size %d", MaxCatalogFileSize)
	}

	var intents intentsFile
	if err := yaml.Unmarshal(intentsYAML, &intents); err != nil {
		return nil, fmt.Errorf("LoadCatalog: parsing intents: %w", err)
	}
	var keywords keywordsFile
	if err := yaml.Unmarshal(keywordsYAML, &keywords); err != nil {
		return nil, fmt.Errorf("LoadCatalog: parsing keywords: %w", err)
	}

	v := catalogValidator()
	if err := v.Struct(intents); err != nil {
		return nil, fmt.Errorf("LoadCatalog: intents validation: %w", err)
	}
	if err := v.Struct(keywords); err != nil {
		return nil, fmt.Errorf("LoadCatalog: keywords validation: %w", err)
	}

	if err := checkUniqueness(intents.Intents, keywords.Keywords); err != nil {
		return nil, fmt.Errorf("LoadCatalog: %w", err)
	}

	span.SetAttributes(
		attribute.Int("intent_count", len(intents.Intents)),
		attribute.Int("keyword_count", len(keywords.Keywords)),
	)
	return &engine.Catalog{
		Intents:  intents.Intents,
		Keywords: keywords.Keywords,
	}, nil
}

// checkUniqueness enforces the name constraints struct tags cannot express.
func checkUniqueness(intents []engine.Intent, keywords []engine.KeywordDefinition) error {
	seenIntent := make(map[string]bool, len(intents))
	for _, in := range intents {
		if seenIntent[in.Name] {
			return fmt.Errorf("duplicate intent %q", in.Name)
		}
		seenIntent[in.Name] = true
	}

	seenKeyword := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if seenKeyword[kw.Name] {
			return fmt.Errorf("duplicate keyword %q", kw.Name)
		}
		seenKeyword[kw.Name] = true

		for table, groups := range map[string][]engine.PatternGroup{
			"types":      kw.Types,
			"conditions": kw.Conditions,
			"places":     kw.Places,
		} {
			seenGroup := make(map[string]bool, len(groups))
			for _, g := range groups {
				if seenGroup[g.Name] {
					return fmt.Errorf("keyword %q: duplicate %s group %q", kw.Name, table, g.Name)
				}
				seenGroup[g.Name] = true
			}
		}
	}
	return nil
}

// LoadDefaultCatalog loads the catalogs embedded in the binary.
func LoadDefaultCatalog(ctx context.Context) (*engine.Catalog, error) {
	return LoadCatalog(ctx, defaultIntentsYAML, defaultKeywordsYAML)
}

// LoadCatalogDir loads catalogs from a directory, falling back to the
// embedded default for any file the directory does not provide.
//
// Inputs:
//
//	ctx - Context for tracing.
//	dir - Directory expected to contain intents.yaml and/or keywords.yaml.
//	Empty means use the embedded defaults only.
func LoadCatalogDir(ctx context.Context, dir string) (*engine.Catalog, error) {
	intentsYAML := defaultIntentsYAML
	keywordsYAML := defaultKeywordsYAML

	if dir != "" {
		var err error
		if intentsYAML, err = readOverride(filepath.Join(dir, IntentsFileName), defaultIntentsYAML); err != nil {
			return nil, fmt.Errorf("LoadCatalogDir: %w", err)
		}
		if keywordsYAML, err = readOverride(filepath.Join(dir, KeywordsFileName), defaultKeywordsYAML); err != nil {
			return nil, fmt.Errorf("LoadCatalogDir: %w", err)
		}
	}
	return LoadCatalog(ctx, intentsYAML, keywordsYAML)
}

// readOverride returns the file contents, or fallback when the file does not
// exist. Any other read error is fatal.
func readOverride(path string, fallback []byte) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
