// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store holds the answer corpus the engine ranks against. Records are
// loaded from YAML, validated against the loaded catalogs at startup, and
// served from an immutable snapshot that hot reloads swap atomically.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/daleel-ai/daleel/services/answers/engine"
)

var storeTracer = otel.Tracer("daleel.answers.store")

//go:embed data/*.yaml
var defaultData embed.FS

// ErrUnknownKeyword marks a record whose keyword is not in the keyword
// catalog. This is a configuration error: it fails loading, never a request.
var ErrUnknownKeyword = errors.New("answer record references unknown keyword")

// ErrUnknownIntent marks a record whose intent is not in the intent catalog.
var ErrUnknownIntent = errors.New("answer record references unknown intent")

var recordValidate = validator.New()

type recordsFile struct {
	Records []engine.AnswerRecord `yaml:"records" validate:"min=1,dive"`
}

// Store is the validated answer corpus.
//
// Thread Safety: Safe for concurrent use. Reads go through an atomic
// snapshot; Reload swaps the whole snapshot, so in-flight resolutions keep a
// consistent view.
type Store struct {
	snapshot atomic.Value // map[string][]engine.AnswerRecord
	logger   *slog.Logger
}

// Open loads the corpus and validates every record against the catalogs.
//
// Description:
//
//	When dir is non-empty and contains YAML files they form the corpus;
//	otherwise the records embedded in the binary are used. Every record's
//	keyword and intent must exist in the catalogs, and validation failure
//	aborts the load, so a misconfigured corpus can never serve.
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//	dir - Optional records directory. Empty means embedded defaults.
//	catalog - The loaded catalogs to validate against. Must not be nil.
//	logger - Structured logger. Nil falls back to slog.Default().
//
// Outputs:
//
//	*Store - The loaded store. Never nil on success.
//	error - Non-nil on read, parse, or validation failure.
func Open(ctx context.Context, dir string, catalog *engine.Catalog, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{logger: logger}
	if err := s.Reload(ctx, dir, catalog); err != nil {
		return nil, err
	}
	return s, nil
}

// Records implements engine.ContentStore.
func (s *Store) Records(keyword string) ([]engine.AnswerRecord, bool) {
	snap := s.snapshot.Load().(map[string][]engine.AnswerRecord)
	recs, ok := snap[keyword]
	return recs, ok
}

// Keywords returns the keywords with at least one record, sorted.
func (s *Store) Keywords() []string {
	snap := s.snapshot.Load().(map[string][]engine.AnswerRecord)
	out := make([]string, 0, len(snap))
	for k := range snap {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Len returns the total record count.
func (s *Store) Len() int {
	snap := s.snapshot.Load().(map[string][]engine.AnswerRecord)
	n := 0
	for _, recs := range snap {
		n += len(recs)
	}
	return n
}

// Reload rebuilds the snapshot from dir (or the embedded defaults) and swaps
// it in atomically. On failure the previous snapshot stays live.
func (s *Store) Reload(ctx context.Context, dir string, catalog *engine.Catalog) error {
	_, span := storeTracer.Start(ctx, "store.Reload")
	defer span.End()

	files, err := corpusFiles(dir)
	if err != nil {
		return fmt.Errorf("store: listing corpus: %w", err)
	}

	byKeyword := make(map[string][]engine.AnswerRecord)
	total := 0
	for _, f := range files {
		recs, err := parseRecords(f.data)
		if err != nil {
			return fmt.Errorf("store: %s: %w", f.name, err)
		}
		for _, rec := range recs {
			if err := checkRecord(rec, catalog); err != nil {
				return fmt.Errorf("store: %s: %w", f.name, err)
			}
			byKeyword[rec.Keyword] = append(byKeyword[rec.Keyword], rec)
			total++
		}
	}

	s.snapshot.Store(byKeyword)
	recordCount.Set(float64(total))
	reloadsTotal.Inc()

	span.SetAttributes(
		attribute.Int("record_count", total),
		attribute.Int("keyword_count", len(byKeyword)),
	)
	s.logger.Info("answer corpus loaded",
		slog.Int("records", total),
		slog.Int("keywords", len(byKeyword)),
	)
	return nil
}

type corpusFile struct {
	name string
	data []byte
}

// corpusFiles lists the YAML files forming the corpus: dir's files when dir
// holds any, the embedded defaults otherwise. Sorted by name so load order
// (and with it record order within a keyword) is deterministic.
func corpusFiles(dir string) ([]corpusFile, error) {
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		var files []corpusFile
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			files = append(files, corpusFile{name: e.Name(), data: data})
		}
		if len(files) > 0 {
			sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
			return files, nil
		}
	}

	var files []corpusFile
	err := fs.WalkDir(defaultData, "data", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := defaultData.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, corpusFile{name: path, data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}

func parseRecords(data []byte) ([]engine.AnswerRecord, error) {
	var f recordsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	if err := recordValidate.Struct(f); err != nil {
		return nil, fmt.Errorf("validating records: %w", err)
	}
	return f.Records, nil
}

// checkRecord enforces referential integrity against the catalogs.
func checkRecord(rec engine.AnswerRecord, catalog *engine.Catalog) error {
	if _, ok := catalog.Keyword(rec.Keyword); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKeyword, rec.Keyword)
	}
	for _, in := range catalog.Intents {
		if in.Name == rec.Intent {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (keyword %q)", ErrUnknownIntent, rec.Intent, rec.Keyword)
}
