// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/daleel-ai/daleel/services/answers/config"
	"github.com/daleel-ai/daleel/services/answers/nlp"
	"github.com/daleel-ai/daleel/services/answers/store"
)

// vocabOutPath holds the --out flag value for the vocab command.
var vocabOutPath string

func runVocabCommand(_ *cobra.Command, _ []string) {
	catalog, err := config.LoadCatalogDir(context.Background(), catalogDir)
	if err != nil {
		log.Fatalf("Failed to load catalogs: %v", err)
	}

	vocab := nlp.BuildVocab(catalog)
	out, err := json.MarshalIndent(vocab, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode vocabulary: %v", err)
	}
	out = append(out, '\n')

	if vocabOutPath != "" {
		if err := os.WriteFile(vocabOutPath, out, 0o644); err != nil {
			log.Fatalf("Failed to write vocabulary: %v", err)
		}
		fmt.Printf("Wrote %d words to %s\n", len(vocab), vocabOutPath)
		return
	}
	fmt.Print(string(out))
}

func runValidateCommand(_ *cobra.Command, _ []string) {
	ctx := context.Background()

	catalog, err := config.LoadCatalogDir(ctx, catalogDir)
	if err != nil {
		log.Fatalf("Catalog validation failed: %v", err)
	}
	fmt.Printf("Catalogs OK: %d intents, %d keywords\n", len(catalog.Intents), len(catalog.Keywords))

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	st, err := store.Open(ctx, dataDir, catalog, logger)
	if err != nil {
		log.Fatalf("Corpus validation failed: %v", err)
	}
	fmt.Printf("Corpus OK: %d records across %d keywords\n", st.Len(), len(st.Keywords()))
}
