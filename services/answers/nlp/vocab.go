// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package nlp

import (
	"sort"
	"strings"

	"github.com/daleel-ai/daleel/services/answers/engine"
)

// BuildVocab collects every word the catalogs can match into a sorted,
// deduplicated vocabulary.
//
// Description:
//
//	Tokenizes keyword names, variants, qualifier group names and patterns,
//	and intent names and trigger phrases. Multi-word phrases contribute
//	their individual words; everything passes through Normalize first so the
//	vocabulary and the normalized question text live in the same space.
func BuildVocab(catalog *engine.Catalog) []string {
	set := make(map[string]bool)
	add := func(text string) {
		for _, w := range strings.Fields(Normalize(text)) {
			if !isArabicWord(w) {
				continue
			}
			set[w] = true
		}
	}

	for _, in := range catalog.Intents {
		add(in.Name)
		for _, p := range in.Patterns {
			add(p)
		}
	}
	for _, kw := range catalog.Keywords {
		add(kw.Name)
		for _, v := range kw.Variants {
			add(v)
		}
		for _, groups := range [][]engine.PatternGroup{kw.Types, kw.Conditions, kw.Places} {
			for _, g := range groups {
				add(g.Name)
				for _, p := range g.Patterns {
					add(p)
				}
			}
		}
	}

	vocab := make([]string, 0, len(set))
	for w := range set {
		vocab = append(vocab, w)
	}
	sort.Strings(vocab)
	return vocab
}

// isArabicWord keeps only tokens made of Arabic letters, dropping digits and
// stray latin fragments from the vocabulary.
func isArabicWord(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if (r < 0x0621 || r > 0x063A) && (r < 0x0641 || r > 0x064A) {
			return false
		}
	}
	return true
}
