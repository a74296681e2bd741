// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "sort"

// IntentIndex holds the intent catalog with every trigger phrase compiled
// once at construction.
//
// Thread Safety: Immutable after NewIntentIndex; safe for concurrent use.
type IntentIndex struct {
	intents []Intent
	phrases [][]Phrase
}

// NewIntentIndex compiles the intent catalog. Catalog order is preserved and
// drives the order of Extract results.
func NewIntentIndex(intents []Intent) *IntentIndex {
	ix := &IntentIndex{
		intents: intents,
		phrases: make([][]Phrase, len(intents)),
	}
	for i, intent := range intents {
		compiled := make([]Phrase, 0, len(intent.Patterns))
		for _, pat := range intent.Patterns {
			p := CompilePhrase(pat)
			if !p.Empty() {
				compiled = append(compiled, p)
			}
		}
		ix.phrases[i] = compiled
	}
	return ix
}

// Names returns the catalog intent names in order.
func (ix *IntentIndex) Names() []string {
	names := make([]string, len(ix.intents))
	for i, intent := range ix.intents {
		names[i] = intent.Name
	}
	return names
}

// Extract returns every intent with at least one trigger phrase present in
// the text, in catalog order (not text order). Each intent appears at most
// once.
func (ix *IntentIndex) Extract(text string) []string {
	var found []string
	for i, intent := range ix.intents {
		for _, p := range ix.phrases[i] {
			if p.Matches(text) {
				found = append(found, intent.Name)
				break
			}
		}
	}
	return found
}

// Positions returns every intent occurrence with its location, for the
// splitter.
//
// Description:
//
//	All occurrences of all trigger phrases are collected and sorted by start
//	position (stable by catalog arrival order on ties). A greedy pass then
//	discards any occurrence beginning before the previous accepted
//	occurrence's end, so the earliest-arriving match claims its span of text
//	regardless of length.
func (ix *IntentIndex) Positions(text string) []IntentPosition {
	var positions []IntentPosition
	for i, intent := range ix.intents {
		for _, p := range ix.phrases[i] {
			for _, span := range p.AllIn(text) {
				positions = append(positions, IntentPosition{
					Index:   span.Start,
					Length:  span.Len(),
					Intent:  intent.Name,
					Pattern: p.Raw(),
				})
			}
		}
	}

	sort.SliceStable(positions, func(a, b int) bool {
		return positions[a].Index < positions[b].Index
	})

	filtered := positions[:0]
	lastEnd := -1
	for _, pos := range positions {
		if pos.Index >= lastEnd {
			filtered = append(filtered, pos)
			lastEnd = pos.Index + pos.Length
		}
	}
	return filtered
}
