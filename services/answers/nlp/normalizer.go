// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package nlp prepares raw question text for the engine: diacritic and
// tatweel stripping, whitespace collapsing, and vocabulary-guided recovery of
// near-miss tokens. The engine's matchers assume this normalization has run.
package nlp

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Normalizer cleans question text against a fixed vocabulary.
//
// Thread Safety: Immutable after NewNormalizer; safe for concurrent use.
type Normalizer struct {
	vocab    []string
	vocabSet map[string]bool
}

// NewNormalizer builds a normalizer over the catalog vocabulary. An empty
// vocabulary disables token recovery but keeps text normalization.
func NewNormalizer(vocab []string) *Normalizer {
	set := make(map[string]bool, len(vocab))
	for _, w := range vocab {
		set[w] = true
	}
	return &Normalizer{vocab: vocab, vocabSet: set}
}

// Normalize strips Arabic diacritics and the tatweel, lowercases, and
// collapses whitespace. Punctuation is kept; the engine's clause splitting
// depends on it.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isDiacritic(r) || r == tatweel {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

const tatweel = 'ـ'

// isDiacritic reports the Arabic combining mark ranges the corpus strips.
func isDiacritic(r rune) bool {
	switch {
	case r >= 0x0610 && r <= 0x061A:
		return true
	case r >= 0x064B && r <= 0x065F:
		return true
	case r >= 0x06D6 && r <= 0x06ED:
		return true
	}
	return false
}

// Prepare normalizes the text and then recovers near-miss tokens against the
// vocabulary. This is the single entry point request handling uses.
func (n *Normalizer) Prepare(s string) string {
	return n.RecoverTokens(Normalize(s))
}

// RecoverTokens replaces tokens that are not vocabulary words with their
// closest vocabulary match, when one is close enough to trust.
//
// Description:
//
//	Tokens already in the vocabulary, tokens shorter than three runes, and
//	tokens with no sufficiently close candidate pass through unchanged. The
//	candidate must rank first in the fuzzy search and differ in length by at
//	most two runes, which recovers elided-letter misspellings without
//	rewriting unrelated words.
func (n *Normalizer) RecoverTokens(s string) string {
	if len(n.vocab) == 0 {
		return s
	}
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		if n.vocabSet[tok] || utf8.RuneCountInString(tok) < 3 {
			continue
		}
		if fixed, ok := n.recover(tok); ok {
			tokens[i] = fixed
		}
	}
	return strings.Join(tokens, " ")
}

func (n *Normalizer) recover(tok string) (string, bool) {
	matches := fuzzy.Find(tok, n.vocab)
	if len(matches) == 0 {
		return "", false
	}
	best := n.vocab[matches[0].Index]
	diff := utf8.RuneCountInString(best) - utf8.RuneCountInString(tok)
	if diff < 0 {
		diff = -diff
	}
	if diff > 2 {
		return "", false
	}
	return best, true
}
