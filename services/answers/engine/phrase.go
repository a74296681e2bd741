// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Clitic prefixes that may attach to a matched phrase without breaking the
// whole-word boundary: the definite article «ال» and the conjunction «و»
// (also combined, as in «والصلاة»).
const (
	definiteArticle = "ال"
	conjunctionWaw  = "و"
)

// Phrase is a catalog phrase compiled once at load time for repeated
// whole-word containment tests. Go's RE2 engine has no lookaround, so the
// Unicode letter boundaries the match rules require are checked by inspecting
// the runes around each candidate substring hit instead of with a regex.
//
// Description:
//
//	Matching is case-insensitive and whole-word: the occurrence must not be
//	immediately preceded or followed by a letter. A leading definite article
//	on either the phrase or the text is treated as interchangeable with its
//	absence, and an attached conjunction «و» before the occurrence is
//	absorbed, so the pattern "صلاة" matches inside "الصلاة", "وصلاة", and
//	"والصلاة" but never inside a longer unrelated word.
//
// Thread Safety: Immutable after CompilePhrase; safe for concurrent use.
type Phrase struct {
	raw  string
	core string
}

// Span is a half-open byte range [Start, End) into the searched text. Start
// includes any absorbed clitic prefix; End excludes trailing text.
type Span struct {
	Start int
	End   int
}

// Len returns the byte length of the span.
func (s Span) Len() int { return s.End - s.Start }

// CompilePhrase normalizes and compiles a catalog phrase.
//
// Description:
//
//	Lowercases, trims, collapses internal whitespace, and strips a leading
//	definite article so that "الصلاة" and "صلاة" compile to the same core.
//	Call once per catalog phrase at load time (the engine's indexes do).
func CompilePhrase(raw string) Phrase {
	core := collapseSpace(strings.ToLower(strings.TrimSpace(raw)))
	core = strings.TrimPrefix(core, definiteArticle)
	return Phrase{raw: raw, core: core}
}

// Raw returns the original catalog spelling of the phrase.
func (p Phrase) Raw() string { return p.raw }

// Core returns the normalized article-stripped form used for matching.
func (p Phrase) Core() string { return p.core }

// Empty reports whether the phrase compiled to nothing matchable.
func (p Phrase) Empty() bool { return p.core == "" }

// MatchIn returns the first whole-word occurrence of the phrase in text.
// The text is expected to be normalized (lowercased, single-spaced) by the
// input normalizer; absence of a match is a normal false, never an error.
func (p Phrase) MatchIn(text string) (Span, bool) {
	return p.findFrom(text, 0)
}

// Matches reports whole-word containment of the phrase in text.
func (p Phrase) Matches(text string) bool {
	_, ok := p.findFrom(text, 0)
	return ok
}

// AllIn returns every non-overlapping whole-word occurrence, left to right.
func (p Phrase) AllIn(text string) []Span {
	var spans []Span
	from := 0
	for {
		span, ok := p.findFrom(text, from)
		if !ok {
			return spans
		}
		spans = append(spans, span)
		from = span.End
	}
}

// findFrom locates the first whole-word occurrence at or after byte offset
// from. Candidate substring hits are extended leftward over an attached
// article and conjunction before the boundary runes are checked.
func (p Phrase) findFrom(text string, from int) (Span, bool) {
	if p.core == "" || from > len(text) {
		return Span{}, false
	}
	for i := from; i <= len(text)-len(p.core); {
		rel := strings.Index(text[i:], p.core)
		if rel < 0 {
			return Span{}, false
		}
		start := i + rel
		end := start + len(p.core)

		s := start
		if strings.HasSuffix(text[:s], definiteArticle) {
			s -= len(definiteArticle)
		}
		if strings.HasSuffix(text[:s], conjunctionWaw) && boundaryBefore(text, s-len(conjunctionWaw)) {
			s -= len(conjunctionWaw)
		}

		if boundaryBefore(text, s) && boundaryAfter(text, end) {
			return Span{Start: s, End: end}, true
		}
		i = start + 1
	}
	return Span{}, false
}

// boundaryBefore reports whether position i is preceded by a non-letter.
func boundaryBefore(text string, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r)
}

// boundaryAfter reports whether position i is followed by a non-letter.
func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r)
}

// collapseSpace reduces any whitespace run to a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
