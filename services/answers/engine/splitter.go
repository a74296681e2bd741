// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// waConnective splits on the conjunction «و» when it stands alone between
// words. An attached waw (as in «والزكاة») is not a split point; the phrase
// matcher absorbs those as clitic prefixes instead.
var waConnective = regexp.MustCompile(`(?:^|\s)و\s+`)

// clauseBreaks are the punctuation marks the missing-information ladder
// splits a question on before scanning clause by clause.
var clauseBreaks = regexp.MustCompile(`[،؛.؟!]+`)

// clauseConnectives are standalone connective words that also break clauses.
var clauseConnectives = map[string]bool{
	"ثم":  true,
	"أو":  true,
	"لكن": true,
	"بعد": true,
	"قبل": true,
	"و":   true,
}

// SplitQuestion partitions a compound question into ordered atomic segments
// aligned to intent occurrences, then assigns an intent to every segment.
//
// Description:
//
//	Walks intent occurrences in position order. Text strictly before the
//	first occurrence becomes a leading unlabeled segment; each occurrence
//	through to the next occurrence's start carries that occurrence's intent;
//	a non-empty tail after the last occurrence is unlabeled. Every raw
//	segment is further split on the standalone connective «و», preserving the
//	parent segment's intent. A final left-to-right pass makes intents total:
//	an unlabeled segment inherits the most recent intent seen so far, or
//	defaultIntent when none has been seen yet.
//
// Inputs:
//
//	question - Normalized question text.
//	positions - Located intent occurrences from IntentIndex.Positions.
//	defaultIntent - Intent for segments preceding every occurrence. Must be
//	non-empty; the caller passes the first detected intent, or the
//	definition intent when the question carries none.
//
// Outputs:
//
//	[]Segment - Ordered atomic sub-questions, each with a non-empty intent.
func SplitQuestion(question string, positions []IntentPosition, defaultIntent string) []Segment {
	var segments []Segment
	push := func(chunk, intent string) {
		for _, part := range splitOnWa(chunk) {
			segments = append(segments, Segment{Text: part, Intent: intent})
		}
	}

	cursor := 0
	for i, pos := range positions {
		if pos.Index > cursor {
			push(question[cursor:pos.Index], "")
		}
		end := len(question)
		if i+1 < len(positions) {
			end = positions[i+1].Index
		}
		push(question[pos.Index:end], pos.Intent)
		cursor = end
	}
	if cursor < len(question) {
		push(question[cursor:], "")
	}

	// Inheritance pass: every segment ends up with exactly one intent.
	last := ""
	for i := range segments {
		switch {
		case segments[i].Intent != "":
			last = segments[i].Intent
		case last != "":
			segments[i].Intent = last
		default:
			segments[i].Intent = defaultIntent
			last = defaultIntent
		}
	}
	return segments
}

// splitOnWa splits a chunk at standalone «و» connectives, trimming and
// dropping empty parts.
func splitOnWa(chunk string) []string {
	var parts []string
	for _, p := range waConnective.Split(chunk, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// splitClauses breaks a question into clauses at punctuation and standalone
// connective words, dropping fragments too short to carry a subject. Used by
// the missing-information ladder to scan clause by clause.
func splitClauses(text string) []string {
	var clauses []string
	for _, chunk := range clauseBreaks.Split(text, -1) {
		words := strings.Fields(chunk)
		var current []string
		flush := func() {
			clause := strings.Join(current, " ")
			if utf8.RuneCountInString(clause) > 2 {
				clauses = append(clauses, clause)
			}
			current = current[:0]
		}
		for _, w := range words {
			if clauseConnectives[w] {
				flush()
				continue
			}
			current = append(current, w)
		}
		flush()
	}
	return clauses
}
