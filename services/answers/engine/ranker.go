// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"math/rand"
	"sync"
)

// Ranking weights. Intent agreement dominates; qualifier agreements refine.
// The exact-match bonus rewards records that satisfy every requested field
// simultaneously, and the generic bonus keeps unqualified answers from being
// starved by over-specific ones when nothing specific was asked.
const (
	weightIntent    = 4.0
	weightType      = 2.0
	weightPlace     = 2.0
	weightCondition = 1.0
	bonusExact      = 3.0
	bonusGeneric    = 1.0
)

// LowConfidenceScore is attached to the sentinel result returned when no
// record scores above the floor.
const LowConfidenceScore = 0.6

// Selector picks one index out of n equivalent answer strings. Injected so
// tests are deterministic while production keeps uniform-random selection.
type Selector interface {
	Pick(n int) int
}

// FirstSelector always picks the first answer string. Used in tests and the
// CLI, where repeatable output matters.
type FirstSelector struct{}

// Pick returns 0 for any n.
func (FirstSelector) Pick(int) int { return 0 }

// RandomSelector picks uniformly at random. The production default.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSelector seeds a selector; pass a fixed seed for reproducibility.
func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewSource(seed))}
}

// Pick returns a uniform index in [0, n).
func (s *RandomSelector) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// RankQuery is the extracted context a record set is scored against.
type RankQuery struct {
	Intent    string
	Type      string
	Condition Value
	Place     string
}

// Ranker scores content-store records against an extracted context.
//
// Thread Safety: Safe for concurrent use; the only mutable state is the
// injected Selector, which synchronizes internally.
type Ranker struct {
	selector Selector
}

// NewRanker builds a ranker with the given selection strategy. A nil selector
// falls back to FirstSelector.
func NewRanker(selector Selector) *Ranker {
	if selector == nil {
		selector = FirstSelector{}
	}
	return &Ranker{selector: selector}
}

// Rank returns the highest-scoring record for the query, with deterministic
// tie-break (first record encountered in input order wins).
//
// Outputs:
//
//	AnswerRecord - The winning record; zero value when found is false.
//	float64 - The winning cumulative score.
//	bool - False when no record scores above the floor; callers must then
//	fall back to the sentinel "no precise answer" record (NoPreciseAnswer)
//	so there is always a renderable message.
func (r *Ranker) Rank(records []AnswerRecord, q RankQuery) (AnswerRecord, float64, bool) {
	var best AnswerRecord
	bestScore := 0.0
	found := false

	for _, rec := range records {
		score := r.score(rec, q)
		if !found && score > 0 || score > bestScore {
			best = rec
			bestScore = score
			found = true
		}
	}
	if !found {
		return AnswerRecord{}, 0, false
	}
	return best, bestScore, true
}

// score computes the additive match score of one record.
func (r *Ranker) score(rec AnswerRecord, q RankQuery) float64 {
	score := 0.0

	intentOK := q.Intent != "" && rec.Intent == q.Intent
	if intentOK {
		score += weightIntent
	}

	typeOK := q.Type != "" && rec.Type == q.Type
	if typeOK {
		score += weightType
	}

	placeOK := q.Place != "" && rec.Place.Contains(q.Place)
	if placeOK {
		score += weightPlace
	}

	condOverlap := q.Condition.Overlap(rec.Condition)
	score += weightCondition * float64(condOverlap)

	// Genuine complete match: every requested field agrees, including the
	// full condition set, and at least one qualifier was actually requested.
	qualified := q.Type != "" || q.Place != "" || !q.Condition.IsAbsent()
	if intentOK && qualified &&
		(q.Type == "" || typeOK) &&
		(q.Place == "" || placeOK) &&
		q.Condition.EqualSet(rec.Condition) {
		score += bonusExact
	}

	// Nothing specific requested: prefer records that also carry nothing
	// specific, so generic answers win over accidentally-matching narrow ones.
	if q.Type == "" && q.Condition.IsAbsent() && rec.Type == "" && rec.Condition.IsAbsent() {
		score += bonusGeneric
	}

	return score
}

// SelectAnswer picks one of the record's answer strings via the injected
// strategy.
func (r *Ranker) SelectAnswer(rec AnswerRecord) string {
	if len(rec.Answers) == 0 {
		return ""
	}
	idx := r.selector.Pick(len(rec.Answers))
	if idx < 0 || idx >= len(rec.Answers) {
		idx = 0
	}
	return rec.Answers[idx]
}

// NoPreciseAnswer is the sentinel record returned when ranking finds nothing
// above the floor, so callers always have a renderable message.
func NoPreciseAnswer(keyword string) AnswerRecord {
	return AnswerRecord{
		Keyword: keyword,
		Answers: []string{msgNoPreciseAnswer},
	}
}

// MissingAnswerRecord synthesizes a polite record for a keyword that resolved
// but has no content-store entry, so the conversation can continue instead of
// failing.
func MissingAnswerRecord(keyword string) AnswerRecord {
	return AnswerRecord{
		Keyword: keyword,
		Answers: []string{msgNoDetailedAnswer(keyword)},
	}
}
