// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// resolveSplit handles compound questions: several intents, one intent over
// several keyword pairs, or one pair carrying both a sub-type and conditions.
//
// Description:
//
//	The question is partitioned into atomic segments aligned to intent
//	occurrences, each segment is resolved independently, and the per-segment
//	answers are aggregated into one SplitBundle. A segment that names no
//	keyword inherits the context of the previous segment, so «ما حكم الصلاة
//	وكيفية أدائها» resolves the second segment against الصلاة. A segment
//	whose match carries both a sub-type and conditions expands into one
//	sub-answer for the sub-type plus one per condition, because the stored
//	corpus keys answers by single (keyword, qualifier) pairs.
//
//	Answers to permissibility segments (the segment text contains «هل يجوز»)
//	are prefixed with the stored record's yes/no label when it has one.
//
// Outputs:
//
//	Result - The aggregated SplitBundle.
//	*ResolutionContext - Always nil; a delivered bundle leaves nothing
//	pending.
//	bool - False when no segment could be resolved at all, in which case the
//	caller falls back to the simple resolution path.
func (r *Resolver) resolveSplit(ctx context.Context, question string, intents []string) (Result, *ResolutionContext, bool) {
	_, span := resolverTracer.Start(ctx, "engine.Resolver.split")
	defer span.End()

	defaultIntent := IntentDefinition
	if len(intents) > 0 {
		defaultIntent = intents[0]
	}
	segments := SplitQuestion(question, r.intents.Positions(question), defaultIntent)
	if len(segments) == 0 {
		return nil, nil, false
	}

	var answers []SplitAnswer
	dedupe := make(map[string]bool)
	var inherited *ResolutionContext
	for _, seg := range segments {
		matches := FilterSubsumed(r.keywords.Extract(seg.Text))
		var m Match
		switch {
		case len(matches) > 0:
			m = pickPrimaryMatch(matches)
		case inherited != nil:
			m = Match{
				Keyword:    inherited.Keyword,
				Type:       inherited.Type,
				Conditions: inherited.Condition.Slice(),
				Place:      inherited.Place,
				MatchedBy:  MatchedByContext,
			}
		default:
			continue
		}
		inherited = &ResolutionContext{
			Keyword:   m.Keyword,
			Type:      m.Type,
			Condition: Many(m.Conditions),
			Place:     m.Place,
			Intent:    seg.Intent,
		}

		for _, sa := range r.expandSegment(seg, m) {
			key := strings.Join([]string{sa.Intent, sa.Keyword, sa.Type, sa.Condition.Signature(), sa.Place}, "|")
			if dedupe[key] {
				continue
			}
			dedupe[key] = true
			answers = append(answers, sa)
		}
	}

	if len(answers) == 0 {
		return nil, nil, false
	}
	splitSegmentCount.Observe(float64(len(answers)))
	span.SetAttributes(attribute.Int("answer_count", len(answers)))
	return SplitBundle{
		Ask:     "split",
		Message: msgSplitHeader,
		Answers: answers,
	}, nil, true
}

// expandSegment turns one segment match into its sub-answers. A match with
// both a sub-type and conditions yields the sub-type answer first, then one
// answer per condition; a plain match yields exactly one.
func (r *Resolver) expandSegment(seg Segment, m Match) []SplitAnswer {
	if m.Type != "" && len(m.Conditions) > 0 {
		out := make([]SplitAnswer, 0, 1+len(m.Conditions))
		out = append(out, r.splitAnswerFor(seg, m.Keyword, m.Type, Absent(), m.Place))
		for _, cond := range m.Conditions {
			out = append(out, r.splitAnswerFor(seg, m.Keyword, "", One(cond), m.Place))
		}
		return out
	}
	if len(m.Conditions) > 1 {
		out := make([]SplitAnswer, 0, len(m.Conditions))
		for _, cond := range m.Conditions {
			out = append(out, r.splitAnswerFor(seg, m.Keyword, m.Type, One(cond), m.Place))
		}
		return out
	}
	return []SplitAnswer{r.splitAnswerFor(seg, m.Keyword, m.Type, Many(m.Conditions), m.Place)}
}

// splitAnswerFor ranks one fully-specified sub-question and renders its
// bundle entry.
func (r *Resolver) splitAnswerFor(seg Segment, keyword, typ string, cond Value, place string) SplitAnswer {
	rec := r.lookupBest(keyword, RankQuery{
		Intent:    seg.Intent,
		Type:      typ,
		Condition: cond,
		Place:     place,
	})
	text := r.ranker.SelectAnswer(rec)
	if strings.Contains(seg.Text, permissiblePhrase) {
		switch rec.Label {
		case "نعم":
			text = labelYes + text
		case "لا":
			text = labelNo + text
		}
	}
	return SplitAnswer{
		Question:  renderSubQuestion(seg.Intent, keyword, typ, cond.String(), place),
		Intent:    seg.Intent,
		Keyword:   keyword,
		Type:      typ,
		Condition: cond,
		Place:     place,
		Answer:    text,
		Proof:     rec.Proof,
	}
}
