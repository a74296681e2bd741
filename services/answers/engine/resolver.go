// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var resolverTracer = otel.Tracer("daleel.answers.engine")

// ContentStore is the read-only answer corpus the resolver ranks against.
//
// Thread Safety: Implementations must be safe for concurrent reads.
type ContentStore interface {
	// Records returns the stored answer records for a canonical keyword.
	// ok is false when the keyword has no content-store entry; the resolver
	// then synthesizes a polite fallback instead of failing.
	Records(keyword string) (records []AnswerRecord, ok bool)
}

// Resolver is the question-resolution orchestrator. It sequences extraction,
// sub-match filtering, splitting, ranking, and the missing-information
// ladder into exactly one of five resolution outcomes per call.
//
// Thread Safety: Safe for concurrent use. All catalog state is immutable
// after construction; per-call state lives on the stack.
type Resolver struct {
	catalog  *Catalog
	intents  *IntentIndex
	keywords *KeywordIndex
	store    ContentStore
	ranker   *Ranker
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithSelector sets the answer selection strategy. Defaults to FirstSelector
// so callers that never configure one stay deterministic.
func WithSelector(s Selector) Option {
	return func(r *Resolver) { r.ranker = NewRanker(s) }
}

// NewResolver builds a resolver over the loaded catalogs and content store.
func NewResolver(catalog *Catalog, store ContentStore, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:  catalog,
		intents:  NewIntentIndex(catalog.Intents),
		keywords: NewKeywordIndex(catalog.Keywords),
		store:    store,
		ranker:   NewRanker(FirstSelector{}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve answers one question.
//
// Description:
//
//	Runs the per-request state machine:
//
//	  - no keyword, no stored context        → clarification
//	  - no keyword, stored context exists    → inherit wholesale, simple path
//	  - no intent, several keyword pairs     → definition bundle
//	  - one intent + several pairs, or
//	    several intents                      → split into sub-questions
//	  - one pair carrying both a type and
//	    conditions                           → split (expand per value)
//	  - one intent, one unambiguous pair     → rank and answer
//	  - keyword known, intent unknown        → ask for the intent
//
// Inputs:
//
//	ctx - Context for tracing. Must not be nil.
//	question - Normalized question text (the input normalizer's output).
//	prior - Pending conversation context from a previous call, or nil.
//
// Outputs:
//
//	Result - Exactly one answer- or clarification-shaped outcome. Never nil.
//	*ResolutionContext - The context to thread into the next call of the
//	same conversation: the pending partial context after a clarification,
//	the completed context after a single answer (so intent-only follow-ups
//	can inherit it), or nil after a bundle.
//
// Thread Safety: Safe for concurrent use.
func (r *Resolver) Resolve(ctx context.Context, question string, prior *ResolutionContext) (Result, *ResolutionContext) {
	start := time.Now()
	ctx, span := resolverTracer.Start(ctx, "engine.Resolver.Resolve")
	defer span.End()

	question = collapseSpace(strings.ToLower(strings.TrimSpace(question)))

	intents := r.intents.Extract(question)
	matches := FilterSubsumed(r.keywords.Extract(question))
	pairs := PairCount(matches)

	span.SetAttributes(
		attribute.Int("intent_count", len(intents)),
		attribute.Int("keyword_pair_count", pairs),
		attribute.Bool("has_prior_context", !prior.IsZero()),
	)

	result, next := r.decide(ctx, question, intents, matches, pairs, prior)

	resolutionsTotal.WithLabelValues(result.Kind()).Inc()
	resolutionLatency.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.String("outcome", result.Kind()))

	r.logger.Debug("question resolved",
		slog.String("outcome", result.Kind()),
		slog.Int("intents", len(intents)),
		slog.Int("pairs", pairs),
	)
	return result, next
}

// decide runs the state machine once extraction is done.
func (r *Resolver) decide(ctx context.Context, question string, intents []string, matches []Match, pairs int, prior *ResolutionContext) (Result, *ResolutionContext) {
	if len(matches) == 0 {
		if prior != nil && prior.Keyword != "" {
			// Inherit the stored keyword context wholesale and continue as a
			// simple question.
			matches = []Match{{
				Keyword:    prior.Keyword,
				Type:       prior.Type,
				Conditions: prior.Condition.Slice(),
				Place:      prior.Place,
				MatchedBy:  MatchedByContext,
			}}
			pairs = 1
		} else {
			return r.resolveMissing(ctx, question, prior)
		}
	}

	// A bare multi-keyword question, or one asked explicitly under the
	// definition intent, yields one definition per keyword.
	if pairs > 1 && (len(intents) == 0 || (len(intents) == 1 && intents[0] == IntentDefinition)) {
		return r.definitionBundle(ctx, matches), nil
	}

	if (len(intents) == 1 && pairs > 1) || len(intents) > 1 {
		if res, next, ok := r.resolveSplit(ctx, question, intents); ok {
			return res, next
		}
	}

	// A single pair carrying both a sub-type and conditions is still a
	// compound question: expand it per value.
	if len(matches) == 1 && matches[0].Type != "" && len(matches[0].Conditions) > 0 {
		if res, next, ok := r.resolveSplit(ctx, question, intents); ok {
			return res, next
		}
	}

	best := pickPrimaryMatch(matches)
	resolved := &ResolutionContext{
		Keyword:   best.Keyword,
		Type:      best.Type,
		Condition: Many(best.Conditions),
		Place:     best.Place,
	}
	if prior != nil {
		if resolved.Type == "" {
			resolved.Type = prior.Type
		}
		if resolved.Condition.IsAbsent() {
			resolved.Condition = prior.Condition
		}
		if resolved.Place == "" {
			resolved.Place = prior.Place
		}
	}

	if len(intents) > 0 {
		resolved.Intent = intents[0]
	} else if prior != nil {
		resolved.Intent = prior.Intent
	}

	if resolved.Intent == "" {
		return r.askIntentOrAnswer(ctx, resolved)
	}
	return r.answerFor(ctx, resolved, strings.Contains(question, permissiblePhrase))
}

// pickPrimaryMatch chooses the match a simple question is about: the
// explicitly-named keyword closest to the start of the text, falling back to
// the first detected match.
func pickPrimaryMatch(matches []Match) Match {
	best := matches[0]
	bestPos := -1
	for _, m := range matches {
		if m.MatchedBy != MatchedByKeyword && m.MatchedBy != MatchedByVariant && m.MatchedBy != MatchedByContext {
			continue
		}
		if bestPos < 0 || m.Position < bestPos {
			best = m
			bestPos = m.Position
		}
	}
	return best
}

// answerFor ranks the content store against a fully-specified context and
// builds the direct answer. When permissible is true (the question contains
// «هل يجوز») the winning record's yes/no label prefixes the answer text.
// Recovered failure modes: a keyword with no content-store entry gets a
// synthesized polite record at full confidence; a ranking miss gets the
// sentinel record at low confidence.
func (r *Resolver) answerFor(ctx context.Context, rc *ResolutionContext, permissible bool) (Result, *ResolutionContext) {
	_, span := resolverTracer.Start(ctx, "engine.Resolver.answer")
	defer span.End()

	records, ok := r.store.Records(rc.Keyword)
	if !ok || len(records) == 0 {
		r.logger.Warn("keyword has no content-store entry",
			slog.String("keyword", rc.Keyword))
		rec := MissingAnswerRecord(rc.Keyword)
		return Answer{
			Intent:    rc.Intent,
			Keyword:   rc.Keyword,
			Type:      rc.Type,
			Condition: rc.Condition,
			Place:     rc.Place,
			Answer:    r.ranker.SelectAnswer(rec),
			Score:     1,
		}, rc
	}

	rec, score, found := r.ranker.Rank(records, RankQuery{
		Intent:    rc.Intent,
		Type:      rc.Type,
		Condition: rc.Condition,
		Place:     rc.Place,
	})
	if !found {
		span.SetAttributes(attribute.Bool("low_confidence", true))
		return Answer{
			Intent:    rc.Intent,
			Keyword:   rc.Keyword,
			Type:      rc.Type,
			Condition: rc.Condition,
			Place:     rc.Place,
			Answer:    msgUnavailable,
			Score:     LowConfidenceScore,
		}, rc
	}

	rankScores.Observe(score)
	text := r.ranker.SelectAnswer(rec)
	if permissible {
		switch rec.Label {
		case "نعم":
			text = labelYes + text
		case "لا":
			text = labelNo + text
		}
	}
	return Answer{
		Intent:    rc.Intent,
		Keyword:   rc.Keyword,
		Type:      rc.Type,
		Condition: rc.Condition,
		Place:     rc.Place,
		Answer:    text,
		Proof:     rec.Proof,
		Score:     1,
	}, rc
}

// askIntentOrAnswer handles "keyword known, intent unknown". When the stored
// corpus has exactly one intent for the keyword there is nothing to ask;
// otherwise the partial context is returned for the caller to continue the
// disambiguation.
func (r *Resolver) askIntentOrAnswer(ctx context.Context, rc *ResolutionContext) (Result, *ResolutionContext) {
	records, ok := r.store.Records(rc.Keyword)
	if ok {
		stored := distinctIntents(records)
		if len(stored) == 1 {
			rc.Intent = stored[0]
			return r.answerFor(ctx, rc, false)
		}
		if len(stored) > 1 {
			return Clarification{
				Ask:       AskIntent,
				Message:   msgSeveralIntentsStored(rc.Keyword, stored),
				Available: Availability{Keyword: true, Context: true},
				Context:   rc,
			}, rc
		}
	}
	return Clarification{
		Ask:       AskIntent,
		Message:   msgWhichIntent(subjectWithType(rc.Keyword, rc.Type)),
		Available: Availability{Keyword: true, Context: true},
		Context:   rc,
	}, rc
}

// definitionBundle resolves each keyword independently under the fixed
// definition intent.
func (r *Resolver) definitionBundle(ctx context.Context, matches []Match) Result {
	_, span := resolverTracer.Start(ctx, "engine.Resolver.definitions")
	defer span.End()

	seen := make(map[string]bool, len(matches))
	var defs []Definition
	for _, m := range matches {
		if seen[m.Keyword] {
			continue
		}
		seen[m.Keyword] = true

		rec := r.lookupBest(m.Keyword, RankQuery{Intent: IntentDefinition, Type: m.Type})
		defs = append(defs, Definition{
			Keyword: m.Keyword,
			Intent:  IntentDefinition,
			Type:    m.Type,
			Answer:  r.ranker.SelectAnswer(rec),
			Ref:     rec.Proof,
		})
	}
	span.SetAttributes(attribute.Int("definition_count", len(defs)))
	return DefinitionBundle{Definitions: defs, Score: 1}
}

// lookupBest ranks a keyword's records and always returns a renderable
// record, synthesizing fallbacks for missing entries and ranking misses.
func (r *Resolver) lookupBest(keyword string, q RankQuery) AnswerRecord {
	records, ok := r.store.Records(keyword)
	if !ok || len(records) == 0 {
		return MissingAnswerRecord(keyword)
	}
	rec, score, found := r.ranker.Rank(records, q)
	if !found {
		return NoPreciseAnswer(keyword)
	}
	rankScores.Observe(score)
	return rec
}

// distinctIntents lists the intents present in a record set, in record order.
func distinctIntents(records []AnswerRecord) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, rec := range records {
		if rec.Intent == "" || seen[rec.Intent] {
			continue
		}
		seen[rec.Intent] = true
		out = append(out, rec.Intent)
	}
	return out
}
