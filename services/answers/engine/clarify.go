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
	"sort"
	"strings"
)

// LooseHints scans text for keyword evidence WITHOUT whole-word boundary
// enforcement.
//
// Description:
//
//	The strict extractor refuses partial-token hits so that «الصلاة» never
//	fires inside an unrelated longer word. The missing-information ladder
//	runs only after strict extraction found nothing, and deliberately
//	loosens that rule: a surface form or qualifier pattern occurring as a
//	raw substring is kept as a hint, ranked by the authority of its source.
//	Hints are suggestions for a clarification prompt, never answers.
//
// Outputs:
//
//	[]Match - At most one hint per keyword, in catalog order. Position and
//	MatchedText carry no meaning on hints.
func (ix *KeywordIndex) LooseHints(text string) []Match {
	var hints []Match
	for _, ck := range ix.keywords {
		m := Match{Keyword: ck.def.Name}
		for i, p := range ck.surfaces {
			if p.Empty() || !strings.Contains(text, p.Core()) {
				continue
			}
			if i == 0 {
				m.MatchedBy = MatchedByKeyword
			} else {
				m.MatchedBy = MatchedByVariant
			}
			break
		}
		if m.MatchedBy == "" {
			switch {
			case looseGroupHit(text, ck.types):
				m.MatchedBy = MatchedByType
			case looseGroupHit(text, ck.conditions):
				m.MatchedBy = MatchedByCondition
			case looseGroupHit(text, ck.places):
				m.MatchedBy = MatchedByPlace
			default:
				continue
			}
		}
		hints = append(hints, m)
	}
	return hints
}

func looseGroupHit(text string, groups []compiledGroup) bool {
	for _, g := range groups {
		if !g.namePhrase.Empty() && strings.Contains(text, g.namePhrase.Core()) {
			return true
		}
		for _, p := range g.patPhrases {
			if strings.Contains(text, p.Core()) {
				return true
			}
		}
	}
	return false
}

// resolveMissing is the clarification ladder for questions where strict
// extraction produced no keyword and no stored context supplies one.
//
// Description:
//
//	The ladder, in order:
//
//	  1. The question names an intent ("حكم؟") but no subject: ask which
//	     keyword the intent applies to, keeping the intent in the pending
//	     context so the follow-up answer resolves directly.
//	  2. A stored context already carries an intent: same prompt.
//	  3. Neither: split into clauses and scan each one loosely. A single
//	     candidate keyword is adopted as the subject and resolution
//	     continues on the normal path; several candidates produce an
//	     explicit disambiguation prompt; none produce the generic
//	     not-understood prompt.
func (r *Resolver) resolveMissing(ctx context.Context, question string, prior *ResolutionContext) (Result, *ResolutionContext) {
	_, span := resolverTracer.Start(ctx, "engine.Resolver.missing")
	defer span.End()

	intents := r.intents.Extract(question)
	if len(intents) > 0 {
		next := prior.Clone()
		next.Intent = intents[0]
		msg := msgWhichKeywordFor(intents[0])
		if len(intents) > 1 {
			msg = msgWhichIntentOf(intents)
		}
		return Clarification{
			Ask:       AskKeyword,
			Message:   msg,
			Available: Availability{Intent: true, Context: true},
			Context:   next,
		}, next
	}
	if prior != nil && prior.Intent != "" {
		next := prior.Clone()
		return Clarification{
			Ask:       AskKeyword,
			Message:   msgWhichKeywordFor(prior.Intent),
			Available: Availability{Intent: true, Context: true},
			Context:   next,
		}, next
	}

	// Clause-by-clause loose scan. The most authoritative hint of each
	// clause becomes a candidate subject.
	var candidates []Match
	seen := make(map[string]bool)
	for _, clause := range splitClauses(question) {
		hints := r.keywords.LooseHints(clause)
		if len(hints) == 0 {
			continue
		}
		sort.SliceStable(hints, func(i, j int) bool {
			return hints[i].MatchedBy.authority() > hints[j].MatchedBy.authority()
		})
		if best := hints[0]; !seen[best.Keyword] {
			seen[best.Keyword] = true
			candidates = append(candidates, best)
		}
	}

	switch len(candidates) {
	case 0:
		r.logger.Debug("question not understood", slog.String("question", question))
		return Clarification{
			Ask:       AskClarify,
			Message:   msgNotUnderstood,
			Available: Availability{Context: !prior.IsZero()},
			Context:   prior.Clone(),
		}, prior
	case 1:
		rc := prior.Clone()
		rc.Keyword = candidates[0].Keyword
		if rc.Intent != "" {
			return r.answerFor(ctx, rc, false)
		}
		return r.askIntentOrAnswer(ctx, rc)
	default:
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Keyword
		}
		next := prior.Clone()
		return Clarification{
			Ask:       AskClarify,
			Message:   msgAmbiguousKeywords(question, names),
			Available: Availability{Context: true},
			Context:   next,
		}, next
	}
}
