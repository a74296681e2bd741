// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// compiledGroup is a PatternGroup with its phrases compiled. The group name
// itself is compiled separately because sub-type resolution prefers a match
// against the name over a match against one of its patterns.
type compiledGroup struct {
	name       string
	namePhrase Phrase
	patPhrases []Phrase
}

// compiledKeyword is one keyword definition with every surface form and
// qualifier pattern compiled.
type compiledKeyword struct {
	def        KeywordDefinition
	surfaces   []Phrase // canonical name first, then variants, original order
	types      []compiledGroup
	conditions []compiledGroup
	places     []compiledGroup
}

// KeywordIndex holds the keyword catalog with all patterns compiled once.
//
// Thread Safety: Immutable after NewKeywordIndex; safe for concurrent use.
type KeywordIndex struct {
	keywords []compiledKeyword
}

// NewKeywordIndex compiles the keyword catalog. Declaration order of
// keywords, types, conditions, and places is preserved; every first-match
// rule in extraction depends on it.
func NewKeywordIndex(keywords []KeywordDefinition) *KeywordIndex {
	ix := &KeywordIndex{keywords: make([]compiledKeyword, 0, len(keywords))}
	for _, def := range keywords {
		ck := compiledKeyword{def: def}
		ck.surfaces = append(ck.surfaces, CompilePhrase(def.Name))
		for _, v := range def.Variants {
			ck.surfaces = append(ck.surfaces, CompilePhrase(v))
		}
		ck.types = compileGroups(def.Types)
		ck.conditions = compileGroups(def.Conditions)
		ck.places = compileGroups(def.Places)
		ix.keywords = append(ix.keywords, ck)
	}
	return ix
}

func compileGroups(groups []PatternGroup) []compiledGroup {
	out := make([]compiledGroup, 0, len(groups))
	for _, g := range groups {
		cg := compiledGroup{name: g.Name, namePhrase: CompilePhrase(g.Name)}
		for _, pat := range g.Patterns {
			p := CompilePhrase(pat)
			if !p.Empty() {
				cg.patPhrases = append(cg.patPhrases, p)
			}
		}
		out = append(out, cg)
	}
	return out
}

// Extract finds every keyword mentioned in the text, with its resolved
// qualifier context.
//
// Description:
//
//	For each keyword definition, the longest of {canonical name, variants}
//	present as a whole phrase wins; if none is present but one of the
//	keyword's type/condition/place patterns occurs, a weaker fallback match
//	is still emitted so context can be inferred from qualifiers alone.
//
//	Sub-type resolution prefers a match against the sub-type's own name over
//	a match against one of its patterns: the first type (declaration order)
//	whose name matches wins outright and search stops; otherwise the first
//	pattern-only hit is kept. Conditions accumulate (every satisfied one is
//	recorded); place resolution is first-match-wins like type.
//
// Inputs:
//
//	text - Normalized question text (lowercased, single-spaced).
//
// Outputs:
//
//	[]Match - One match per detected keyword, in catalog order. Run the
//	result through FilterSubsumed before counting keyword pairs.
func (ix *KeywordIndex) Extract(text string) []Match {
	var matches []Match
	for _, ck := range ix.keywords {
		m, ok := ck.match(text)
		if ok {
			matches = append(matches, m)
		}
	}
	return matches
}

// match resolves one keyword definition against the text.
func (ck *compiledKeyword) match(text string) (Match, bool) {
	m := Match{Keyword: ck.def.Name}

	// Longest surface form wins; ties keep the earlier-declared form.
	bestLen := -1
	for i, p := range ck.surfaces {
		span, ok := p.MatchIn(text)
		if !ok {
			continue
		}
		if len(p.Core()) > bestLen {
			bestLen = len(p.Core())
			m.MatchedText = p.Raw()
			m.Position = span.Start
			if i == 0 {
				m.MatchedBy = MatchedByKeyword
			} else {
				m.MatchedBy = MatchedByVariant
			}
		}
	}

	// Sub-type: name match beats pattern match, first name match wins outright.
	var patternType string
	for _, g := range ck.types {
		if g.namePhrase.Matches(text) {
			m.Type = g.name
			patternType = ""
			break
		}
		if patternType == "" {
			for _, p := range g.patPhrases {
				if p.Matches(text) {
					patternType = g.name
					break
				}
			}
		}
	}
	if m.Type == "" {
		m.Type = patternType
	}

	for _, g := range ck.conditions {
		for _, p := range g.patPhrases {
			if p.Matches(text) {
				m.Conditions = append(m.Conditions, g.name)
				break
			}
		}
	}

	for _, g := range ck.places {
		for _, p := range g.patPhrases {
			if p.Matches(text) {
				m.Place = g.name
				break
			}
		}
		if m.Place != "" {
			break
		}
	}

	if m.MatchedBy != "" {
		return m, true
	}

	// No surface occurrence: keep a weak fallback match when a qualifier
	// pattern fired, so downstream can still infer the subject.
	switch {
	case m.Type != "":
		m.MatchedBy = MatchedByType
	case len(m.Conditions) > 0:
		m.MatchedBy = MatchedByCondition
	case m.Place != "":
		m.MatchedBy = MatchedByPlace
	default:
		return Match{}, false
	}
	return m, true
}

// FilterSubsumed removes keyword matches that are strictly subsumed by a more
// authoritative match over the exact same phrase.
//
// Description:
//
//	When one keyword's variant textually equals another keyword's canonical
//	name, both definitions match the same span. The match whose keyword IS
//	the matched text (canonical-name match) wins and the synonym collision is
//	dropped. When neither side is canonical over the shared text, the
//	earliest-declared match is kept (stable by detection order).
func FilterSubsumed(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for i, m := range matches {
		subsumed := false
		for j, o := range matches {
			if i == j || o.MatchedText == "" || o.MatchedText != m.MatchedText {
				continue
			}
			if o.Keyword == o.MatchedText {
				if m.Keyword != m.MatchedText {
					subsumed = true
					break
				}
			} else if j < i {
				subsumed = true
				break
			}
		}
		if !subsumed {
			out = append(out, m)
		}
	}
	return out
}

// PairCount counts distinct (keyword, condition-signature) combinations, the
// multiplicity measure the state machine branches on. A match with several
// conditions contributes one pair per condition, matching the way stored
// answers are keyed.
func PairCount(matches []Match) int {
	pairs := make(map[string]bool)
	for _, m := range matches {
		if len(m.Conditions) == 0 {
			pairs[m.Keyword+"::_"] = true
			continue
		}
		for _, c := range m.Conditions {
			pairs[m.Keyword+"::"+c] = true
		}
	}
	return len(pairs)
}
