// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine implements the question-resolution engine: intent and
// keyword-context extraction with whole-word Arabic phrase matching, compound
// question splitting with intent inheritance, answer ranking, and the
// orchestrating state machine that turns a raw question plus an optional
// pending conversation context into exactly one of five resolution outcomes.
//
// The engine is pure per call: catalogs and the content store are read-only
// after construction, and the pending conversation context is threaded
// explicitly through Resolve rather than held in package state.
package engine

// Well-known intent names. The catalogs may define more; these two have
// special roles in the state machine (definition is the fallback intent for
// unlabeled segments, ruling drives the yes/no label prefix).
const (
	IntentDefinition = "تعريف"
	IntentRuling     = "حكم"
)

// Intent is one entry of the intent catalog: a named answer category with the
// trigger phrases that signal it.
//
// Immutable after load.
type Intent struct {
	// Name is the canonical intent identifier (e.g. "حكم").
	Name string `yaml:"name" json:"name" validate:"required"`

	// Patterns are the whole-phrase triggers for this intent.
	Patterns []string `yaml:"patterns" json:"patterns" validate:"min=1,dive,required"`
}

// PatternGroup is a named sub-classification (type, condition, or place) with
// its trigger patterns. Declaration order is significant: type and place
// resolution are first-match-wins in catalog order, so groups are lists, not
// maps.
type PatternGroup struct {
	// Name is the canonical group identifier used in answer records.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Patterns are whole-phrase triggers. For types the group name itself is
	// also matched (and preferred over patterns); conditions and places match
	// patterns only.
	Patterns []string `yaml:"patterns" json:"patterns" validate:"dive,required"`
}

// KeywordDefinition is one entry of the keyword catalog: a canonical subject
// with its surface variants and per-keyword qualifier tables.
//
// Immutable after load.
type KeywordDefinition struct {
	// Name is the canonical keyword identifier used everywhere downstream.
	Name string `yaml:"name" json:"name" validate:"required"`

	// Variants are alternate surface forms treated as equivalent to Name.
	Variants []string `yaml:"variants,omitempty" json:"variants,omitempty" validate:"dive,required"`

	// Types are mutually exclusive sub-kinds; at most one resolves per match.
	Types []PatternGroup `yaml:"types,omitempty" json:"types,omitempty" validate:"dive"`

	// Conditions are non-exclusive qualifiers; every satisfied one is kept.
	Conditions []PatternGroup `yaml:"conditions,omitempty" json:"conditions,omitempty" validate:"dive"`

	// Places are locational qualifiers; at most one resolves per match.
	Places []PatternGroup `yaml:"places,omitempty" json:"places,omitempty" validate:"dive"`

	// Label is an optional display label for the keyword.
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Catalog bundles the two load-once catalogs. Order is preserved from the
// source files and drives every first-match-wins rule in the engine.
type Catalog struct {
	Intents  []Intent
	Keywords []KeywordDefinition
}

// Keyword returns the definition for a canonical name, if present.
func (c *Catalog) Keyword(name string) (KeywordDefinition, bool) {
	for _, kw := range c.Keywords {
		if kw.Name == name {
			return kw, true
		}
	}
	return KeywordDefinition{}, false
}

// KeywordNames returns the canonical keyword names in catalog order.
func (c *Catalog) KeywordNames() []string {
	names := make([]string, len(c.Keywords))
	for i, kw := range c.Keywords {
		names[i] = kw.Name
	}
	return names
}

// MatchSource says which catalog entry produced a keyword match. Sources are
// ordered by authority: an explicit keyword mention outranks a variant, which
// outranks inference from a type, condition, or place pattern alone.
type MatchSource string

const (
	MatchedByKeyword   MatchSource = "keyword"
	MatchedByVariant   MatchSource = "variant"
	MatchedByType      MatchSource = "type"
	MatchedByCondition MatchSource = "condition"
	MatchedByPlace     MatchSource = "place"
	// MatchedByContext marks a match inherited from a stored conversation
	// context rather than extracted from the question text.
	MatchedByContext MatchSource = "context"
)

// authority ranks sources for the missing-information ladder. Higher wins.
func (s MatchSource) authority() int {
	switch s {
	case MatchedByKeyword, MatchedByContext:
		return 4
	case MatchedByVariant:
		return 3
	case MatchedByType:
		return 2
	default:
		return 1
	}
}

// Match is one transient keyword extraction result for a single question.
// Produced per request and discarded after resolution.
type Match struct {
	// Keyword is the canonical keyword name.
	Keyword string

	// MatchedText is the surface form that actually occurred (the canonical
	// name, or one of the variants; empty for weak fallback matches).
	MatchedText string

	// MatchedBy records which table produced the match.
	MatchedBy MatchSource

	// Type is the resolved sub-type, at most one.
	Type string

	// Conditions are all satisfied condition names, in catalog order.
	Conditions []string

	// Place is the resolved place, at most one.
	Place string

	// Position is the byte offset of the matched phrase in the question, or 0
	// for fallback matches with no surface occurrence.
	Position int
}

// AnswerRecord is one stored answer, keyed by keyword into the content store.
//
// Immutable content.
type AnswerRecord struct {
	// Keyword must name a known KeywordDefinition; records for unknown
	// keywords are a configuration error at load time.
	Keyword string `yaml:"keyword" json:"keyword" validate:"required"`

	// Intent is the answer category this record serves.
	Intent string `yaml:"intent" json:"intent" validate:"required"`

	// Type narrows the record to one sub-type, optional.
	Type string `yaml:"type,omitempty" json:"type,omitempty"`

	// Condition narrows the record to one or more conditions, optional.
	Condition Value `yaml:"condition,omitempty" json:"condition,omitempty"`

	// Place narrows the record to one or more places, optional.
	Place Value `yaml:"place,omitempty" json:"place,omitempty"`

	// Answers holds one or more equivalent answer texts; one is selected per
	// response through the injected Selector.
	Answers []string `yaml:"answers" json:"answers" validate:"min=1,dive,required"`

	// Proof holds supporting citation strings.
	Proof []string `yaml:"proof,omitempty" json:"proof,omitempty"`

	// Label is an optional yes/no marker ("نعم"/"لا") used to prefix answers
	// to permissibility questions.
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// IntentPosition is one located intent occurrence, used for splitting.
type IntentPosition struct {
	// Index is the byte offset of the occurrence (including any absorbed
	// conjunction or article prefix).
	Index int

	// Length is the byte length of the occurrence.
	Length int

	// Intent is the catalog intent name.
	Intent string

	// Pattern is the trigger phrase that matched.
	Pattern string
}

// Segment is one atomic sub-question produced by the splitter. After the
// inheritance pass every segment carries a non-empty intent.
type Segment struct {
	Text   string
	Intent string
}

// ResolutionContext is "what we know so far" for one conversation. It is
// created per request from the extraction results merged with the caller's
// prior context, returned alongside every result, and must be passed back
// verbatim to continue a pending clarification. It is never stored in package
// state.
type ResolutionContext struct {
	Keyword   string `json:"keyword,omitempty"`
	Type      string `json:"type,omitempty"`
	Condition Value  `json:"condition,omitempty"`
	Place     string `json:"place,omitempty"`
	Intent    string `json:"intent,omitempty"`
}

// IsZero reports whether the context carries no information.
func (c *ResolutionContext) IsZero() bool {
	return c == nil || (c.Keyword == "" && c.Type == "" && c.Condition.IsAbsent() && c.Place == "" && c.Intent == "")
}

// Clone returns a copy, never nil.
func (c *ResolutionContext) Clone() *ResolutionContext {
	if c == nil {
		return &ResolutionContext{}
	}
	cp := *c
	return &cp
}
