// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

// Result is the outcome of one Resolve call: a direct answer, a definition
// bundle, a split bundle, or a clarification request. Every path terminates
// in one of these shapes; clarifications are ordinary values, never errors.
type Result interface {
	// Kind returns a stable outcome label ("answer", "definitions", "split",
	// "clarify:keyword", ...) used for logging and metrics.
	Kind() string
}

// Answer is a direct or inherited single answer.
type Answer struct {
	Intent    string   `json:"intent"`
	Keyword   string   `json:"keyword"`
	Type      string   `json:"type,omitempty"`
	Condition Value    `json:"condition,omitempty"`
	Place     string   `json:"place,omitempty"`
	Answer    string   `json:"answer"`
	Proof     []string `json:"proof,omitempty"`
	Score     float64  `json:"score"`
}

// Kind implements Result.
func (Answer) Kind() string { return "answer" }

// Definition is one entry of a definition bundle.
type Definition struct {
	Keyword string   `json:"keyword"`
	Intent  string   `json:"intent"`
	Type    string   `json:"type,omitempty"`
	Answer  string   `json:"answer"`
	Ref     []string `json:"ref,omitempty"`
}

// DefinitionBundle answers an intent-less multi-keyword question with one
// definition per keyword.
type DefinitionBundle struct {
	Definitions []Definition `json:"definitions"`
	Score       float64      `json:"score"`
}

// Kind implements Result.
func (DefinitionBundle) Kind() string { return "definitions" }

// SplitAnswer is one resolved segment of a compound question.
type SplitAnswer struct {
	Question  string   `json:"question"`
	Intent    string   `json:"intent"`
	Keyword   string   `json:"keyword"`
	Type      string   `json:"type,omitempty"`
	Condition Value    `json:"condition,omitempty"`
	Place     string   `json:"place,omitempty"`
	Answer    string   `json:"answer"`
	Proof     []string `json:"proof,omitempty"`
}

// SplitBundle aggregates the per-segment answers of a compound question.
type SplitBundle struct {
	Ask     string        `json:"ask"` // always "split"
	Message string        `json:"message"`
	Answers []SplitAnswer `json:"answers"`
}

// Kind implements Result.
func (SplitBundle) Kind() string { return "split" }

// AskKind is what a clarification request is missing.
type AskKind string

const (
	AskKeyword AskKind = "keyword"
	AskIntent  AskKind = "intent"
	AskClarify AskKind = "clarify"
)

// Availability tells the caller which pieces of context already exist.
type Availability struct {
	Keyword bool `json:"keyword"`
	Intent  bool `json:"intent"`
	Context bool `json:"context"`
}

// Clarification is a structured prompt for missing information. The caller
// must pass Context back verbatim on the next call to continue the
// disambiguation.
type Clarification struct {
	Ask       AskKind            `json:"ask"`
	Message   string             `json:"message"`
	Available Availability       `json:"available"`
	Context   *ResolutionContext `json:"context"`
}

// Kind implements Result.
func (c Clarification) Kind() string { return "clarify:" + string(c.Ask) }
