// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "testing"

func extractOne(t *testing.T, ix *KeywordIndex, text, keyword string) Match {
	t.Helper()
	for _, m := range FilterSubsumed(ix.Extract(text)) {
		if m.Keyword == keyword {
			return m
		}
	}
	t.Fatalf("expected a match for %q in %q", keyword, text)
	return Match{}
}

func TestKeywordExtract_CanonicalAndVariant(t *testing.T) {
	ix := NewKeywordIndex(testCatalog().Keywords)

	m := extractOne(t, ix, "ما حكم الصلاة", "الصلاة")
	if m.MatchedBy != MatchedByKeyword {
		t.Errorf("expected canonical match, got %s", m.MatchedBy)
	}

	m = extractOne(t, ix, "ما حكم الصوم", "الصيام")
	if m.MatchedBy != MatchedByVariant {
		t.Errorf("expected variant match, got %s", m.MatchedBy)
	}
	if m.MatchedText != "الصوم" {
		t.Errorf("expected matched surface الصوم, got %q", m.MatchedText)
	}
}

func TestKeywordExtract_TypeNameBeatsPattern(t *testing.T) {
	ix := NewKeywordIndex(testCatalog().Keywords)

	// The sub-type's own name occurs: it must win even though the first
	// declared type also matches through its pattern elsewhere.
	m := extractOne(t, ix, "ما حكم صلاة العيد", "الصلاة")
	if m.Type != "صلاة العيد" {
		t.Errorf("expected type صلاة العيد, got %q", m.Type)
	}

	// Pattern-only resolution: first satisfied type in declaration order.
	m = extractOne(t, ix, "ما حكم الصلاة يوم الجمعة", "الصلاة")
	if m.Type != "صلاة الجمعة" {
		t.Errorf("expected pattern-resolved type صلاة الجمعة, got %q", m.Type)
	}
}

func TestKeywordExtract_ConditionsAccumulate(t *testing.T) {
	ix := NewKeywordIndex(testCatalog().Keywords)

	m := extractOne(t, ix, "الصلاة في السفر وهو مريض", "الصلاة")
	if len(m.Conditions) != 2 {
		t.Fatalf("expected both conditions, got %v", m.Conditions)
	}
	if m.Conditions[0] != "السفر" || m.Conditions[1] != "المرض" {
		t.Errorf("expected catalog order [السفر المرض], got %v", m.Conditions)
	}
}

func TestKeywordExtract_QualifierOnlyFallback(t *testing.T) {
	ix := NewKeywordIndex(testCatalog().Keywords)

	m := extractOne(t, ix, "ماذا عن يوم الجمعة", "الصلاة")
	if m.MatchedBy != MatchedByType {
		t.Errorf("expected weak type fallback, got %s", m.MatchedBy)
	}
	if m.MatchedText != "" {
		t.Errorf("fallback matches carry no surface text, got %q", m.MatchedText)
	}
}

func TestFilterSubsumed_CanonicalWinsOverSynonymVariant(t *testing.T) {
	ix := NewKeywordIndex(testCatalog().Keywords)

	// الزكاة is both a canonical keyword and a declared variant of الصدقة;
	// over the same surface text only the canonical match survives.
	matches := FilterSubsumed(ix.Extract("ما حكم الزكاة"))
	if len(matches) != 1 {
		t.Fatalf("expected 1 match after filtering, got %d: %v", len(matches), matches)
	}
	if matches[0].Keyword != "الزكاة" {
		t.Errorf("expected canonical keyword to win, got %q", matches[0].Keyword)
	}
}

func TestPairCount(t *testing.T) {
	matches := []Match{
		{Keyword: "الصلاة", Conditions: []string{"السفر", "المرض"}},
		{Keyword: "الزكاة"},
		{Keyword: "الزكاة"},
	}
	if got := PairCount(matches); got != 3 {
		t.Errorf("expected 3 distinct pairs, got %d", got)
	}
	if got := PairCount(nil); got != 0 {
		t.Errorf("expected 0 pairs for no matches, got %d", got)
	}
}
