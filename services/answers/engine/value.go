// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Value is an optional multi-valued field: absent, a single string, or a set
// of strings. Qualifier fields on matches and answer records (condition,
// place) take all three shapes in the stored corpus, so the union is modeled
// once here instead of repeating scalar-or-list checks at every use site.
//
// The zero Value is Absent. Values are immutable after construction.
//
// Thread Safety: Safe for concurrent reads; never mutated after construction.
type Value struct {
	vals []string
}

// Absent returns the absent Value.
func Absent() Value {
	return Value{}
}

// One returns a single-valued Value, or Absent when s is blank.
func One(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	return Value{vals: []string{s}}
}

// Many returns a multi-valued Value. Blank elements are dropped; an empty
// result collapses to Absent.
func Many(ss []string) Value {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Value{}
	}
	return Value{vals: out}
}

// IsAbsent reports whether no value is present.
func (v Value) IsAbsent() bool {
	return len(v.vals) == 0
}

// Len returns the number of values present.
func (v Value) Len() int {
	return len(v.vals)
}

// Single returns the value when exactly one is present.
func (v Value) Single() (string, bool) {
	if len(v.vals) == 1 {
		return v.vals[0], true
	}
	return "", false
}

// Slice returns a copy of the values. Nil when absent.
func (v Value) Slice() []string {
	if len(v.vals) == 0 {
		return nil
	}
	out := make([]string, len(v.vals))
	copy(out, v.vals)
	return out
}

// Contains reports whether s is one of the values.
func (v Value) Contains(s string) bool {
	for _, x := range v.vals {
		if x == s {
			return true
		}
	}
	return false
}

// Overlap counts the elements of v that are also present in o, treating both
// sides as sets.
func (v Value) Overlap(o Value) int {
	n := 0
	seen := make(map[string]bool, len(v.vals))
	for _, x := range v.vals {
		if seen[x] {
			continue
		}
		seen[x] = true
		if o.Contains(x) {
			n++
		}
	}
	return n
}

// EqualSet reports whether v and o hold the same values, ignoring order and
// duplicates. Two absent Values are equal.
func (v Value) EqualSet(o Value) bool {
	return v.Overlap(o) == countUnique(v.vals) && o.Overlap(v) == countUnique(o.vals)
}

func countUnique(ss []string) int {
	seen := make(map[string]bool, len(ss))
	for _, s := range ss {
		seen[s] = true
	}
	return len(seen)
}

// Signature renders a stable "a|b|c" form for dedupe keys. Absent renders "".
func (v Value) Signature() string {
	return strings.Join(v.vals, "|")
}

// String renders values space-joined for user-visible text. Absent renders "".
func (v Value) String() string {
	return strings.Join(v.vals, " ")
}

// MarshalJSON renders Absent as null, a single value as a string, and
// multiple values as an array, matching the stored corpus shapes.
func (v Value) MarshalJSON() ([]byte, error) {
	switch len(v.vals) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(v.vals[0])
	default:
		return json.Marshal(v.vals)
	}
}

// UnmarshalJSON accepts null, a string, or an array of strings.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*v = One(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("value must be null, string, or string list: %w", err)
	}
	*v = Many(many)
	return nil
}

// UnmarshalYAML accepts a scalar or a sequence, so record files may write
// either `condition: السفر` or `condition: [السفر, المرض]`.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*v = One(s)
		return nil
	case yaml.SequenceNode:
		var ss []string
		if err := node.Decode(&ss); err != nil {
			return err
		}
		*v = Many(ss)
		return nil
	default:
		return fmt.Errorf("value must be a scalar or a sequence, got yaml kind %d", node.Kind)
	}
}

// MarshalYAML mirrors MarshalJSON for symmetry in dumped fixtures.
func (v Value) MarshalYAML() (any, error) {
	switch len(v.vals) {
	case 0:
		return nil, nil
	case 1:
		return v.vals[0], nil
	default:
		return v.vals, nil
	}
}
