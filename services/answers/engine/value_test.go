// Copyright (C) 2025 Daleel AI (engineering@daleel.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValue_Construction(t *testing.T) {
	if !Absent().IsAbsent() {
		t.Error("zero value must be absent")
	}
	if !One("  ").IsAbsent() {
		t.Error("blank single value must collapse to absent")
	}
	if !Many([]string{"", " "}).IsAbsent() {
		t.Error("all-blank list must collapse to absent")
	}
	v := Many([]string{"السفر", "", "المرض"})
	if v.Len() != 2 {
		t.Errorf("expected blanks dropped, got %d values", v.Len())
	}
}

func TestValue_SetSemantics(t *testing.T) {
	a := Many([]string{"السفر", "المرض"})
	b := Many([]string{"المرض", "السفر"})

	if !a.EqualSet(b) {
		t.Error("order must not matter for set equality")
	}
	if a.Overlap(One("السفر")) != 1 {
		t.Error("expected overlap of 1")
	}
	if !Absent().EqualSet(Absent()) {
		t.Error("two absent values are equal")
	}
	if a.EqualSet(One("السفر")) {
		t.Error("subset is not set equality")
	}
}

func TestValue_JSONShapes(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Absent(), "null"},
		{One("السفر"), `"السفر"`},
		{Many([]string{"السفر", "المرض"}), `["السفر","المرض"]`},
	}
	for _, c := range cases {
		data, err := json.Marshal(c.v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(data) != c.want {
			t.Errorf("expected %s, got %s", c.want, data)
		}
		var back Value
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if !back.EqualSet(c.v) {
			t.Errorf("round trip changed %s", data)
		}
	}
}

func TestValue_YAMLScalarOrSequence(t *testing.T) {
	var scalar struct {
		Condition Value `yaml:"condition"`
	}
	if err := yaml.Unmarshal([]byte("condition: السفر"), &scalar); err != nil {
		t.Fatalf("scalar: %v", err)
	}
	if got, ok := scalar.Condition.Single(); !ok || got != "السفر" {
		t.Errorf("expected single السفر, got %+v", scalar.Condition)
	}

	var seq struct {
		Condition Value `yaml:"condition"`
	}
	if err := yaml.Unmarshal([]byte("condition: [السفر, المرض]"), &seq); err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if seq.Condition.Len() != 2 {
		t.Errorf("expected 2 values, got %d", seq.Condition.Len())
	}

	var bad struct {
		Condition Value `yaml:"condition"`
	}
	if err := yaml.Unmarshal([]byte("condition: {a: b}"), &bad); err == nil {
		t.Error("expected error for mapping node")
	}
}
