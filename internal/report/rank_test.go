// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"testing"

	"relief-scan/internal/audit"
)

func TestRank(t *testing.T) {
	findings := []audit.Finding{
		{RuleID: "E-ESCROW", Severity: 2, Confidence: 0.50},
		{RuleID: "C-01", Severity: 4, Confidence: 0.70},
		{RuleID: "C-05", Severity: 3, Confidence: 0.55},
		{RuleID: "C-03", Severity: 3, Confidence: 0.60},
	}

	ranked := Rank(findings)

	want := []string{"C-01", "C-03", "C-05", "E-ESCROW"}
	for i, id := range want {
		if ranked[i].RuleID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, ranked[i].RuleID)
		}
	}
}

func TestRank_TiesKeepInsertionOrder(t *testing.T) {
	findings := []audit.Finding{
		{RuleID: "C-03", Severity: 3, Confidence: 0.60, WhatWeSaw: "first"},
		{RuleID: "C-03", Severity: 3, Confidence: 0.60, WhatWeSaw: "second"},
		{RuleID: "C-03", Severity: 3, Confidence: 0.60, WhatWeSaw: "third"},
	}
	ranked := Rank(findings)
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].WhatWeSaw != want {
			t.Errorf("tie order broken at %d: got %q", i, ranked[i].WhatWeSaw)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	findings := []audit.Finding{
		{RuleID: "E-ESCROW", Severity: 2},
		{RuleID: "C-01", Severity: 4},
	}
	_ = Rank(findings)
	if findings[0].RuleID != "E-ESCROW" {
		t.Error("Rank must sort a copy, not the caller's slice")
	}
}

func TestGroup(t *testing.T) {
	ev := func(doc string, page int, phrase string) audit.EvidenceRef {
		return audit.EvidenceRef{DocName: doc, PageNumber: page, Quote: phrase, SearchPhrase: phrase}
	}
	findings := []audit.Finding{
		{
			RuleID: "C-01", Severity: 4, Confidence: 0.65, Title: "COVID relief may not be reflected in loan behavior",
			Evidence:  []audit.EvidenceRef{ev("a.pdf", 2, "forbearance approved")},
			Questions: []string{"Provide the plan record."},
		},
		{
			RuleID:   "C-01", Severity: 4, Confidence: 0.70,
			Evidence: []audit.EvidenceRef{ev("b.pdf", 5, "late fee assessed"), ev("a.pdf", 2, "forbearance approved")},
		},
		{
			RuleID:   "C-03", Severity: 3, Confidence: 0.60,
			Evidence: []audit.EvidenceRef{ev("a.pdf", 7, "suspense balance")},
		},
	}

	grouped := Group(findings)
	if len(grouped) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(grouped))
	}

	g := grouped[0]
	if g.RuleID != "C-01" {
		t.Fatalf("expected C-01 ranked first, got %s", g.RuleID)
	}
	if g.Severity != 4 || g.Confidence != 0.70 {
		t.Errorf("group keeps the maxima: got severity %d confidence %.2f", g.Severity, g.Confidence)
	}
	if g.SourcesCount != 2 {
		t.Errorf("expected 2 distinct source documents, got %d", g.SourcesCount)
	}
	// The duplicated a.pdf reference collapses.
	if len(g.Evidence) != 2 {
		t.Errorf("expected deduplicated evidence union of 2, got %d", len(g.Evidence))
	}
	if len(g.Questions) != 1 {
		t.Errorf("expected the first finding's questions, got %v", g.Questions)
	}
}

func TestGroup_Empty(t *testing.T) {
	if grouped := Group(nil); len(grouped) != 0 {
		t.Errorf("expected no groups, got %d", len(grouped))
	}
}
