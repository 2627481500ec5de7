// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report aggregates findings across documents and rules: ranking by
// (severity, confidence) and optional grouping by rule id.
package report

import (
	"sort"

	"relief-scan/internal/audit"
	"relief-scan/internal/evidence"
)

// Rank returns the findings sorted non-increasing by (severity, confidence).
// The sort is stable: ties keep the original insertion order, which is the
// document-then-rule iteration order.
func Rank(findings []audit.Finding) []audit.Finding {
	out := make([]audit.Finding, len(findings))
	copy(out, findings)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// GroupedFinding is one rule's findings merged across documents.
type GroupedFinding struct {
	RuleID       string              `json:"rule_id"`
	Severity     int                 `json:"severity"`   // max seen for the rule
	Confidence   float64             `json:"confidence"` // max seen for the rule
	Title        string              `json:"title"`
	WhatWeSaw    string              `json:"what_we_saw"`
	WhyItMatters string              `json:"why_it_matters"`
	Evidence     []audit.EvidenceRef `json:"evidence"`
	Questions    []string            `json:"questions"`
	SourcesCount int                 `json:"sources_count"` // distinct contributing documents
}

// Group merges findings by rule id: evidence is unioned and deduplicated,
// severity and confidence keep the maximum seen, and SourcesCount is the
// number of distinct contributing document names. The grouped output is
// re-sorted by the same (severity, confidence) key.
func Group(findings []audit.Finding) []GroupedFinding {
	byRule := make(map[string]*GroupedFinding)
	sources := make(map[string]map[string]struct{})
	var order []string

	for _, f := range findings {
		g, ok := byRule[f.RuleID]
		if !ok {
			g = &GroupedFinding{
				RuleID:       f.RuleID,
				Severity:     f.Severity,
				Confidence:   f.Confidence,
				Title:        f.Title,
				WhatWeSaw:    f.WhatWeSaw,
				WhyItMatters: f.WhyItMatters,
				Questions:    append([]string{}, f.Questions...),
			}
			byRule[f.RuleID] = g
			sources[f.RuleID] = make(map[string]struct{})
			order = append(order, f.RuleID)
		}
		if f.Severity > g.Severity {
			g.Severity = f.Severity
		}
		if f.Confidence > g.Confidence {
			g.Confidence = f.Confidence
		}
		g.Evidence = append(g.Evidence, f.Evidence...)
		for _, ev := range f.Evidence {
			sources[f.RuleID][ev.DocName] = struct{}{}
		}
	}

	out := make([]GroupedFinding, 0, len(order))
	for _, id := range order {
		g := byRule[id]
		g.Evidence = evidence.Dedupe(g.Evidence)
		g.SourcesCount = len(sources[id])
		out = append(out, *g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out
}
