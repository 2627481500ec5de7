// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	stdcsv "encoding/csv"
	"strings"
	"testing"

	"relief-scan/internal/audit"
	"relief-scan/internal/formatters"
)

func TestFormat(t *testing.T) {
	result := &audit.Result{
		Findings: []audit.Finding{
			{
				RuleID: "C-01", Severity: 4, Confidence: 0.70,
				Title:     "COVID relief may not be reflected in loan behavior",
				WhatWeSaw: "relief and late-fee language together",
				Evidence: []audit.EvidenceRef{
					{DocName: "statement.pdf", PageNumber: 2, Quote: "forbearance approved"},
				},
			},
		},
		Scorecard: []audit.ScoreItem{
			{ID: "S1", Label: "Forbearance documentation", Status: audit.StatusMissing, WhatWeFound: "none found"},
		},
	}

	out, err := NewFormatter().Format(result, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	rows, err := stdcsv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "kind" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][0] != "finding" || rows[1][1] != "C-01" || rows[1][2] != "4" {
		t.Errorf("unexpected finding row: %v", rows[1])
	}
	if !strings.Contains(rows[1][6], "statement.pdf p.2") {
		t.Errorf("expected evidence location in the row, got %q", rows[1][6])
	}
	if rows[2][0] != "scorecard" || rows[2][4] != "MISSING" {
		t.Errorf("unexpected scorecard row: %v", rows[2])
	}
}

func TestFormat_EmptyResult(t *testing.T) {
	out, err := NewFormatter().Format(&audit.Result{}, formatters.FormatterOptions{})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	rows, err := stdcsv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected header only, got %d rows", len(rows))
	}
}
