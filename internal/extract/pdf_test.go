// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestNewExtractor_Defaults(t *testing.T) {
	e := NewExtractor(nil)
	if e.MaxPages != DefaultMaxPages {
		t.Errorf("expected default page cap %d, got %d", DefaultMaxPages, e.MaxPages)
	}
	if e.Recognizer != nil {
		t.Error("recognizer must be opt-in")
	}
}

func TestRowString_SpacingByGap(t *testing.T) {
	elements := []pdf.Text{
		{S: "Late", X: 0, W: 20, FontSize: 10},
		{S: "fee", X: 25, W: 15, FontSize: 10}, // gap 5 > 2 -> space
		{S: "s", X: 40.5, W: 5, FontSize: 10},  // gap 0.5 < 2 -> joined
	}
	if got := rowString(elements); got != "Late fees" {
		t.Errorf("expected %q, got %q", "Late fees", got)
	}
}

func TestRowString_SortsByX(t *testing.T) {
	elements := []pdf.Text{
		{S: "due", X: 100, W: 10, FontSize: 10},
		{S: "Past", X: 0, W: 10, FontSize: 10},
	}
	if got := rowString(elements); got != "Past due" {
		t.Errorf("expected left-to-right order, got %q", got)
	}
}

func TestRowString_Empty(t *testing.T) {
	if got := rowString(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestAverageY(t *testing.T) {
	elements := []pdf.Text{{Y: 10}, {Y: 20}, {Y: 30}}
	if got := averageY(elements); got != 20 {
		t.Errorf("expected 20, got %f", got)
	}
	if got := averageY(nil); got != 0 {
		t.Errorf("expected 0 for empty row, got %f", got)
	}
}

func TestTotalLen(t *testing.T) {
	pages := []string{"abc", "  ", "", "de"}
	if got := totalLen(pages); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}
