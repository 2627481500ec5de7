// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package suppressions

import (
	"path/filepath"
	"testing"
	"time"

	"relief-scan/internal/audit"
)

func newTestFinding(ruleID, doc string, page int, quote string) audit.Finding {
	return audit.Finding{
		RuleID:     ruleID,
		Severity:   3,
		Confidence: 0.6,
		Evidence: []audit.EvidenceRef{
			{DocName: doc, PageNumber: page, Quote: quote},
		},
	}
}

func TestNewManager_NoFile(t *testing.T) {
	m := NewManager("/nonexistent/path.yaml")
	if m == nil {
		t.Fatal("expected non-nil manager")
	}
	if len(m.List()) != 0 {
		t.Errorf("expected no rules, got %d", len(m.List()))
	}
}

func TestAddAndIsSuppressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)
	f := newTestFinding("C-03", "ledger.pdf", 2, "funds held in suspense")

	if err := m.Add(f, "reviewed, expected suspense usage", "analyst", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	suppressed, rule := m.IsSuppressed(f)
	if !suppressed {
		t.Fatal("finding should be suppressed")
	}
	if rule.Reason != "reviewed, expected suspense usage" {
		t.Errorf("unexpected reason %q", rule.Reason)
	}
	if rule.ID != "SUP-00000001" {
		t.Errorf("expected sequential id, got %q", rule.ID)
	}

	// The file round-trips: a fresh manager sees the same rule.
	m2 := NewManager(path)
	if suppressed, _ := m2.IsSuppressed(f); !suppressed {
		t.Error("suppression should survive reload")
	}
}

func TestIsSuppressed_DifferentFindingNotHidden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)
	f := newTestFinding("C-03", "ledger.pdf", 2, "funds held in suspense")
	if err := m.Add(f, "reviewed", "analyst", nil); err != nil {
		t.Fatal(err)
	}

	other := newTestFinding("C-03", "ledger.pdf", 7, "different suspense entry")
	if suppressed, _ := m.IsSuppressed(other); suppressed {
		t.Error("a finding at a different location must not be suppressed")
	}
}

func TestAdd_DuplicateRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)
	f := newTestFinding("C-01", "doc.pdf", 1, "forbearance approved")

	if err := m.Add(f, "first", "analyst", nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Add(f, "second", "analyst", nil); err == nil {
		t.Error("expected an error adding a duplicate suppression")
	}
}

func TestExpiredRuleDoesNotSuppress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)
	f := newTestFinding("E-ESCROW", "escrow.pdf", 1, "escrow shortage")

	expired := time.Now().Add(-time.Hour)
	if err := m.Add(f, "temporary", "analyst", &expired); err != nil {
		t.Fatal(err)
	}
	if suppressed, _ := m.IsSuppressed(f); suppressed {
		t.Error("an expired rule must not suppress")
	}
}

func TestApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)

	hidden := newTestFinding("C-03", "ledger.pdf", 2, "suspense entry")
	visible := newTestFinding("C-01", "doc.pdf", 1, "forbearance approved")
	if err := m.Add(hidden, "reviewed", "analyst", nil); err != nil {
		t.Fatal(err)
	}

	kept, suppressed := m.Apply([]audit.Finding{visible, hidden})
	if len(kept) != 1 || kept[0].RuleID != "C-01" {
		t.Errorf("unexpected kept findings: %+v", kept)
	}
	if len(suppressed) != 1 || suppressed[0].Finding.RuleID != "C-03" {
		t.Errorf("unexpected suppressed findings: %+v", suppressed)
	}
	if suppressed[0].SuppressedBy == "" {
		t.Error("suppressed finding should reference the rule id")
	}
}

func TestSetEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suppressions.yaml")
	m := NewManager(path)
	f := newTestFinding("C-05", "doc.pdf", 3, "past due")
	if err := m.Add(f, "reviewed", "analyst", nil); err != nil {
		t.Fatal(err)
	}

	m.SetEnabled(false)
	if suppressed, _ := m.IsSuppressed(f); suppressed {
		t.Error("disabled manager must not suppress")
	}
	m.SetEnabled(true)
	if suppressed, _ := m.IsSuppressed(f); !suppressed {
		t.Error("re-enabled manager should suppress again")
	}
}
