// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"testing"

	"relief-scan/internal/audit"
)

func scorecardIDs(items []audit.ScoreItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

func itemByID(items []audit.ScoreItem, id string) *audit.ScoreItem {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func TestBuildScorecard_FixedShape(t *testing.T) {
	items := BuildScorecard(ScorecardInput{})

	want := []string{"S1", "S2", "S3", "S4", "S5", "S6", "S7"}
	got := scorecardIDs(items)
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestBuildScorecard_EmptyBatchIsAllMissingOrClarification(t *testing.T) {
	items := BuildScorecard(ScorecardInput{})
	for _, it := range items {
		if it.Status == audit.StatusEvidenceFound || it.Status == audit.StatusConflict {
			t.Errorf("%s: empty batch must not report %q", it.ID, it.Status)
		}
	}
}

func TestCheckDelinquencyDuringRelief(t *testing.T) {
	docs := []audit.DocumentRecord{
		{Name: "statement.pdf", Type: audit.DocTypeBilling, Pages: []string{"Late fee assessed. Past due."}},
	}

	items := BuildScorecard(ScorecardInput{Docs: docs})
	s2 := itemByID(items, "S2")
	if s2.Status != audit.StatusNeedsClarification {
		t.Errorf("no declared window: expected NEEDS CLARIFICATION, got %q", s2.Status)
	}

	items = BuildScorecard(ScorecardInput{Docs: docs, Context: protectedWindow()})
	s2 = itemByID(items, "S2")
	if s2.Status != audit.StatusConflict {
		t.Errorf("protected window: expected CONFLICT, got %q", s2.Status)
	}
	if len(s2.Evidence) == 0 {
		t.Error("expected delinquency evidence attached")
	}
}

func TestCheckEscrowDisclosure(t *testing.T) {
	referenced := []audit.DocumentRecord{
		{Name: "statement.pdf", Type: audit.DocTypeBilling, Pages: []string{"escrow balance shown"}},
	}
	items := BuildScorecard(ScorecardInput{Docs: referenced})
	s4 := itemByID(items, "S4")
	if s4.Status != audit.StatusNeedsClarification {
		t.Errorf("escrow referenced without an analysis doc: expected NEEDS CLARIFICATION, got %q", s4.Status)
	}

	withAnalysis := append(referenced, audit.DocumentRecord{
		Name: "escrow.pdf", Type: audit.DocTypeEscrow, Pages: []string{"Annual escrow account analysis"},
	})
	items = BuildScorecard(ScorecardInput{Docs: withAnalysis})
	s4 = itemByID(items, "S4")
	if s4.Status != audit.StatusEvidenceFound {
		t.Errorf("escrow analysis doc present: expected EVIDENCE FOUND, got %q", s4.Status)
	}
}

func TestCheckModificationDisclosure(t *testing.T) {
	rate := 4.0
	modDoc := audit.DocumentRecord{
		Name: "mod.pdf", Type: audit.DocTypeModification,
		Pages: []string{"Loan modification agreement"},
	}

	items := BuildScorecard(ScorecardInput{Docs: []audit.DocumentRecord{modDoc}})
	s5 := itemByID(items, "S5")
	if s5.Status != audit.StatusNeedsClarification {
		t.Errorf("mod doc with no readable terms: expected NEEDS CLARIFICATION, got %q", s5.Status)
	}

	items = BuildScorecard(ScorecardInput{
		Docs:     []audit.DocumentRecord{modDoc},
		NewTerms: audit.InferredTerms{Rate: &rate},
	})
	s5 = itemByID(items, "S5")
	if s5.Status != audit.StatusEvidenceFound {
		t.Errorf("mod doc with extracted terms: expected EVIDENCE FOUND, got %q", s5.Status)
	}

	items = BuildScorecard(ScorecardInput{})
	s5 = itemByID(items, "S5")
	if s5.Status != audit.StatusMissing {
		t.Errorf("no mod doc: expected MISSING, got %q", s5.Status)
	}
}

func TestCheckVACoordination(t *testing.T) {
	docs := []audit.DocumentRecord{
		{Name: "notice.pdf", Type: audit.DocTypeOther, Pages: []string{"Reported to VALERI per Department of Veterans Affairs guidance."}},
	}
	items := BuildScorecard(ScorecardInput{Docs: docs})
	s7 := itemByID(items, "S7")
	if s7.Status != audit.StatusEvidenceFound {
		t.Errorf("expected EVIDENCE FOUND for VA language, got %q", s7.Status)
	}
}
