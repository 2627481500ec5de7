// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"regexp"

	"relief-scan/internal/audit"
	"relief-scan/internal/evidence"
	"relief-scan/internal/outcome"
	"relief-scan/internal/patterns"
)

// maxScorecardEvidence bounds evidence collected per scorecard check.
const maxScorecardEvidence = 2

// ScorecardInput carries the run-level context the scorecard checks consume.
type ScorecardInput struct {
	Docs     []audit.DocumentRecord
	Context  *audit.Context
	Baseline audit.InferredTerms
	NewTerms audit.InferredTerms
	TermEv   []audit.EvidenceRef
	CapEv    []audit.EvidenceRef
}

// BuildScorecard produces exactly one ScoreItem per check S1..S7, in fixed
// order, recomputed fresh each run.
func BuildScorecard(in ScorecardInput) []audit.ScoreItem {
	return []audit.ScoreItem{
		checkForbearanceDocumentation(in),
		checkDelinquencyDuringRelief(in),
		checkSuspenseActivity(in),
		checkEscrowDisclosure(in),
		checkModificationDisclosure(in),
		outcome.Compare(in.Baseline, in.NewTerms, in.TermEv, in.CapEv),
		checkVACoordination(in),
	}
}

// collect gathers bounded, deduplicated evidence for a pattern set across
// every document.
func collect(docs []audit.DocumentRecord, pats []*regexp.Regexp) []audit.EvidenceRef {
	var refs []audit.EvidenceRef
	for _, doc := range docs {
		hits := evidence.FindHits(doc.Pages, pats, maxScorecardEvidence)
		refs = append(refs, evidence.FromHits(doc.Name, hits)...)
	}
	return evidence.Dedupe(refs)
}

func checkForbearanceDocumentation(in ScorecardInput) audit.ScoreItem {
	item := audit.ScoreItem{
		ID:    "S1",
		Label: "Forbearance documentation",
		WhyItMatters: "The plan record fixes the protected period; every other check hangs off those dates.",
	}
	ev := collect(in.Docs, patterns.Forbearance)
	if len(ev) == 0 {
		item.Status = audit.StatusMissing
		item.WhatWeFound = "No forbearance or COVID-relief language was detected in the uploaded documents."
		item.RequestNext = []string{"Provide the forbearance plan approval with its start and end dates."}
		return item
	}
	item.Status = audit.StatusEvidenceFound
	item.WhatWeFound = "Forbearance/COVID-relief language is present in the uploaded documents."
	item.Evidence = ev
	return item
}

func checkDelinquencyDuringRelief(in ScorecardInput) audit.ScoreItem {
	item := audit.ScoreItem{
		ID:    "S2",
		Label: "Account treatment during relief",
		WhyItMatters: "Late fees or delinquency advancement during an active forbearance suggests the relief " +
			"was never reflected in the servicing system.",
	}
	ev := collect(in.Docs, patterns.Delinquency)
	if len(ev) == 0 {
		item.Status = audit.StatusMissing
		item.WhatWeFound = "No late-fee or delinquency indicators were detected."
		return item
	}
	item.Evidence = ev
	if in.Context != nil && in.Context.Window != nil && in.Context.Window.EndsOnOrAfterCARES() {
		item.Status = audit.StatusConflict
		item.WhatWeFound = "Delinquency indicators are present and the declared forbearance window is CARES-protected."
		item.PolicyContext = "The declared forbearance window extends past the CARES Act effective date (2020-03-27)."
	} else {
		item.Status = audit.StatusNeedsClarification
		item.WhatWeFound = "Delinquency indicators are present; no protected forbearance window was declared to compare them against."
	}
	item.RequestNext = []string{
		"Explain every late fee and delinquency status change during the relief period.",
	}
	return item
}

func checkSuspenseActivity(in ScorecardInput) audit.ScoreItem {
	item := audit.ScoreItem{
		ID:    "S3",
		Label: "Suspense account activity",
		WhyItMatters: "Payments parked in suspense are not applied to principal, interest, or escrow, and can " +
			"manufacture delinquency.",
	}
	ev := collect(in.Docs, patterns.Suspense)
	if len(ev) == 0 {
		item.Status = audit.StatusMissing
		item.WhatWeFound = "No suspense-account references were detected."
		return item
	}
	item.Status = audit.StatusNeedsClarification
	item.WhatWeFound = "Suspense-account references are present; the application of those funds is not itemized in the documents."
	item.Evidence = ev
	item.RequestNext = []string{
		"Provide a transaction-level payment ledger showing application to principal/interest/escrow/suspense.",
	}
	return item
}

func checkEscrowDisclosure(in ScorecardInput) audit.ScoreItem {
	item := audit.ScoreItem{
		ID:    "S4",
		Label: "Escrow analysis disclosure",
		WhyItMatters: "Post-forbearance escrow recalculation is the usual source of payment shock; the analysis " +
			"statement is the document that explains it.",
	}
	ev := collect(in.Docs, patterns.Escrow)
	if len(ev) == 0 {
		item.Status = audit.StatusMissing
		item.WhatWeFound = "No escrow references were detected."
		return item
	}
	item.Evidence = ev
	for _, doc := range in.Docs {
		if doc.Type == audit.DocTypeEscrow {
			item.Status = audit.StatusEvidenceFound
			item.WhatWeFound = "An escrow analysis document is present."
			return item
		}
	}
	item.Status = audit.StatusNeedsClarification
	item.WhatWeFound = "Escrow is referenced but no escrow analysis statement appears among the documents."
	item.RequestNext = []string{
		"Provide escrow analysis statements covering the relief period and the following year.",
	}
	return item
}

func checkModificationDisclosure(in ScorecardInput) audit.ScoreItem {
	item := audit.ScoreItem{
		ID:    "S5",
		Label: "Modification terms disclosed",
		WhyItMatters: "Without the modified rate and payment in writing, the outcome of the modification cannot " +
			"be verified against the prior terms.",
	}
	hasMod := false
	for _, doc := range in.Docs {
		if doc.Type == audit.DocTypeModification {
			hasMod = true
			break
		}
	}
	if !hasMod {
		item.Status = audit.StatusMissing
		item.WhatWeFound = "No loan-modification document was identified."
		item.RequestNext = []string{"Provide the signed modification agreement, if one exists."}
		return item
	}
	if in.NewTerms.Empty() {
		item.Status = audit.StatusNeedsClarification
		item.WhatWeFound = "A modification document is present but no numeric terms could be read from it."
		item.Evidence = in.TermEv
		item.RequestNext = []string{"Provide a legible copy of the modification agreement stating the modified rate and payments."}
		return item
	}
	item.Status = audit.StatusEvidenceFound
	item.WhatWeFound = "A modification document is present and numeric terms were extracted from it."
	item.Evidence = in.TermEv
	return item
}

// checkVACoordination (S7) is informational: it only reports whether VA
// loan-guaranty program language appears anywhere in the set.
func checkVACoordination(in ScorecardInput) audit.ScoreItem {
	item := audit.ScoreItem{
		ID:    "S7",
		Label: "VA loan coordination",
		WhyItMatters: "On VA-guaranteed loans the servicer reports events through VALERI; those records are an " +
			"independent source for reconstructing what the servicer actually did.",
	}
	ev := collect(in.Docs, patterns.VACoordination)
	if len(ev) == 0 {
		item.Status = audit.StatusMissing
		item.WhatWeFound = "No VA/Loan Guaranty/VALERI references were detected."
		return item
	}
	item.Status = audit.StatusEvidenceFound
	item.WhatWeFound = "VA loan-guaranty program language is present."
	item.Evidence = ev
	item.RequestNext = []string{
		"Request the VALERI event history for the loan from VA.",
	}
	return item
}
