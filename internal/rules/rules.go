// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package rules holds the canonical rule registry. Each rule is a pure
// function of one document plus the caller-supplied context, emitting zero
// or one Finding. Rules are independent and order-insensitive; the registry
// order is only the stable emission order used as a secondary sort key.
package rules

import (
	"relief-scan/internal/audit"
	"relief-scan/internal/evidence"
	"relief-scan/internal/patterns"
)

// Func evaluates one rule against one document.
type Func func(doc audit.DocumentRecord, ctx *audit.Context) *audit.Finding

// Rule pairs a stable rule id with its evaluation function.
type Rule struct {
	ID    string
	Title string
	Eval  Func
}

// Registry returns the fixed rule list in emission order. New rules are
// added here; the aggregator never changes.
func Registry() []Rule {
	return []Rule{
		{ID: "C-01", Title: "COVID relief may not be reflected in loan behavior", Eval: reliefRecognition},
		{ID: "C-03", Title: "Payments may have been routed to suspense", Eval: suspenseIndicator},
		{ID: "E-ESCROW", Title: "Escrow activity detected (review for shocks)", Eval: escrowIndicator},
		{ID: "C-05", Title: "Delinquency indicators inside a protected relief window", Eval: policyTimingMismatch},
	}
}

// EvaluateAll runs every registered rule against the document, in registry
// order. Missing or empty page text is simply non-matching; a rule never
// errors on it.
func EvaluateAll(doc audit.DocumentRecord, ctx *audit.Context) []audit.Finding {
	var out []audit.Finding
	for _, r := range Registry() {
		if f := r.Eval(doc, ctx); f != nil {
			out = append(out, *f)
		}
	}
	return out
}

// reliefRecognition (C-01) fires when a document carries both
// forbearance/COVID language and late-fee/delinquency language.
func reliefRecognition(doc audit.DocumentRecord, ctx *audit.Context) *audit.Finding {
	reliefHits := evidence.FindHits(doc.Pages, patterns.Forbearance, 1)
	lateHits := evidence.FindHits(doc.Pages, patterns.Delinquency, 1)
	if len(reliefHits) == 0 || len(lateHits) == 0 {
		return nil
	}

	confidence := 0.65
	if matchesAnywhere(doc.Pages, "forbear") {
		// An explicit forbearance mention is a stronger signal than the
		// broader COVID/CARES vocabulary.
		confidence = 0.70
	}

	ev := evidence.FromHits(doc.Name, append(reliefHits, lateHits...))

	policy := "No forbearance window was declared; provide the plan record to establish the protected period."
	if ctx != nil && ctx.Window != nil {
		if ctx.Window.EndsOnOrAfterCARES() {
			policy = "The declared forbearance window extends past the CARES Act effective date (2020-03-27); " +
				"during that period the account should have carried protected relief status, with no late fees or delinquency advancement."
		} else {
			policy = "The declared forbearance window ended before the CARES Act effective date (2020-03-27); " +
				"early-2020 relief handling varied by servicer and the plan terms control."
		}
	}

	return &audit.Finding{
		RuleID:     "C-01",
		Severity:   4,
		Confidence: confidence,
		Title:      "COVID relief may not be reflected in loan behavior",
		WhatWeSaw: "We found language suggesting COVID forbearance/relief and also found late-fee/delinquency " +
			"indicators in the same document set.",
		WhyItMatters: "If relief existed but the loan was treated as delinquent during that window, downstream fees, " +
			"balances, and loss-mitigation actions can be based on an incorrect servicing state.",
		Evidence: evidence.Dedupe(ev),
		Questions: []string{
			"Provide the complete forbearance plan record (start/end dates) and all system notes.",
			"Explain any late fees, delinquency coding, or 'past due' status during the relief window.",
			"Provide a transaction-level ledger showing how any payments were applied (principal/interest/escrow/suspense).",
		},
		PolicyContext: policy,
	}
}

// suspenseIndicator (C-03) fires on the first page referencing a suspense
// account.
func suspenseIndicator(doc audit.DocumentRecord, _ *audit.Context) *audit.Finding {
	hits := evidence.FindHits(doc.Pages, patterns.Suspense, 1)
	if len(hits) == 0 {
		return nil
	}
	return &audit.Finding{
		RuleID:     "C-03",
		Severity:   3,
		Confidence: 0.60,
		Title:      "Payments may have been routed to suspense",
		WhatWeSaw: "We found references to 'suspense' which can indicate payments were held or applied in a " +
			"non-standard way.",
		WhyItMatters: "Misapplied payments can create phantom delinquency and fee cascades. A ledger-level " +
			"reconciliation is often needed.",
		Evidence: evidence.FromHits(doc.Name, hits),
		Questions: []string{
			"Provide a transaction-level payment ledger showing application to principal/interest/escrow/suspense.",
			"Explain why payments were placed into suspense and when/if they were cleared.",
		},
	}
}

// escrowIndicator (E-ESCROW) fires on the first page referencing escrow and
// records the largest currency amount seen on that page.
func escrowIndicator(doc audit.DocumentRecord, _ *audit.Context) *audit.Finding {
	hits := evidence.FindHits(doc.Pages, patterns.Escrow, 1)
	if len(hits) == 0 {
		return nil
	}

	what := "We detected escrow-related statements. Escrow recalculations after forbearance can cause sudden payment changes."
	if amt, ok := largestAmount(doc.Pages, hits[0].Page); ok {
		what += " The largest amount on the flagged page is around $" + formatAmount(amt) + "."
	}

	return &audit.Finding{
		RuleID:     "E-ESCROW",
		Severity:   2,
		Confidence: 0.50,
		Title:      "Escrow activity detected (review for shocks)",
		WhatWeSaw:  what,
		WhyItMatters: "Escrow shortages or advances can create unexpected payment spikes and may mask servicing " +
			"errors if notices are unclear.",
		Evidence: evidence.FromHits(doc.Name, hits),
		Questions: []string{
			"Provide escrow analysis statements and itemized advances (tax/insurance) during and after relief.",
			"Explain any shortage calculations and the notices provided.",
		},
	}
}

// policyTimingMismatch (C-05) is the lower-confidence variant of C-01 used
// when document-level dates cannot be correlated to the declared window: it
// fires whenever the declared window is CARES-protected and any delinquency
// language is present, regardless of relief language in the same document.
func policyTimingMismatch(doc audit.DocumentRecord, ctx *audit.Context) *audit.Finding {
	if ctx == nil || ctx.Window == nil || !ctx.Window.EndsOnOrAfterCARES() {
		return nil
	}
	hits := evidence.FindHits(doc.Pages, patterns.Delinquency, 1)
	if len(hits) == 0 {
		return nil
	}
	return &audit.Finding{
		RuleID:     "C-05",
		Severity:   3,
		Confidence: 0.55,
		Title:      "Delinquency indicators inside a protected relief window",
		WhatWeSaw: "Delinquency-family language appears in this document and the declared forbearance window " +
			"extends past the CARES Act effective date. The document's own dates could not be correlated to the window.",
		WhyItMatters: "Delinquency treatment during a protected forbearance window is a common servicing error; " +
			"correlating these entries to exact dates requires the servicer's records.",
		Evidence: evidence.FromHits(doc.Name, hits),
		Questions: []string{
			"Confirm whether the delinquency entries in this document fall inside the declared forbearance window.",
			"Provide the servicing system's status history for the relief period.",
		},
		PolicyContext: "The declared forbearance window extends past the CARES Act effective date (2020-03-27).",
	}
}

func matchesAnywhere(pages []string, substr string) bool {
	for _, p := range pages {
		if p == "" {
			continue
		}
		if containsFold(p, substr) {
			return true
		}
	}
	return false
}
