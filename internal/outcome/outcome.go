// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package outcome compares inferred baseline terms against modification
// terms under a borrower-protective policy and emits the composite
// modification-outcome scorecard item.
package outcome

import (
	"fmt"
	"strings"

	"relief-scan/internal/audit"
	"relief-scan/internal/evidence"
)

const (
	// rateEpsilon is the tolerance for rate comparison, in percentage points.
	rateEpsilon = 1e-6
	// amountEpsilon is the tolerance for currency comparison: one cent.
	amountEpsilon = 0.01
)

// CheckID is the fixed scorecard identifier for the outcome comparison.
const CheckID = "S6"

// Compare evaluates baseline vs. new terms and returns the composite
// ScoreItem. Partial extraction on either side is tolerated; with no
// extracted field on either side the result is NEEDS CLARIFICATION, never
// CONFLICT. Status precedence: any rate/P&I conflict makes the overall
// status CONFLICT; otherwise any clarification item makes it NEEDS
// CLARIFICATION; otherwise EVIDENCE FOUND with an explicit disclaimer.
func Compare(baseline, newTerms audit.InferredTerms, termEv, capEv []audit.EvidenceRef) audit.ScoreItem {
	item := audit.ScoreItem{
		ID:    CheckID,
		Label: "Modification outcome vs. prior terms",
		WhyItMatters: "A modification that raises the rate or the P&I payment, or that rolls arrears " +
			"into principal without itemization, can leave the borrower worse off than the relief program intended.",
	}

	if baseline.Empty() && newTerms.Empty() {
		item.Status = audit.StatusNeedsClarification
		item.WhatWeFound = "Insufficient data: no loan terms could be read from the documents on either side of the modification."
		item.RequestNext = []string{
			"Provide the signed modification agreement showing the prior and modified rate, P&I, escrow, and total payment.",
			"Provide the last billing statement issued before the modification took effect.",
		}
		return item
	}

	var conflicts, needs []string
	var requests []string

	// Rate increase is a direct conflict.
	if baseline.Rate != nil && newTerms.Rate != nil && *newTerms.Rate > *baseline.Rate+rateEpsilon {
		conflicts = append(conflicts, fmt.Sprintf("interest rate increased from %.2f%% to %.2f%%", *baseline.Rate, *newTerms.Rate))
		requests = append(requests, "Explain why the modified interest rate is higher than the pre-modification rate.")
	}

	// P&I increase is the strongest signal.
	if baseline.PrincipalAndInterest != nil && newTerms.PrincipalAndInterest != nil &&
		*newTerms.PrincipalAndInterest > *baseline.PrincipalAndInterest+amountEpsilon {
		conflicts = append(conflicts, fmt.Sprintf("P&I increased from $%.2f to $%.2f", *baseline.PrincipalAndInterest, *newTerms.PrincipalAndInterest))
		requests = append(requests, "Provide the amortization comparison supporting the increased P&I payment.")
	}

	// A total-payment increase is not automatically a conflict. With P&I
	// known on both sides and unchanged, the increase is plausibly
	// escrow-driven and only needs itemization. With P&I unknown on either
	// side, the borrower-protective default treats the increase as a
	// conflict: an absent breakdown does not excuse it.
	if baseline.TotalPayment != nil && newTerms.TotalPayment != nil &&
		*newTerms.TotalPayment > *baseline.TotalPayment+amountEpsilon {
		piKnown := baseline.PrincipalAndInterest != nil && newTerms.PrincipalAndInterest != nil
		piIncreased := piKnown && *newTerms.PrincipalAndInterest > *baseline.PrincipalAndInterest+amountEpsilon
		switch {
		case piKnown && !piIncreased:
			needs = append(needs, fmt.Sprintf("total payment rose from $%.2f to $%.2f with P&I unchanged; likely escrow-driven and needs itemization", *baseline.TotalPayment, *newTerms.TotalPayment))
			requests = append(requests, "Provide the escrow analysis itemizing the change in the total monthly payment.")
		case !piKnown:
			conflicts = append(conflicts, fmt.Sprintf("total payment rose from $%.2f to $%.2f with no P&I breakdown available", *baseline.TotalPayment, *newTerms.TotalPayment))
			requests = append(requests, "Provide the P&I/escrow breakdown of the total payment before and after the modification.")
		}
	}

	// Capitalization evidence always demands transparency, independent of
	// whether the dollar amounts moved adversely.
	if len(capEv) > 0 {
		needs = append(needs, "capitalization/arrears language found; the amounts added to principal must be itemized")
		requests = append(requests, "Provide an itemized statement of every amount capitalized into the principal balance.")
	}

	item.Evidence = evidence.Dedupe(append(append([]audit.EvidenceRef{}, termEv...), capEv...))
	item.RequestNext = requests

	switch {
	case len(conflicts) > 0:
		item.Status = audit.StatusConflict
		item.WhatWeFound = "Modification appears less favorable than prior terms: " + strings.Join(append(conflicts, needs...), "; ") + "."
	case len(needs) > 0:
		item.Status = audit.StatusNeedsClarification
		item.WhatWeFound = "Modification terms need clarification: " + strings.Join(needs, "; ") + "."
	default:
		item.Status = audit.StatusEvidenceFound
		item.WhatWeFound = "No rate or P&I increase was detected in the extracted terms. " +
			"Absence of a detected conflict is not a compliance finding; extraction is heuristic and may be incomplete."
	}
	return item
}
