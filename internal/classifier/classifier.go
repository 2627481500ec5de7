// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package classifier assigns each document one category from the fixed
// taxonomy by keyword presence in its front matter.
package classifier

import (
	"strings"

	"relief-scan/internal/audit"
	"relief-scan/internal/patterns"
)

// leadingPages is how much front matter the classifier inspects.
// Classification is front-matter-driven; body pages are ignored.
const leadingPages = 8

// Classify concatenates a document's leading pages, lowercases them, and
// tests the keyword groups in fixed priority order: MODIFICATION, then
// PAYMENT_HISTORY, then ESCROW (which requires both "escrow" and "analysis"),
// then BILLING. First matching group wins; the ordering is a deliberate
// tie-break so a document carrying both modification and billing language
// classifies as MODIFICATION. Defaults to OTHER, including for an all-empty
// page sequence.
func Classify(pages []string) audit.DocType {
	n := len(pages)
	if n > leadingPages {
		n = leadingPages
	}
	text := strings.ToLower(strings.Join(pages[:n], "\n"))

	if containsAny(text, patterns.ClassifyModification) || matchesModificationEffectiveDate(text) {
		return audit.DocTypeModification
	}
	if containsAny(text, patterns.ClassifyPaymentHistory) {
		return audit.DocTypePaymentHistory
	}
	if containsAll(text, patterns.ClassifyEscrowBoth) {
		return audit.DocTypeEscrow
	}
	if containsAny(text, patterns.ClassifyBilling) {
		return audit.DocTypeBilling
	}
	return audit.DocTypeOther
}

// matchesModificationEffectiveDate covers the "effective date of ...
// modification" spelling that the plain keyword group misses.
func matchesModificationEffectiveDate(text string) bool {
	for _, p := range patterns.Modification {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func containsAll(text string, keywords []string) bool {
	for _, k := range keywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return true
}
