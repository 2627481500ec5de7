// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package classifier

import (
	"testing"

	"relief-scan/internal/audit"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		pages    []string
		expected audit.DocType
	}{
		{
			name:     "modification agreement",
			pages:    []string{"LOAN MODIFICATION AGREEMENT between borrower and servicer"},
			expected: audit.DocTypeModification,
		},
		{
			name:     "modification via effective date spelling",
			pages:    []string{"The effective date of this modification is June 1, 2021."},
			expected: audit.DocTypeModification,
		},
		{
			name:     "payment history",
			pages:    []string{"Payment History for account 12345"},
			expected: audit.DocTypePaymentHistory,
		},
		{
			name:     "escrow requires both words",
			pages:    []string{"Annual Escrow Account Analysis"},
			expected: audit.DocTypeEscrow,
		},
		{
			name:     "escrow alone is not enough",
			pages:    []string{"escrow balance shown below"},
			expected: audit.DocTypeOther,
		},
		{
			name:     "billing statement",
			pages:    []string{"Monthly Billing Statement — amount due $1,500.00"},
			expected: audit.DocTypeBilling,
		},
		{
			name:     "no keywords",
			pages:    []string{"welcome to your new servicer"},
			expected: audit.DocTypeOther,
		},
		{
			name:     "all empty pages",
			pages:    []string{"", "", ""},
			expected: audit.DocTypeOther,
		},
		{
			name:     "no pages",
			pages:    nil,
			expected: audit.DocTypeOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.pages); got != tt.expected {
				t.Errorf("Classify() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A document carrying both modification and billing language classifies
	// as MODIFICATION; the taxonomy order is the tie-break.
	pages := []string{"Loan Modification Agreement. Amount due after modification: $1,200.00. Past due balance waived."}
	if got := Classify(pages); got != audit.DocTypeModification {
		t.Errorf("expected MODIFICATION to win over BILLING, got %q", got)
	}

	// Payment history beats escrow and billing.
	pages = []string{"Transaction history with escrow analysis entries and past due notes"}
	if got := Classify(pages); got != audit.DocTypePaymentHistory {
		t.Errorf("expected PAYMENT_HISTORY to win, got %q", got)
	}
}

func TestClassify_LeadingPagesOnly(t *testing.T) {
	// Keywords beyond the front matter are ignored.
	pages := make([]string, 12)
	for i := range pages {
		pages[i] = "boilerplate"
	}
	pages[10] = "loan modification agreement"
	if got := Classify(pages); got != audit.DocTypeOther {
		t.Errorf("expected OTHER for keyword outside front matter, got %q", got)
	}

	pages[3] = "loan modification agreement"
	if got := Classify(pages); got != audit.DocTypeModification {
		t.Errorf("expected MODIFICATION for keyword inside front matter, got %q", got)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	pages := []string{"PAYMENT HISTORY"}
	if got := Classify(pages); got != audit.DocTypePaymentHistory {
		t.Errorf("expected case-insensitive match, got %q", got)
	}
}
