// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns holds the fixed, case-insensitive pattern sets the rules
// and inference code scan for. Everything is compiled once at init; callers
// must treat the slices as read-only.
package patterns

import "regexp"

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+e))
	}
	return out
}

// Forbearance matches COVID-era relief language.
var Forbearance = compileAll(
	`forbear`,
	`covid`,
	`\bcares\b`,
	`payment\s+pause`,
)

// Delinquency matches late-fee / past-due servicing language.
var Delinquency = compileAll(
	`late\s+fee`,
	`delinquen`,
	`past\s+due`,
)

// Suspense matches suspense-account references.
var Suspense = compileAll(`suspense`)

// Escrow matches escrow references.
var Escrow = compileAll(`escrow`)

// Modification matches loan-modification language.
var Modification = compileAll(
	`loan\s+modification`,
	`modification\s+agreement`,
	`change\s+in\s+terms`,
	`effective\s+date\s+of\s+(?:the\s+|this\s+)?modification`,
)

// Capitalization matches arrears-capitalization language collected as a
// separate evidence bucket during modification-terms inference.
var Capitalization = compileAll(
	`capitaliz`,
	`arrears`,
	`deferred`,
	`unpaid\s+principal\s+balance`,
	`past[\s-]+due\s+amount`,
)

// VACoordination matches VA loan-guaranty program language.
var VACoordination = compileAll(
	`\bVA\b`,
	`loan\s+guaranty`,
	`VALERI`,
	`veterans\s+affairs`,
	`department\s+of\s+veterans`,
)

// TermAnchors matches the labels term inference keys on; used to collect
// anchor evidence alongside baseline/modification term extraction.
var TermAnchors = compileAll(
	`interest\s+rate`,
	`note\s+rate`,
	`principal\s+and\s+interest`,
	`p\s*&\s*i\b`,
	`p/i\b`,
	`escrow`,
	`total\s+monthly\s+payment`,
	`monthly\s+payment`,
	`total\s+payment`,
	`amount\s+due`,
)

// Money matches a currency-formatted number: optional $, thousands
// separators, optional cents. Group 1 is the numeric portion.
var Money = regexp.MustCompile(`(?:^|[^\w$])\$?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)\b`)

// Rate matches an NN.NN% or NN.NNN% rate. Group 1 is the numeric portion.
var Rate = regexp.MustCompile(`([0-9]{1,2}\.[0-9]{2,3})\s*%`)

// Dates matches mm/dd/yyyy and "Month dd, yyyy" date spellings.
var Dates = []*regexp.Regexp{
	regexp.MustCompile(`\b(0?[1-9]|1[0-2])[/-](0?[1-9]|[12][0-9]|3[01])[/-]((19|20)[0-9][0-9])\b`),
	regexp.MustCompile(`(?i)\b(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\s+([0-3]?[0-9]),\s+((19|20)[0-9][0-9])\b`),
}

// SummaryKeywords drive the per-document keyword-hit summaries. Substring
// match, lowercase.
var SummaryKeywords = []string{
	"covid", "forbear", "cares", "suspense", "late fee", "delinquen",
	"escrow", "modification", "capitaliz", "loss mitigation", "reinstatement",
}

var summaryKeywordRegexps = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(SummaryKeywords))
	for _, k := range SummaryKeywords {
		out = append(out, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(k)))
	}
	return out
}()

// SummaryKeywordRegexps returns the summary keyword list compiled for the
// evidence locator. Read-only.
func SummaryKeywordRegexps() []*regexp.Regexp {
	return summaryKeywordRegexps
}

// Classifier keyword groups, tested in taxonomy priority order.
var (
	ClassifyModification = []string{
		"loan modification", "modification agreement", "change in terms",
	}
	ClassifyPaymentHistory = []string{
		"payment history", "transaction history", "payment ledger",
	}
	// ESCROW requires both words present; see classifier.Classify.
	ClassifyEscrowBoth = []string{"escrow", "analysis"}
	ClassifyBilling    = []string{
		"amount due", "billing statement", "late charge", "past due",
		"payment due date",
	}
)

// Term-label proximity patterns used by term inference. The label must be
// followed by the value within a bounded distance; see internal/terms.
var (
	RateLabeled = regexp.MustCompile(`(?i)(?:interest\s+rate|note\s+rate)[^%]{0,60}?([0-9]{1,2}\.[0-9]{2,3})\s*%`)

	PILabeled     = amountLabeled(`principal\s+and\s+interest|p\s*&\s*i\b|p/i\b`)
	EscrowLabeled = amountLabeled(`escrow`)
	TotalLabeled  = amountLabeled(`total\s+monthly\s+payment|monthly\s+payment|total\s+payment|amount\s+due`)
)

func amountLabeled(labels string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)(?:` + labels + `).{0,80}?\$?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{2})?)\b`)
}
