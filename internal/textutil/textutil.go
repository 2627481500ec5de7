// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package textutil

import (
	"strings"
)

// ExcerptMaxLen is the display limit for normalized excerpts.
const ExcerptMaxLen = 220

// PhraseTokens is the number of tokens kept for a locator phrase.
const PhraseTokens = 6

// stopWords are dropped when deriving a locator phrase. Short function words
// only; domain terms must survive so the phrase stays searchable.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {}, "the": {},
	"this": {}, "to": {}, "was": {}, "were": {}, "will": {}, "with": {},
	"you": {}, "your": {},
}

// Collapse replaces every whitespace run with a single space and trims the
// result.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeExcerpt collapses whitespace and truncates to maxLen with an
// ellipsis marker. A maxLen below 1 falls back to ExcerptMaxLen.
func NormalizeExcerpt(s string, maxLen int) string {
	if maxLen < 1 {
		maxLen = ExcerptMaxLen
	}
	t := Collapse(s)
	r := []rune(t)
	if len(r) <= maxLen {
		return t
	}
	return string(r[:maxLen]) + "…"
}

// SearchPhrase derives a short locator phrase from an excerpt: quote
// characters stripped, stop words dropped, the first PhraseTokens surviving
// tokens kept in original order and casing. The phrase is usable verbatim for
// search inside the source document. Falls back to the first raw tokens when
// stop-word filtering leaves too few.
func SearchPhrase(excerpt string) string {
	tokens := strings.Fields(excerpt)
	cleaned := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.Trim(tok, `"'“”‘’`)
		if tok == "" {
			continue
		}
		cleaned = append(cleaned, tok)
	}

	var kept []string
	for _, tok := range cleaned {
		if _, stop := stopWords[strings.ToLower(tok)]; stop {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == PhraseTokens {
			break
		}
	}

	// Too aggressive a filter makes a useless phrase; fall back to raw tokens.
	if len(kept) < 3 {
		kept = cleaned
		if len(kept) > PhraseTokens {
			kept = kept[:PhraseTokens]
		}
	}

	return strings.Join(kept, " ")
}
