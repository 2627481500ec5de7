// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package evidence locates bounded, deduplicated evidence references in
// per-page document text.
package evidence

import (
	"regexp"

	"relief-scan/internal/audit"
	"relief-scan/internal/textutil"
)

const (
	// Snippet window around the first matching pattern occurrence.
	snippetBefore = 120
	snippetAfter  = 260
)

// FindHits scans pages in order and returns up to maxHits (page, snippet)
// pairs. A page matches when any pattern matches anywhere in its text; the
// snippet is a normalized window around the first occurrence of the first
// matching pattern. Empty pages never match. This is a bounded preview, not
// an exhaustive scan: collection stops once maxHits pages matched.
func FindHits(pages []string, pats []*regexp.Regexp, maxHits int) []audit.PageHit {
	if maxHits < 1 || len(pats) == 0 {
		return nil
	}
	var hits []audit.PageHit
	for i, text := range pages {
		if text == "" {
			continue
		}
		loc := firstMatch(text, pats)
		if loc < 0 {
			continue
		}
		start := loc - snippetBefore
		if start < 0 {
			start = 0
		}
		end := loc + snippetAfter
		if end > len(text) {
			end = len(text)
		}
		hits = append(hits, audit.PageHit{
			Page:    i + 1,
			Excerpt: textutil.NormalizeExcerpt(text[start:end], textutil.ExcerptMaxLen),
		})
		if len(hits) == maxHits {
			break
		}
	}
	return hits
}

// firstMatch returns the byte offset of the first occurrence of the first
// pattern that matches, or -1.
func firstMatch(text string, pats []*regexp.Regexp) int {
	for _, p := range pats {
		if loc := p.FindStringIndex(text); loc != nil {
			return loc[0]
		}
	}
	return -1
}

// FromHits wraps page hits into evidence references, deriving a locator
// phrase from each excerpt.
func FromHits(docName string, hits []audit.PageHit) []audit.EvidenceRef {
	refs := make([]audit.EvidenceRef, 0, len(hits))
	for _, h := range hits {
		refs = append(refs, audit.EvidenceRef{
			DocName:      docName,
			PageNumber:   h.Page,
			Quote:        h.Excerpt,
			SearchPhrase: textutil.SearchPhrase(h.Excerpt),
		})
	}
	return refs
}

// Dedupe removes repeated references keyed by (doc, page, phrase-or-quote
// prefix), preserving first-seen order.
func Dedupe(refs []audit.EvidenceRef) []audit.EvidenceRef {
	seen := make(map[string]struct{}, len(refs))
	out := make([]audit.EvidenceRef, 0, len(refs))
	for _, r := range refs {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
