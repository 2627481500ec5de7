// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"strconv"
	"strings"

	"relief-scan/internal/patterns"
)

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// largestAmount returns the largest currency value on the given 1-indexed
// page, ignoring values that fail to parse.
func largestAmount(pages []string, page int) (float64, bool) {
	if page < 1 || page > len(pages) {
		return 0, false
	}
	var best float64
	found := false
	for _, m := range patterns.Money.FindAllStringSubmatch(pages[page-1], -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
