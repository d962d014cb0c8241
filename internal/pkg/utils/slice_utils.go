package utils

import (
	"slices"
	"strings"
)

// SortedUniqueStrings returns the non-empty items sorted and without duplicates.
func SortedUniqueStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
