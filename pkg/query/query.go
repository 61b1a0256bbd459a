// Package query parses multi-value list filters such as ?status=Pending,Completed.
package query

import (
	"slices"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Allowed parses val like [StringSlice] and keeps only entries present in allowed.
// Matching is exact; the returned entries keep the caller's order.
func Allowed(val string, allowed ...string) []string {
	var res []string
	for _, v := range StringSlice(val) {
		if slices.Contains(allowed, v) {
			res = append(res, v)
		}
	}
	return res
}
