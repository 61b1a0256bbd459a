// Copyright (c) 2026 Promptix. All rights reserved.

package directory

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeLogin canonicalizes an email or username for lookup.
//
// The value is trimmed, NFKC-normalized, and case-folded, so full-width or
// differently-cased input resolves to the same directory row.
func NormalizeLogin(login string) string {
	return folder.String(norm.NFKC.String(strings.TrimSpace(login)))
}

// IsEmail reports whether a normalized login looks like an email address.
func IsEmail(login string) bool {
	return strings.Contains(login, "@")
}
