// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package convert provides fault-tolerant conversions for query parameters.

Malformed input falls back to a zero or default value. Use [strconv] directly
where a malformed value must be rejected instead.
*/
package convert

import (
	"strconv"
)

// ToIntD converts a string to an int, returning the provided default if parsing fails or string is empty.
func ToIntD(str string, def int) int {

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}
	return def
}

// ToBool parses a boolean string ("true", "1", "false", "0").
// It returns false on empty string or parse error.
func ToBool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}
