// Copyright (c) 2026 Promptix. All rights reserved.

/*
Package uuid generates the time-ordered identifiers used as primary keys for
tasks, projects, item requests, and departments.

Version 7 ids sort by creation time, so "newest first" listings can fall back
to id order when two rows share a created_at timestamp.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source is unavailable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	return uuid.Validate(s) == nil
}
