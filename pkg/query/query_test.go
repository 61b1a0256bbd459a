// Copyright (c) 2026 Promptix. All rights reserved.

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, StringSlice(""))
	assert.Equal(t, []string{"Pending", "In Progress"}, StringSlice(" Pending, ,In Progress "))
}

func TestAllowed(t *testing.T) {
	got := Allowed("Completed,archived,Pending", "Pending", "In Progress", "Completed")
	assert.Equal(t, []string{"Completed", "Pending"}, got)
	assert.Nil(t, Allowed("nope", "Pending"))
}
