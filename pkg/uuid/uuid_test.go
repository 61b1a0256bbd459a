// Copyright (c) 2026 Promptix. All rights reserved.

package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	a, b := New(), New()

	assert.NotEqual(t, a, b)
	assert.True(t, IsValid(a))
	assert.Len(t, a, 36)
	assert.Equal(t, byte('7'), a[14], "version nibble")
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid("design-development"))
	assert.False(t, IsValid(""))
	assert.True(t, IsValid("0190a4e2-8f4b-7c3d-9a1e-5b6c7d8e9f00"))
}
