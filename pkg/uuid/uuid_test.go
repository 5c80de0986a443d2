// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cabinet/pkg/uuid"
)

/*
TestNew generates distinct, time-ordered identifiers.
*/
func TestNew(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.NotEqual(t, first, second)
	assert.Equal(t, byte('7'), first[14], "version nibble")
}

/*
TestIsValid rejects anything that is not a canonical UUID.
*/
func TestIsValid(t *testing.T) {
	assert.True(t, uuid.IsValid("0190a6f2-7c1e-7000-8000-000000000001"))
	assert.False(t, uuid.IsValid("5c1a0c3d9f1b2a0017e4b8f1"))
	assert.False(t, uuid.IsValid("{0190a6f2-7c1e-7000-8000-000000000001}"))
	assert.False(t, uuid.IsValid(""))
}
