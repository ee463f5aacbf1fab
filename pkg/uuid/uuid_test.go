// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tripora/pkg/uuid"
)

/*
TestNew_Ordered checks that consecutive identifiers are valid and sort by time.
*/
func TestNew_Ordered(t *testing.T) {
	first := uuid.New()
	second := uuid.New()

	assert.True(t, uuid.IsValid(first))
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first[:13], second[:13])
	assert.False(t, uuid.IsValid("not-a-uuid"))
}
