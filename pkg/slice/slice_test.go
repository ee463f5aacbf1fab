// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tripora/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[string, int](nil, func(s string) int { return len(s) }))
	assert.Equal(t, []int{1, 3}, slice.Map([]string{"a", "abc"}, func(s string) int { return len(s) }))
}

func TestFilter(t *testing.T) {
	kept := slice.Filter([]string{"login", "promo_banner", "logout"}, func(s string) bool {
		return strings.HasPrefix(s, "log")
	})
	assert.Equal(t, []string{"login", "logout"}, kept)
}
