// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds optional values for JSON views, where a nil pointer
// means "omit the field".
package pointer

// NonZero returns a pointer to v, or nil when v is its type's zero value.
// Types with their own IsZero method (time.Time) use it.
func NonZero[T comparable](v T) *T {
	var zero T
	if z, ok := any(v).(interface{ IsZero() bool }); ok {
		if z.IsZero() {
			return nil
		}
		return &v
	}
	if v == zero {
		return nil
	}
	return &v
}
