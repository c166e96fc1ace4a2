// Package enums holds the closed string sets stored in postgres enum
// columns and exchanged over the API. Matching is exact.
package enums

import (
	"fmt"
	"slices"
)

// set lists the legal values of one string enum in declaration order.
type set[T ~string] []T

func (s set[T]) has(v T) bool {
	return slices.Contains(s, v)
}

func (s set[T]) parse(kind, raw string) (T, error) {
	if v := T(raw); s.has(v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, raw)
}
