// Package assert provides lightweight invariant checks that panic when
// violated, used throughout this repository to guard preconditions the
// way the source repo's filter and wal packages guard their own.
package assert

import (
	"fmt"
)

// Panics if statement does not resolve to true
func True(stmt bool, msg string, args ...any) {
	if !stmt {
		panic(fmt.Sprintf(msg, args...))
	}
}

// Unique panics if keys contains a repeated value. Used to check that a
// drained batch about to enter the primary store has no repeated key.
func Unique[T comparable](keys []T, msg string, args ...any) {
	seen := make(map[T]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			panic(fmt.Sprintf(msg, args...))
		}
		seen[k] = struct{}{}
	}
}
