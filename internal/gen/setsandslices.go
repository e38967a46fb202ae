//    TextAnalysisWorkbench
//    Copyright: E Gunderson 2024-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package gen

import (
	"cmp"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

//
// SETS AND SLICES
//

// ToSet - returns a blank map of a slice
func ToSet[T comparable](sl []T) map[T]struct{} {
	m := make(map[T]struct{}, len(sl))
	for i := 0; i < len(sl); i++ {
		m[sl[i]] = struct{}{}
	}
	return m
}

// SetUnion - every key found in any of the sets
func SetUnion[T comparable](sets ...map[T]struct{}) map[T]struct{} {
	u := make(map[T]struct{})
	for _, s := range sets {
		for k := range s {
			u[k] = struct{}{}
		}
	}
	return u
}

// SortedKeys - map keys in ascending order
func SortedKeys[K cmp.Ordered, V any](mp map[K]V) []K {
	kk := maps.Keys(mp)
	slices.Sort(kk)
	return kk
}

// Clamp - v forced into [lo, hi]
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
