// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
// SPDX-FileCopyrightText: 2026 The quark authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package guestinit

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// sortedMap returns an iterator that iterates the given map in lexicographic
// order of the keys.
func sortedMap[K cmp.Ordered, V any](m map[K]V) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, key := range slices.Sorted(maps.Keys(m)) {
			if !yield(key, m[key]) {
				return
			}
		}
	}
}
