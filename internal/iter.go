// Package internal holds helpers shared by the hack packages.
package internal

import (
	"iter"
)

// IterSeq2Concat concatenates key/value iterators, in order, into a single
// iterator. Keys duplicated between iterators are yielded once per iterator.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
