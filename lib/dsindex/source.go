package dsindex

import (
	"fmt"
	"slices"

	"github.com/artie-labs/dataset/lib/iterator"
)

// Source is where the items of an [Index] come from. It is resolved exactly once, when the index is built.
type Source[T comparable] interface {
	resolve() ([]T, error)
}

type sliceSource[T comparable] struct {
	items []T
}

// FromSlice is a literal source. The slice is copied.
func FromSlice[T comparable](items []T) Source[T] {
	return sliceSource[T]{items: items}
}

func (s sliceSource[T]) resolve() ([]T, error) {
	return slices.Clone(s.items), nil
}

type deferredSource[T comparable] struct {
	fn func() ([]T, error)
}

// Deferred is a source that calls fn to produce the items. Out-of-core listings (files, object stores,
// database keys) are expressed this way.
func Deferred[T comparable](fn func() ([]T, error)) Source[T] {
	return deferredSource[T]{fn: fn}
}

func (d deferredSource[T]) resolve() ([]T, error) {
	if d.fn == nil {
		return nil, fmt.Errorf("deferred source has no function")
	}
	return d.fn()
}

type indexSource[T comparable] struct {
	index *Index[T]
}

// FromIndex re-indexes an existing index. The result is flat, never an index of indices.
func FromIndex[T comparable](idx *Index[T]) Source[T] {
	return indexSource[T]{index: idx}
}

func (i indexSource[T]) resolve() ([]T, error) {
	if i.index == nil {
		return nil, ErrEmptyIndex
	}
	// Items are never mutated after construction so sharing the backing slice is safe.
	return i.index.items, nil
}

type iteratorSource[T comparable] struct {
	iter iterator.Iterator[T]
}

// FromIterator drains iter when the index is built.
func FromIterator[T comparable](iter iterator.Iterator[T]) Source[T] {
	return iteratorSource[T]{iter: iter}
}

func (i iteratorSource[T]) resolve() ([]T, error) {
	items, err := iterator.Collect(i.iter)
	if err != nil {
		return nil, fmt.Errorf("failed to collect items: %w", err)
	}
	return items, nil
}
