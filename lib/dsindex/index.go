// Package dsindex holds the index of a dataset: an ordered, non-empty, flat collection of item
// identifiers, its train/test/validation split and the cursor used to iterate it in batches.
package dsindex

import (
	"fmt"
	"reflect"
)

type Index[T comparable] struct {
	items []T

	// Set by [Index.CVSplit].
	train      *Index[T]
	test       *Index[T]
	validation *Index[T]
}

func New[T comparable](source Source[T]) (*Index[T], error) {
	if source == nil {
		return nil, fmt.Errorf("index source is nil")
	}

	items, err := source.resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	if len(items) == 0 {
		return nil, ErrEmptyIndex
	}

	if err = checkOneDimensional(items); err != nil {
		return nil, err
	}

	return &Index[T]{items: items}, nil
}

// checkOneDimensional rejects items that are themselves arrays, e.g. an index of [2]int rows.
func checkOneDimensional[T comparable](items []T) error {
	typ := reflect.TypeFor[T]()
	switch typ.Kind() {
	case reflect.Array:
		return fmt.Errorf("%w: item type %s", ErrNotOneDimensional, typ)
	case reflect.Interface:
		for i, item := range items {
			value := reflect.ValueOf(item)
			if !value.IsValid() {
				continue
			}
			switch value.Kind() {
			case reflect.Array, reflect.Slice:
				return fmt.Errorf("%w: item %d is %s", ErrNotOneDimensional, i, value.Type())
			}
		}
	}
	return nil
}

func (idx *Index[T]) Len() int {
	return len(idx.items)
}

// Items returns a copy of the items in index order.
func (idx *Index[T]) Items() []T {
	result := make([]T, len(idx.items))
	copy(result, idx.items)
	return result
}

func (idx *Index[T]) At(pos int) (T, error) {
	if pos < 0 || pos >= len(idx.items) {
		var unused T
		return unused, fmt.Errorf("%w: %d (len: %d)", ErrPositionOutOfRange, pos, len(idx.items))
	}
	return idx.items[pos], nil
}

// SubsetByPos returns the items at the given positions, in the order given. Positions may repeat.
func (idx *Index[T]) SubsetByPos(positions []int) ([]T, error) {
	result := make([]T, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= len(idx.items) {
			return nil, fmt.Errorf("%w: %d (len: %d)", ErrPositionOutOfRange, pos, len(idx.items))
		}
		result[i] = idx.items[pos]
	}
	return result, nil
}

// BatchRef names the members of a batch either by their positions in the index or by the items themselves.
type BatchRef[T comparable] struct {
	positions []int
	items     []T
	byPos     bool
}

func ByPositions[T comparable](positions ...int) BatchRef[T] {
	return BatchRef[T]{positions: positions, byPos: true}
}

// ByItems refers to a batch by its members. [Index.CreateBatch] returns them as given, even when there are none,
// but a dataset cannot build a batch without members since every index holds at least one item.
func ByItems[T comparable](items ...T) BatchRef[T] {
	return BatchRef[T]{items: items}
}

func (b BatchRef[T]) ByPos() bool {
	return b.byPos
}

func (b BatchRef[T]) Len() int {
	if b.byPos {
		return len(b.positions)
	}
	return len(b.items)
}

// CreateBatch resolves positional refs against the index. Item refs are returned as they are.
func (idx *Index[T]) CreateBatch(ref BatchRef[T]) ([]T, error) {
	if ref.byPos {
		return idx.SubsetByPos(ref.positions)
	}
	return ref.items, nil
}

// Train returns the train part of the last split, or nil if the index was never split.
func (idx *Index[T]) Train() *Index[T] {
	return idx.train
}

// Test returns nil when the index was not split or the test part was empty.
func (idx *Index[T]) Test() *Index[T] {
	return idx.test
}

// Validation returns nil when the index was not split or the validation part was empty.
func (idx *Index[T]) Validation() *Index[T] {
	return idx.validation
}
