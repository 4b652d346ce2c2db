package iterator

import "fmt"

var ErrFinished = fmt.Errorf("iterator has finished")

// Iterator is a pull-based sequence. Callers stop consuming by no longer calling [Iterator.Next].
type Iterator[T any] interface {
	HasNext() bool
	Next() (T, error)
}

// StreamingIterator is an [Iterator] whose position can be persisted once a value has been handled.
type StreamingIterator[T any] interface {
	Iterator[T]
	CommitOffset() error
}

// Collect returns a new slice containing all the items from an [Iterator].
func Collect[T any](iter Iterator[T]) ([]T, error) {
	var result []T
	for iter.HasNext() {
		value, err := iter.Next()
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

type takeIterator[T any] struct {
	iter  Iterator[T]
	count int
	limit int
}

// Take bounds an iterator (which may be unbounded) to at most n items.
func Take[T any](iter Iterator[T], n int) Iterator[T] {
	return &takeIterator[T]{iter: iter, limit: max(n, 0)}
}

func (ti *takeIterator[T]) HasNext() bool {
	return ti.count < ti.limit && ti.iter.HasNext()
}

func (ti *takeIterator[T]) Next() (T, error) {
	if !ti.HasNext() {
		var unused T
		return unused, ErrFinished
	}

	value, err := ti.iter.Next()
	if err != nil {
		return value, err
	}
	ti.count++
	return value, nil
}
