package iterator

type batchIterator[T any] struct {
	iter Iterator[T]
	step int
}

// Batch groups consecutive items of an iterator into slices of the given step size.
// The last slice may be shorter.
func Batch[T any](iter Iterator[T], step int) Iterator[[]T] {
	return &batchIterator[T]{
		iter: iter,
		step: max(step, 1),
	}
}

func (bi *batchIterator[T]) HasNext() bool {
	return bi.iter.HasNext()
}

func (bi *batchIterator[T]) Next() ([]T, error) {
	if !bi.HasNext() {
		return nil, ErrFinished
	}

	buffer := make([]T, 0, bi.step)
	for bi.HasNext() {
		item, err := bi.iter.Next()
		if err != nil {
			return nil, err
		}
		buffer = append(buffer, item)
		if len(buffer) >= bi.step {
			break
		}
	}

	return buffer, nil
}
