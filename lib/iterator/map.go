package iterator

type mapIterator[A any, B any] struct {
	iter        Iterator[A]
	transformer func(A) (B, error)
}

// Map transforms every item of iter. The first transformer error is returned from [Iterator.Next].
func Map[A any, B any](iter Iterator[A], transformer func(A) (B, error)) Iterator[B] {
	return &mapIterator[A, B]{
		iter:        iter,
		transformer: transformer,
	}
}

func (m *mapIterator[A, B]) HasNext() bool {
	return m.iter.HasNext()
}

func (m *mapIterator[A, B]) Next() (B, error) {
	item, err := m.iter.Next()
	if err != nil {
		var unused B
		return unused, err
	}
	return m.transformer(item)
}
