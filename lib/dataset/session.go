package dataset

import (
	"github.com/artie-labs/dataset/lib/dsindex"
	"github.com/artie-labs/dataset/lib/iterator"
)

// Session iterates a dataset in batches. Like [dsindex.Session] it belongs to a single consumer.
type Session[T comparable, B any] struct {
	dataset *Dataset[T, B]
	cursor  *dsindex.Session[T]
}

func (ds *Dataset[T, B]) NewSession(opts ...dsindex.Option) *Session[T, B] {
	return &Session[T, B]{
		dataset: ds,
		cursor:  ds.index.NewSession(opts...),
	}
}

func (s *Session[T, B]) Cursor() *dsindex.Session[T] {
	return s.cursor
}

func (s *Session[T, B]) Epochs() int {
	return s.cursor.Epochs()
}

func (s *Session[T, B]) NextBatch(opts dsindex.BatchOptions) (B, error) {
	items, err := s.cursor.NextBatch(opts)
	if err != nil {
		var unused B
		return unused, err
	}
	return s.dataset.makeBatch(items)
}

func (s *Session[T, B]) GenBatch(opts dsindex.BatchOptions) iterator.Iterator[B] {
	return iterator.Map(s.cursor.GenBatch(opts), s.dataset.makeBatch)
}
