package dsindex

import (
	"fmt"
	"slices"

	"github.com/artie-labs/dataset/lib/iterator"
)

type BatchOptions struct {
	Size int
	// Shuffle draws a fresh permutation of the index for every epoch.
	Shuffle bool
	// OnePass ends the batch that reaches the end of an epoch there, instead of filling it from the next epoch.
	OnePass bool
}

// Session is a cursor over an index. It belongs to a single consumer and is not safe for concurrent use;
// give every consumer its own session.
type Session[T comparable] struct {
	// immutable
	index    *Index[T]
	shuffler Shuffler

	// mutable
	order  []int
	start  int
	epochs int
}

func (idx *Index[T]) NewSession(opts ...Option) *Session[T] {
	return &Session[T]{
		index:    idx,
		shuffler: buildOptions(opts).shuffler,
	}
}

func (s *Session[T]) Index() *Index[T] {
	return s.index
}

// Epochs is the number of completed passes over the index.
func (s *Session[T]) Epochs() int {
	return s.epochs
}

// NextBatch returns the next opts.Size items. A batch that reaches the end of the epoch is completed with items
// from the start of the next epoch, which is reshuffled first when opts.Shuffle is set, so every item is
// visited exactly once per epoch. With opts.OnePass that batch is cut at the epoch boundary instead.
func (s *Session[T]) NextBatch(opts BatchOptions) ([]T, error) {
	if opts.Size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, opts.Size)
	}

	n := s.index.Len()
	if s.order == nil {
		s.order = identityOrder(n)
		if opts.Shuffle {
			shuffleOrder(s.shuffler, s.order)
		}
	}

	positions := make([]int, 0, opts.Size)
	needed := opts.Size
	for s.start+needed >= n {
		// The rest of this epoch goes first, then whatever is still needed comes from the next one.
		positions = append(positions, s.order[s.start:]...)
		needed -= n - s.start
		s.start = 0
		s.epochs++
		if opts.Shuffle {
			shuffleOrder(s.shuffler, s.order)
		}

		if opts.OnePass {
			return s.index.SubsetByPos(positions)
		}
	}

	positions = append(positions, s.order[s.start:s.start+needed]...)
	s.start += needed
	return s.index.SubsetByPos(positions)
}

type batchGenerator[T comparable] struct {
	session    *Session[T]
	opts       BatchOptions
	startEpoch int
}

// GenBatch restarts the cursor at the beginning of a new order and returns the sequence of batches.
// The sequence is unbounded unless opts.OnePass is set, in which case it ends after one full epoch.
// Use [iterator.Take] to bound it.
func (s *Session[T]) GenBatch(opts BatchOptions) iterator.Iterator[[]T] {
	s.start = 0
	s.order = nil
	return &batchGenerator[T]{
		session:    s,
		opts:       opts,
		startEpoch: s.epochs,
	}
}

func (g *batchGenerator[T]) HasNext() bool {
	return !g.opts.OnePass || g.session.epochs <= g.startEpoch
}

func (g *batchGenerator[T]) Next() ([]T, error) {
	if !g.HasNext() {
		return nil, iterator.ErrFinished
	}
	return g.session.NextBatch(g.opts)
}

// SessionState is a snapshot of a session's cursor.
type SessionState struct {
	Order  []int `yaml:"order" json:"order"`
	Start  int   `yaml:"start" json:"start"`
	Epochs int   `yaml:"epochs" json:"epochs"`
}

func (s *Session[T]) State() SessionState {
	return SessionState{
		Order:  slices.Clone(s.order),
		Start:  s.start,
		Epochs: s.epochs,
	}
}

// Restore moves the cursor to a previously captured state. The state must belong to an index of the same length.
func (s *Session[T]) Restore(state SessionState) error {
	n := s.index.Len()
	if state.Epochs < 0 {
		return fmt.Errorf("%w: negative epochs %d", ErrInvalidState, state.Epochs)
	}

	if len(state.Order) == 0 {
		if state.Start != 0 {
			return fmt.Errorf("%w: start %d without an order", ErrInvalidState, state.Start)
		}
	} else {
		if len(state.Order) != n {
			return fmt.Errorf("%w: order has %d positions, index has %d items", ErrInvalidState, len(state.Order), n)
		}

		seen := make([]bool, n)
		for _, pos := range state.Order {
			if pos < 0 || pos >= n || seen[pos] {
				return fmt.Errorf("%w: order is not a permutation", ErrInvalidState)
			}
			seen[pos] = true
		}

		if state.Start < 0 || state.Start >= n {
			return fmt.Errorf("%w: start %d is out of range", ErrInvalidState, state.Start)
		}
	}

	s.order = nil
	if len(state.Order) > 0 {
		s.order = slices.Clone(state.Order)
	}
	s.start = state.Start
	s.epochs = state.Epochs
	return nil
}
