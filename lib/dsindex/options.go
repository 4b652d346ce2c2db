package dsindex

import "math/rand/v2"

// Shuffler permutes n elements through swap. [*rand.Rand] implements it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

type options struct {
	shuffler Shuffler
}

type Option func(*options)

// WithShuffler sets the random source used for shuffled splits and epochs.
func WithShuffler(shuffler Shuffler) Option {
	return func(o *options) {
		if shuffler != nil {
			o.shuffler = shuffler
		}
	}
}

// WithSeed makes shuffling reproducible.
func WithSeed(seed uint64) Option {
	return WithShuffler(rand.New(rand.NewPCG(seed, seed)))
}

func buildOptions(opts []Option) options {
	o := options{shuffler: globalShuffler{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

func shuffleOrder(shuffler Shuffler, order []int) {
	shuffler.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
}
