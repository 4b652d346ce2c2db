package dsindex

import (
	"fmt"
	"math"
)

// Shares are the fractions of an index that go to each part of a split.
// Train always receives whatever test and validation leave over.
type Shares struct {
	Train      float64
	Test       float64
	Validation float64
}

var DefaultShares = Shares{Train: 0.8, Test: 0.2}

// ParseShares accepts:
//   - one value: the train share, test gets the remainder
//   - two values: train and test shares, validation gets the remainder (never below 0)
//   - three values: train, test and validation shares
func ParseShares(values ...float64) (Shares, error) {
	for _, value := range values {
		if math.IsNaN(value) || value < 0 || value > 1 {
			return Shares{}, fmt.Errorf("%w: %v is not within [0, 1]", ErrInvalidShare, value)
		}
	}

	switch len(values) {
	case 1:
		return Shares{Train: values[0], Test: 1 - values[0]}, nil
	case 2:
		return Shares{Train: values[0], Test: values[1], Validation: max(1-values[0]-values[1], 0)}, nil
	case 3:
		return Shares{Train: values[0], Test: values[1], Validation: values[2]}, nil
	default:
		return Shares{}, fmt.Errorf("%w: expected 1 to 3 values, got %d", ErrInvalidShare, len(values))
	}
}

func (s Shares) Validate() error {
	for _, value := range []float64{s.Train, s.Test, s.Validation} {
		if math.IsNaN(value) || value < 0 || value > 1 {
			return fmt.Errorf("%w: %v is not within [0, 1]", ErrInvalidShare, value)
		}
	}
	return nil
}

// Counts converts the shares to item counts for an index of n items. Validation and test are rounded half
// away from zero and claimed in that order; train takes the rest. The counts always sum to n and are never
// negative, even when the shares add up to more than 1.
func (s Shares) Counts(n int) (train, test, validation int) {
	validation = min(shareCount(s.Validation, n), n)
	test = min(shareCount(s.Test, n), n-validation)
	train = n - validation - test
	return train, test, validation
}

func shareCount(share float64, n int) int {
	return max(int(math.Round(share*float64(n))), 0)
}

// CVSplit splits the index into train, test and validation parts, available through [Index.Train],
// [Index.Test] and [Index.Validation]. Empty test or validation parts are left nil. Splitting again replaces
// the previous parts.
func (idx *Index[T]) CVSplit(shares Shares, shuffle bool, opts ...Option) error {
	if err := shares.Validate(); err != nil {
		return err
	}

	n := len(idx.items)
	trainCount, testCount, validationCount := shares.Counts(n)
	if trainCount == 0 {
		return fmt.Errorf("%w: %d items, %d test, %d validation", ErrEmptySplit, n, testCount, validationCount)
	}

	order := identityOrder(n)
	if shuffle {
		shuffleOrder(buildOptions(opts).shuffler, order)
	}

	var validation, test *Index[T]
	var err error
	if validationCount > 0 {
		if validation, err = idx.subIndex(order[:validationCount]); err != nil {
			return fmt.Errorf("failed to build validation part: %w", err)
		}
	}

	if testCount > 0 {
		if test, err = idx.subIndex(order[validationCount : validationCount+testCount]); err != nil {
			return fmt.Errorf("failed to build test part: %w", err)
		}
	}

	train, err := idx.subIndex(order[validationCount+testCount:])
	if err != nil {
		return fmt.Errorf("failed to build train part: %w", err)
	}

	idx.train, idx.test, idx.validation = train, test, validation
	return nil
}

func (idx *Index[T]) subIndex(positions []int) (*Index[T], error) {
	items, err := idx.SubsetByPos(positions)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyIndex
	}
	return &Index[T]{items: items}, nil
}
