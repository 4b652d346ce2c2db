package dsindex

import "fmt"

var (
	ErrEmptyIndex         = fmt.Errorf("index cannot be empty")
	ErrNotOneDimensional  = fmt.Errorf("index should be 1-dimensional")
	ErrPositionOutOfRange = fmt.Errorf("position is out of range")
	ErrInvalidShare       = fmt.Errorf("invalid split share")
	ErrEmptySplit         = fmt.Errorf("split leaves the train part empty")
	ErrInvalidBatchSize   = fmt.Errorf("batch size must be at least 1")
	ErrInvalidState       = fmt.Errorf("invalid session state")
)
