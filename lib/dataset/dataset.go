// Package dataset binds an index to a batch factory, turning subsets of the index into domain batches.
package dataset

import (
	"fmt"
	"reflect"

	"github.com/artie-labs/dataset/lib/dsindex"
)

var ErrNoBatchFactory = fmt.Errorf("dataset has no batch factory")

// BatchFactory materializes a batch from the sub-index of its members.
type BatchFactory[T comparable, B any] interface {
	MakeBatch(index *dsindex.Index[T]) (B, error)
}

type BatchFactoryFunc[T comparable, B any] func(index *dsindex.Index[T]) (B, error)

func (f BatchFactoryFunc[T, B]) MakeBatch(index *dsindex.Index[T]) (B, error) {
	return f(index)
}

// Dataset is an index plus the factory that builds its batches. Without a factory the batches are the
// sub-indices themselves, which requires B to be *dsindex.Index[T].
type Dataset[T comparable, B any] struct {
	index   *dsindex.Index[T]
	factory BatchFactory[T, B]

	train      *Dataset[T, B]
	test       *Dataset[T, B]
	validation *Dataset[T, B]
}

func New[T comparable, B any](index *dsindex.Index[T], factory BatchFactory[T, B]) (*Dataset[T, B], error) {
	if index == nil {
		return nil, fmt.Errorf("dataset index is nil")
	}

	return &Dataset[T, B]{index: index, factory: factory}, nil
}

// FromDataset returns ds itself when index is ds's index and factory is nil or ds's factory. Otherwise it
// returns a new dataset over index with factory, or ds's factory when factory is nil.
func FromDataset[T comparable, B any](ds *Dataset[T, B], index *dsindex.Index[T], factory BatchFactory[T, B]) (*Dataset[T, B], error) {
	if ds == nil {
		return nil, fmt.Errorf("source dataset is nil")
	}

	if index == ds.index && (factory == nil || sameFactory(factory, ds.factory)) {
		return ds, nil
	}

	if factory == nil {
		factory = ds.factory
	}
	return New(index, factory)
}

// sameFactory compares factories without panicking on uncomparable implementations, including comparable
// types whose interface fields hold uncomparable values. Funcs are compared by their code pointer.
func sameFactory[T comparable, B any](a, b BatchFactory[T, B]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	typ := reflect.TypeOf(a)
	if typ != reflect.TypeOf(b) {
		return false
	}

	switch {
	case typ.Kind() == reflect.Func:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.ValueOf(a).Comparable() && reflect.ValueOf(b).Comparable():
		return a == b
	default:
		return false
	}
}

func (ds *Dataset[T, B]) Index() *dsindex.Index[T] {
	return ds.index
}

func (ds *Dataset[T, B]) Factory() BatchFactory[T, B] {
	return ds.factory
}

func (ds *Dataset[T, B]) Len() int {
	return ds.index.Len()
}

// CreateBatch resolves ref against the index and hands the members to the factory. Factory errors are
// returned unchanged. A ref without members fails with [dsindex.ErrEmptyIndex].
func (ds *Dataset[T, B]) CreateBatch(ref dsindex.BatchRef[T]) (B, error) {
	items, err := ds.index.CreateBatch(ref)
	if err != nil {
		var unused B
		return unused, err
	}
	return ds.makeBatch(items)
}

func (ds *Dataset[T, B]) makeBatch(items []T) (B, error) {
	var unused B
	members, err := dsindex.New(dsindex.FromSlice(items))
	if err != nil {
		return unused, fmt.Errorf("failed to build batch index: %w", err)
	}

	if ds.factory != nil {
		return ds.factory.MakeBatch(members)
	}

	batch, isOk := any(members).(B)
	if !isOk {
		return unused, fmt.Errorf("%w: batches of type %T need one", ErrNoBatchFactory, unused)
	}
	return batch, nil
}

// CVSplit splits the index and wraps each part as a dataset with the same factory.
func (ds *Dataset[T, B]) CVSplit(shares dsindex.Shares, shuffle bool, opts ...dsindex.Option) error {
	if err := ds.index.CVSplit(shares, shuffle, opts...); err != nil {
		return err
	}

	train, err := FromDataset(ds, ds.index.Train(), nil)
	if err != nil {
		return fmt.Errorf("failed to wrap train part: %w", err)
	}

	var test, validation *Dataset[T, B]
	if ds.index.Test() != nil {
		if test, err = FromDataset(ds, ds.index.Test(), nil); err != nil {
			return fmt.Errorf("failed to wrap test part: %w", err)
		}
	}

	if ds.index.Validation() != nil {
		if validation, err = FromDataset(ds, ds.index.Validation(), nil); err != nil {
			return fmt.Errorf("failed to wrap validation part: %w", err)
		}
	}

	ds.train, ds.test, ds.validation = train, test, validation
	return nil
}

func (ds *Dataset[T, B]) Train() *Dataset[T, B] {
	return ds.train
}

func (ds *Dataset[T, B]) Test() *Dataset[T, B] {
	return ds.test
}

func (ds *Dataset[T, B]) Validation() *Dataset[T, B] {
	return ds.validation
}
