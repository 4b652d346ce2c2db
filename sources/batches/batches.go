// Package batches turns a dataset part into a stream of batch messages spanning one or more one-pass epochs.
package batches

import (
	"fmt"
	"log/slog"

	"github.com/artie-labs/dataset/config"
	"github.com/artie-labs/dataset/lib/dataset"
	"github.com/artie-labs/dataset/lib/dsindex"
	"github.com/artie-labs/dataset/lib/kafkalib"
	"github.com/artie-labs/dataset/lib/storage/checkpoint"
)

type Iterator struct {
	runID   string
	part    config.Part
	epochs  int
	opts    dsindex.BatchOptions
	session *dataset.Session[string, []string]
	cursor  *dsindex.Session[string]
	store   *checkpoint.Store
}

// NewIterator starts a session over ds, resuming from the checkpoint of part when store has one.
func NewIterator(ds *dataset.Dataset[string, []string], runID string, part config.Part, cfg config.Iteration, store *checkpoint.Store) (*Iterator, error) {
	var opts []dsindex.Option
	if cfg.Seed != 0 {
		opts = append(opts, dsindex.WithSeed(cfg.Seed))
	}

	session := ds.NewSession(opts...)
	iter := &Iterator{
		runID:   runID,
		part:    part,
		epochs:  cfg.GetEpochs(),
		opts:    dsindex.BatchOptions{Size: cfg.GetBatchSize(), Shuffle: cfg.Shuffle, OnePass: true},
		session: session,
		cursor:  session.Cursor(),
		store:   store,
	}

	if store != nil {
		resumed, err := checkpoint.Resume(store, string(part), iter.cursor)
		if err != nil {
			return nil, err
		}

		if resumed {
			slog.Info("Resuming from checkpoint",
				slog.String("part", string(part)),
				slog.Int("epochs", iter.cursor.Epochs()),
				slog.Int("start", iter.cursor.State().Start),
			)
		}
	}

	return iter, nil
}

func (i *Iterator) HasNext() bool {
	return i.cursor.Epochs() < i.epochs
}

func (i *Iterator) Next() ([]kafkalib.BatchMessage, error) {
	epoch := i.cursor.Epochs()
	batchNumber := i.cursor.State().Start / i.opts.Size
	items, err := i.session.NextBatch(i.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to produce batch: %w", err)
	}

	if i.cursor.Epochs() > epoch {
		slog.Info("Finished epoch", slog.String("part", string(i.part)), slog.Int("epoch", epoch))
	}

	return []kafkalib.BatchMessage{
		{
			RunID: i.runID,
			Part:  string(i.part),
			Epoch: epoch,
			Batch: batchNumber,
			Items: items,
		},
	}, nil
}

// CommitOffset saves the cursor so that a restart continues after the last handled batch.
func (i *Iterator) CommitOffset() error {
	if i.store == nil {
		return nil
	}

	if err := i.store.Save(string(i.part), i.cursor.State()); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}
