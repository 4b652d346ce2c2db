package batches

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artie-labs/dataset/config"
	"github.com/artie-labs/dataset/lib/dataset"
	"github.com/artie-labs/dataset/lib/dsindex"
	"github.com/artie-labs/dataset/lib/iterator"
	"github.com/artie-labs/dataset/lib/kafkalib"
	"github.com/artie-labs/dataset/lib/storage/checkpoint"
)

func keys(count int) []string {
	var out []string
	for i := range count {
		out = append(out, fmt.Sprintf("key-%02d", i))
	}
	return out
}

func newDataset(t *testing.T, count int) *dataset.Dataset[string, []string] {
	index, err := dsindex.New(dsindex.FromSlice(keys(count)))
	require.NoError(t, err)

	ds, err := dataset.New[string, []string](index, dataset.BatchFactoryFunc[string, []string](func(index *dsindex.Index[string]) ([]string, error) {
		return index.Items(), nil
	}))
	require.NoError(t, err)
	return ds
}

func collect(t *testing.T, iter iterator.StreamingIterator[[]kafkalib.BatchMessage]) []kafkalib.BatchMessage {
	var msgs []kafkalib.BatchMessage
	for iter.HasNext() {
		batch, err := iter.Next()
		require.NoError(t, err)
		msgs = append(msgs, batch...)
		require.NoError(t, iter.CommitOffset())
	}
	return msgs
}

func TestIterator(t *testing.T) {
	ds := newDataset(t, 10)
	{
		// Two one-pass epochs
		iter, err := NewIterator(ds, "run", config.PartAll, config.Iteration{BatchSize: 4, Epochs: 2}, nil)
		assert.NoError(t, err)

		msgs := collect(t, iter)
		assert.Len(t, msgs, 6)

		var batches []int
		for _, msg := range msgs {
			batches = append(batches, msg.Batch)
		}
		assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, batches)
		assert.Equal(t, keys(10)[:4], msgs[0].Items)
		assert.Equal(t, keys(10)[8:], msgs[2].Items)
		assert.Equal(t, 0, msgs[2].Epoch)
		assert.Equal(t, 1, msgs[3].Epoch)
		assert.Equal(t, "all", msgs[3].Part)
		assert.Equal(t, "run", msgs[3].RunID)
	}
	{
		// Defaults to one epoch of the default batch size
		iter, err := NewIterator(ds, "run", config.PartAll, config.Iteration{}, nil)
		assert.NoError(t, err)

		msgs := collect(t, iter)
		assert.Len(t, msgs, 1)
		assert.Equal(t, keys(10), msgs[0].Items)
		assert.False(t, iter.HasNext())
	}
	{
		// Shuffled epochs cover every item once
		iter, err := NewIterator(ds, "run", config.PartAll, config.Iteration{BatchSize: 3, Epochs: 2, Shuffle: true, Seed: 11}, nil)
		assert.NoError(t, err)

		perEpoch := map[int][]string{}
		for _, msg := range collect(t, iter) {
			perEpoch[msg.Epoch] = append(perEpoch[msg.Epoch], msg.Items...)
		}
		assert.Len(t, perEpoch, 2)
		assert.ElementsMatch(t, keys(10), perEpoch[0])
		assert.ElementsMatch(t, keys(10), perEpoch[1])
	}
}

func TestIterator_Checkpoint(t *testing.T) {
	ds := newDataset(t, 10)
	store, err := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.yaml"))
	require.NoError(t, err)

	cfg := config.Iteration{BatchSize: 4, Epochs: 1, Shuffle: true, Seed: 3}
	{
		iter, err := NewIterator(ds, "run", config.PartTrain, cfg, store)
		assert.NoError(t, err)
		assert.Len(t, collect(t, iter), 3)

		state, isOk := store.Get("train")
		assert.True(t, isOk)
		assert.Equal(t, 1, state.Epochs)
		assert.Equal(t, 0, state.Start)
	}
	{
		// Picks up at the second epoch
		cfg.Epochs = 2
		iter, err := NewIterator(ds, "run", config.PartTrain, cfg, store)
		assert.NoError(t, err)

		msgs := collect(t, iter)
		assert.Len(t, msgs, 3)

		var seen []string
		for _, msg := range msgs {
			assert.Equal(t, 1, msg.Epoch)
			seen = append(seen, msg.Items...)
		}
		assert.ElementsMatch(t, keys(10), seen)
	}
	{
		// Nothing left to do
		iter, err := NewIterator(ds, "run", config.PartTrain, cfg, store)
		assert.NoError(t, err)
		assert.False(t, iter.HasNext())
	}
	{
		// Resumes mid-epoch from a reopened store
		reopened, err := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.yaml"))
		require.NoError(t, err)
		require.NoError(t, reopened.Save("test", dsindex.SessionState{Order: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, Start: 8}))

		iter, err := NewIterator(ds, "run", config.PartTest, config.Iteration{BatchSize: 4}, reopened)
		assert.NoError(t, err)

		msgs := collect(t, iter)
		assert.Len(t, msgs, 1)
		assert.Equal(t, 2, msgs[0].Batch)
		assert.Equal(t, keys(10)[8:], msgs[0].Items)
	}
	{
		// Checkpoint from an index of another length
		bad, err := checkpoint.NewStore(filepath.Join(t.TempDir(), "checkpoint.yaml"))
		require.NoError(t, err)
		require.NoError(t, bad.Save("all", dsindex.SessionState{Order: []int{1, 0}}))

		_, err = NewIterator(ds, "run", config.PartAll, config.Iteration{}, bad)
		assert.ErrorIs(t, err, dsindex.ErrInvalidState)
	}
}
