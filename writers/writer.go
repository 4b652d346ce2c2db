package writers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/artie-labs/dataset/lib/iterator"
	"github.com/artie-labs/dataset/lib/kafkalib"
	"github.com/artie-labs/dataset/lib/mtr"
)

type DestinationWriter interface {
	Write(ctx context.Context, msgs []kafkalib.BatchMessage) error
	OnComplete(ctx context.Context) error
}

type Writer struct {
	destinationWriter DestinationWriter
	statsD            mtr.Client
	logProgress       bool
}

// New returns a writer. destinationWriter may be nil, in which case batches are only counted and committed.
func New(destinationWriter DestinationWriter, statsD mtr.Client, logProgress bool) Writer {
	if statsD == nil {
		statsD = mtr.NullClient{}
	}
	return Writer{destinationWriter: destinationWriter, statsD: statsD, logProgress: logProgress}
}

// Write writes all the batches from an iterator to the destination and returns the number of items written.
func (w *Writer) Write(ctx context.Context, iter iterator.Iterator[[]kafkalib.BatchMessage]) (int, error) {
	start := time.Now()
	var count int
	for iter.HasNext() {
		iterStart := time.Now()
		msgs, err := iter.Next()
		if err != nil {
			return 0, fmt.Errorf("failed to iterate over batches: %w", err)
		}

		var items int
		for _, msg := range msgs {
			items += len(msg.Items)
		}

		if len(msgs) > 0 && w.destinationWriter != nil {
			if err = w.destinationWriter.Write(ctx, msgs); err != nil {
				return 0, fmt.Errorf("failed to write batches: %w", err)
			}
		}

		// Is it a streaming iterator? if so, let's commit the offset.
		if streamingIter, isOk := iter.(iterator.StreamingIterator[[]kafkalib.BatchMessage]); isOk {
			if err = streamingIter.CommitOffset(); err != nil {
				return 0, fmt.Errorf("failed to commit offset: %w", err)
			}
		}

		count += items
		for _, msg := range msgs {
			tags := map[string]string{"part": msg.Part}
			w.statsD.Incr("batch.produced", tags)
			w.statsD.Count("batch.items", int64(len(msg.Items)), tags)
		}
		w.statsD.Timing("batch.duration", time.Since(iterStart), nil)

		if w.logProgress {
			slog.Info("Write progress",
				slog.Int("totalSize", count),
				slog.Duration("totalDuration", time.Since(start)),
				slog.Int("batchSize", items),
				slog.Duration("batchDuration", time.Since(iterStart)),
			)
		}
	}

	if count > 0 && w.destinationWriter != nil {
		if err := w.destinationWriter.OnComplete(ctx); err != nil {
			return 0, fmt.Errorf("failed running destination OnComplete: %w", err)
		}
	}

	return count, nil
}
