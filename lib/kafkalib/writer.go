package kafkalib

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/artie-labs/dataset/config"
	"github.com/artie-labs/dataset/lib/iterator"
)

const (
	baseJitterMs = 300
	maxJitterMs  = 5000
	maxAttempts  = 10
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type BatchWriter struct {
	writer    messageWriter
	cfg       config.Kafka
	newWriter func() (messageWriter, error)
	sleep     func(attempts int)
	published int
}

func NewBatchWriter(ctx context.Context, cfg config.Kafka) (*BatchWriter, error) {
	newWriter := func() (messageWriter, error) {
		return NewWriter(ctx, cfg)
	}

	writer, err := newWriter()
	if err != nil {
		return nil, err
	}

	return &BatchWriter{
		writer:    writer,
		cfg:       cfg,
		newWriter: newWriter,
		sleep:     jitterSleep,
	}, nil
}

func jitterSleep(attempts int) {
	// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter/
	sleepMs := rand.IntN(min(maxJitterMs, baseJitterMs*(1<<attempts)))
	slog.Info("Failed to publish to kafka, sleeping before retrying", slog.Int("attempts", attempts), slog.Int("sleepMs", sleepMs))
	time.Sleep(time.Duration(sleepMs) * time.Millisecond)
}

func (w *BatchWriter) reload() error {
	if err := w.writer.Close(); err != nil {
		return err
	}

	writer, err := w.newWriter()
	if err != nil {
		return err
	}

	w.writer = writer
	return nil
}

// Write publishes the batch messages in chunks of the configured publish size.
func (w *BatchWriter) Write(ctx context.Context, msgs []BatchMessage) error {
	kafkaMsgs := make([]kafka.Message, len(msgs))
	for i, msg := range msgs {
		kafkaMsg, err := buildKafkaMessage(w.cfg.TopicPrefix, msg)
		if err != nil {
			return fmt.Errorf("failed to build kafka message: %w", err)
		}
		kafkaMsgs[i] = kafkaMsg
	}

	chunks := iterator.Batch(iterator.FromSlice(kafkaMsgs), int(w.cfg.GetPublishSize()))
	for chunks.HasNext() {
		chunk, err := chunks.Next()
		if err != nil {
			return err
		}

		written, err := w.writeChunk(ctx, chunk)
		if err != nil {
			return err
		}
		w.published += written
	}
	return nil
}

func (w *BatchWriter) OnComplete(_ context.Context) error {
	slog.Info("Finished publishing batches", slog.Int("messages", w.published))
	return nil
}

// writeChunk returns how many messages of the chunk were written.
func (w *BatchWriter) writeChunk(ctx context.Context, chunk []kafka.Message) (int, error) {
	var kafkaErr error
	for attempts := 0; attempts < maxAttempts; attempts++ {
		kafkaErr = w.writer.WriteMessages(ctx, chunk...)
		if kafkaErr == nil {
			return len(chunk), nil
		}

		if isExceedMaxMessageBytesErr(kafkaErr) {
			slog.Info("Skipping this chunk since the batch exceeded the server")
			return 0, nil
		}

		if isRetryableError(kafkaErr) {
			if reloadErr := w.reload(); reloadErr != nil {
				slog.Warn("Failed to reload kafka writer", slog.Any("err", reloadErr))
			}
		} else {
			w.sleep(attempts)
		}
	}

	return 0, fmt.Errorf("failed to write message: %w", kafkaErr)
}

func (w *BatchWriter) Close() error {
	return w.writer.Close()
}
