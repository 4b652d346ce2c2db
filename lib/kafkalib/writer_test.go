package kafkalib

import (
	"context"
	"fmt"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/artie-labs/dataset/config"
)

type fakeWriter struct {
	errs   []error
	calls  int
	chunks [][]kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return err
		}
	}
	f.chunks = append(f.chunks, msgs)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func newTestWriter(writer *fakeWriter, publishSize uint) (*BatchWriter, *int) {
	var sleeps int
	return &BatchWriter{
		writer: writer,
		cfg:    config.Kafka{TopicPrefix: "batches", PublishSize: publishSize},
		newWriter: func() (messageWriter, error) {
			return writer, nil
		},
		sleep: func(int) { sleeps++ },
	}, &sleeps
}

func batchMessages(count int) []BatchMessage {
	var msgs []BatchMessage
	for i := range count {
		msgs = append(msgs, BatchMessage{RunID: "run", Part: "train", Batch: i, Items: []string{fmt.Sprint(i)}})
	}
	return msgs
}

func TestBatchWriter_Write(t *testing.T) {
	{
		// Chunks by publish size
		fake := &fakeWriter{}
		writer, sleeps := newTestWriter(fake, 2)
		assert.NoError(t, writer.Write(context.Background(), batchMessages(5)))
		assert.Len(t, fake.chunks, 3)
		assert.Len(t, fake.chunks[0], 2)
		assert.Len(t, fake.chunks[2], 1)
		assert.Equal(t, "batches.train", fake.chunks[0][0].Topic)
		assert.Zero(t, *sleeps)
		assert.Equal(t, 5, writer.published)
		assert.NoError(t, writer.OnComplete(context.Background()))
	}
	{
		// Nothing to write
		fake := &fakeWriter{}
		writer, _ := newTestWriter(fake, 2)
		assert.NoError(t, writer.Write(context.Background(), nil))
		assert.Zero(t, fake.calls)
	}
	{
		// Transient errors are retried
		fake := &fakeWriter{errs: []error{fmt.Errorf("leader not available"), fmt.Errorf("leader not available")}}
		writer, sleeps := newTestWriter(fake, 10)
		assert.NoError(t, writer.Write(context.Background(), batchMessages(3)))
		assert.Equal(t, 3, fake.calls)
		assert.Equal(t, 2, *sleeps)
		assert.Len(t, fake.chunks, 1)
	}
	{
		// Retryable errors reload the writer
		fake := &fakeWriter{errs: []error{kafka.TopicAuthorizationFailed}}
		writer, sleeps := newTestWriter(fake, 10)
		assert.NoError(t, writer.Write(context.Background(), batchMessages(1)))
		assert.True(t, fake.closed)
		assert.Zero(t, *sleeps)
	}
	{
		// Oversized chunks are skipped
		fake := &fakeWriter{errs: []error{kafka.MessageSizeTooLarge}}
		writer, _ := newTestWriter(fake, 10)
		assert.NoError(t, writer.Write(context.Background(), batchMessages(1)))
		assert.Equal(t, 1, fake.calls)
		assert.Empty(t, fake.chunks)
	}
	{
		// Gives up after max attempts
		var errs []error
		for range maxAttempts {
			errs = append(errs, fmt.Errorf("broker down"))
		}
		fake := &fakeWriter{errs: errs}
		writer, _ := newTestWriter(fake, 10)
		err := writer.Write(context.Background(), batchMessages(1))
		assert.ErrorContains(t, err, "failed to write message: broker down")
		assert.Equal(t, maxAttempts, fake.calls)
	}
}
