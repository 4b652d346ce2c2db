package kafkalib

import (
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// BatchMessage announces one batch produced while iterating a part of the index.
type BatchMessage struct {
	RunID string   `json:"runId"`
	Part  string   `json:"part"`
	Epoch int      `json:"epoch"`
	Batch int      `json:"batch"`
	Items []string `json:"items"`
}

func (b BatchMessage) Topic(prefix string) string {
	if prefix == "" {
		return b.Part
	}
	return fmt.Sprintf("%s.%s", prefix, b.Part)
}

func buildKafkaMessage(topicPrefix string, msg BatchMessage) (kafka.Message, error) {
	valueBytes, err := json.Marshal(msg)
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Topic: msg.Topic(topicPrefix),
		Key:   []byte(fmt.Sprintf("%s-%d-%d", msg.RunID, msg.Epoch, msg.Batch)),
		Value: valueBytes,
	}, nil
}
