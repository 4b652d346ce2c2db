package kafkalib

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	awsCfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/aws_msk_iam_v2"

	"github.com/artie-labs/dataset/config"
)

func newBalancer(balancer config.KafkaBalancer) (kafka.Balancer, error) {
	switch balancer {
	case config.BalancerHash:
		return &kafka.Hash{}, nil
	case config.BalancerLeastBytes:
		return &kafka.LeastBytes{}, nil
	case config.BalancerRoundRobin:
		return &kafka.RoundRobin{}, nil
	default:
		return nil, fmt.Errorf("unsupported balancer: %q", balancer)
	}
}

func newCompression(compression config.KafkaCompression) (kafka.Compression, error) {
	switch compression {
	case config.CompressionNone:
		return 0, nil
	case config.CompressionGzip:
		return kafka.Gzip, nil
	case config.CompressionSnappy:
		return kafka.Snappy, nil
	case config.CompressionLz4:
		return kafka.Lz4, nil
	case config.CompressionZstd:
		return kafka.Zstd, nil
	default:
		return 0, fmt.Errorf("unsupported compression: %q", compression)
	}
}

// NewWriter returns a writer for batch messages. Topics are set per message, one per dataset part, and the
// writer's own batching follows the configured publish size.
func NewWriter(ctx context.Context, cfg config.Kafka) (*kafka.Writer, error) {
	balancer, err := newBalancer(cfg.GetBalancer())
	if err != nil {
		return nil, err
	}

	compression, err := newCompression(cfg.GetCompression())
	if err != nil {
		return nil, err
	}

	slog.Info("Setting up kafka writer",
		slog.Any("urls", cfg.BootstrapAddresses()),
		slog.String("balancer", string(cfg.GetBalancer())),
		slog.String("compression", string(cfg.GetCompression())),
	)
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.BootstrapAddresses()...),
		Compression:            compression,
		Balancer:               balancer,
		BatchSize:              int(cfg.GetPublishSize()),
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}

	if cfg.MaxRequestSize > 0 {
		writer.BatchBytes = int64(cfg.MaxRequestSize)
	}

	if cfg.AwsEnabled {
		saslCfg, err := awsCfg.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
		}

		writer.Transport = &kafka.Transport{
			DialTimeout: 10 * time.Second,
			SASL:        aws_msk_iam_v2.NewMechanism(saslCfg),
			TLS:         &tls.Config{},
		}
	}

	return writer, nil
}
