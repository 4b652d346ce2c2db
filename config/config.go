package config

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artie-labs/dataset/constants"
	"github.com/artie-labs/dataset/lib/dsindex"
)

type Reporting struct {
	// LogLevel - debug, info, warn or error. Defaults to info.
	LogLevel string  `yaml:"logLevel"`
	Sentry   *Sentry `yaml:"sentry"`
}

func (r *Reporting) GetLogLevel() (slog.Level, error) {
	var level slog.Level
	if r == nil || r.LogLevel == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(r.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level: %q", r.LogLevel)
	}
	return level, nil
}

type Sentry struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

type Metrics struct {
	Namespace string   `yaml:"namespace"`
	Tags      []string `yaml:"tags"`
}

type Split struct {
	// Shares - one to three fractions: train, test, validation.
	Shares  []float64 `yaml:"shares"`
	Shuffle bool      `yaml:"shuffle"`
	Seed    uint64    `yaml:"seed"`
}

func (s *Split) ToShares() (dsindex.Shares, error) {
	if len(s.Shares) == 0 {
		return dsindex.DefaultShares, nil
	}
	return dsindex.ParseShares(s.Shares...)
}

func (s *Split) Validate() error {
	if s == nil {
		return fmt.Errorf("split config is nil")
	}

	if _, err := s.ToShares(); err != nil {
		return err
	}
	return nil
}

type Part string

const (
	PartAll        Part = "all"
	PartTrain      Part = "train"
	PartTest       Part = "test"
	PartValidation Part = "validation"
)

type Iteration struct {
	BatchSize int    `yaml:"batchSize"`
	Shuffle   bool   `yaml:"shuffle"`
	Epochs    int    `yaml:"epochs"`
	Seed      uint64 `yaml:"seed"`
	// Part - which part of the split to iterate, defaults to train when a split is configured.
	Part           Part   `yaml:"part"`
	CheckpointFile string `yaml:"checkpointFile"`
	LogProgress    bool   `yaml:"logProgress"`
}

func (i *Iteration) GetBatchSize() int {
	return cmp.Or(i.BatchSize, constants.DefaultBatchSize)
}

func (i *Iteration) GetEpochs() int {
	return cmp.Or(i.Epochs, 1)
}

func (i *Iteration) Validate() error {
	if i == nil {
		return fmt.Errorf("iteration config is nil")
	}

	if i.BatchSize < 0 {
		return fmt.Errorf("batch size must be >= 0")
	}

	if i.Epochs < 0 {
		return fmt.Errorf("epochs must be >= 0")
	}

	switch i.Part {
	case "", PartAll, PartTrain, PartTest, PartValidation:
	default:
		return fmt.Errorf("invalid part: '%s'", i.Part)
	}

	return nil
}

type Output struct {
	// Folder - where the manifests of the index and its parts are written.
	Folder string `yaml:"folder"`
}

type Settings struct {
	Source    *Source    `yaml:"source"`
	Split     *Split     `yaml:"split"`
	Iteration *Iteration `yaml:"iteration"`
	Output    *Output    `yaml:"output"`
	Kafka     *Kafka     `yaml:"kafka"`
	Reporting *Reporting `yaml:"reporting"`
	Metrics   *Metrics   `yaml:"metrics"`
}

// IterationPart resolves which part is iterated.
func (s *Settings) IterationPart() Part {
	if s.Iteration != nil && s.Iteration.Part != "" {
		return s.Iteration.Part
	}

	if s.Split != nil {
		return PartTrain
	}
	return PartAll
}

func (s *Settings) Validate() error {
	if s == nil {
		return fmt.Errorf("config is nil")
	}

	if err := s.Source.Validate(); err != nil {
		return fmt.Errorf("source validation failed: %w", err)
	}

	if s.Split != nil {
		if err := s.Split.Validate(); err != nil {
			return fmt.Errorf("split validation failed: %w", err)
		}
	}

	if s.Iteration != nil {
		if err := s.Iteration.Validate(); err != nil {
			return fmt.Errorf("iteration validation failed: %w", err)
		}
	}

	if part := s.IterationPart(); part != PartAll && s.Split == nil {
		return fmt.Errorf("iterating the %s part requires a split", part)
	}

	if _, err := s.Reporting.GetLogLevel(); err != nil {
		return fmt.Errorf("reporting validation failed: %w", err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.Validate(); err != nil {
			return fmt.Errorf("kafka validation failed: %w", err)
		}
	}

	return nil
}

func ReadConfig(fp string) (*Settings, error) {
	bytes, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var settings Settings
	if err = yaml.Unmarshal(bytes, &settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
	}

	if err = settings.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config file: %w", err)
	}

	return &settings, nil
}

type KafkaBalancer string

const (
	// BalancerHash keeps every batch of a run, epoch and batch number on the same partition.
	BalancerHash       KafkaBalancer = "hash"
	BalancerLeastBytes KafkaBalancer = "leastBytes"
	BalancerRoundRobin KafkaBalancer = "roundRobin"
)

type KafkaCompression string

const (
	CompressionNone   KafkaCompression = "none"
	CompressionGzip   KafkaCompression = "gzip"
	CompressionSnappy KafkaCompression = "snappy"
	CompressionLz4    KafkaCompression = "lz4"
	CompressionZstd   KafkaCompression = "zstd"
)

type Kafka struct {
	BootstrapServers string           `yaml:"bootstrapServers"`
	TopicPrefix      string           `yaml:"topicPrefix"`
	AwsEnabled       bool             `yaml:"awsEnabled"`
	PublishSize      uint             `yaml:"publishSize,omitempty"`
	MaxRequestSize   uint64           `yaml:"maxRequestSize,omitempty"`
	Balancer         KafkaBalancer    `yaml:"balancer,omitempty"`
	Compression      KafkaCompression `yaml:"compression,omitempty"`
}

func (k *Kafka) GetBalancer() KafkaBalancer {
	return cmp.Or(k.Balancer, BalancerHash)
}

func (k *Kafka) GetCompression() KafkaCompression {
	return cmp.Or(k.Compression, CompressionGzip)
}

func (k *Kafka) BootstrapAddresses() []string {
	return strings.Split(k.BootstrapServers, ",")
}

func (k *Kafka) GetPublishSize() uint {
	return cmp.Or(k.PublishSize, constants.DefaultPublishSize)
}

func (k *Kafka) Validate() error {
	if k == nil {
		return fmt.Errorf("kafka config is nil")
	}

	if k.BootstrapServers == "" {
		return fmt.Errorf("bootstrap servers not passed in")
	}

	if k.TopicPrefix == "" {
		return fmt.Errorf("topic prefix not passed in")
	}

	switch k.GetBalancer() {
	case BalancerHash, BalancerLeastBytes, BalancerRoundRobin:
	default:
		return fmt.Errorf("invalid balancer: '%s'", k.Balancer)
	}

	switch k.GetCompression() {
	case CompressionNone, CompressionGzip, CompressionSnappy, CompressionLz4, CompressionZstd:
	default:
		return fmt.Errorf("invalid compression: '%s'", k.Compression)
	}

	return nil
}
