package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/artie-labs/dataset/config"
	"github.com/artie-labs/dataset/lib/dataset"
	"github.com/artie-labs/dataset/lib/dsindex"
	"github.com/artie-labs/dataset/lib/kafkalib"
	"github.com/artie-labs/dataset/lib/keysource"
	"github.com/artie-labs/dataset/lib/logger"
	"github.com/artie-labs/dataset/lib/mtr"
	"github.com/artie-labs/dataset/lib/storage/checkpoint"
	"github.com/artie-labs/dataset/lib/storage/manifest"
	"github.com/artie-labs/dataset/sources/batches"
	"github.com/artie-labs/dataset/writers"
)

type keyDataset = dataset.Dataset[string, []string]

func setUpMetrics(cfg *config.Metrics) (mtr.Client, error) {
	if cfg == nil {
		return mtr.NullClient{}, nil
	}

	slog.Info("Creating metrics client")
	return mtr.New(cfg.Namespace, cfg.Tags, 0.5)
}

func setUpKafka(ctx context.Context, cfg *config.Kafka) (*kafkalib.BatchWriter, error) {
	slog.Info("Kafka config",
		slog.Bool("aws", cfg.AwsEnabled),
		slog.String("kafkaBootstrapServer", cfg.BootstrapServers),
		slog.Any("publishSize", cfg.GetPublishSize()),
		slog.Uint64("maxRequestSize", cfg.MaxRequestSize),
	)
	return kafkalib.NewBatchWriter(ctx, *cfg)
}

func itemsFactory(index *dsindex.Index[string]) ([]string, error) {
	return index.Items(), nil
}

func buildDataset(ctx context.Context, cfg *config.Settings) (*keyDataset, error) {
	source, err := keysource.Load(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to load key source: %w", err)
	}

	index, err := dsindex.New(source)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.New[string, []string](index, dataset.BatchFactoryFunc[string, []string](itemsFactory))
	if err != nil {
		return nil, err
	}

	if cfg.Split != nil {
		shares, err := cfg.Split.ToShares()
		if err != nil {
			return nil, err
		}

		var opts []dsindex.Option
		if cfg.Split.Seed != 0 {
			opts = append(opts, dsindex.WithSeed(cfg.Split.Seed))
		}

		if err = ds.CVSplit(shares, cfg.Split.Shuffle, opts...); err != nil {
			return nil, fmt.Errorf("failed to split index: %w", err)
		}

		train, test, validation := shares.Counts(ds.Len())
		slog.Info("Split index", slog.Int("train", train), slog.Int("test", test), slog.Int("validation", validation))
	}

	return ds, nil
}

func selectPart(ds *keyDataset, part config.Part) (*keyDataset, error) {
	var selected *keyDataset
	switch part {
	case config.PartAll:
		selected = ds
	case config.PartTrain:
		selected = ds.Train()
	case config.PartTest:
		selected = ds.Test()
	case config.PartValidation:
		selected = ds.Validation()
	default:
		return nil, fmt.Errorf("unknown part: %q", part)
	}

	if selected == nil {
		return nil, fmt.Errorf("the %s part is empty", part)
	}
	return selected, nil
}

func writeManifests(folder string, ds *keyDataset) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	parts := map[config.Part]*keyDataset{
		config.PartAll:        ds,
		config.PartTrain:      ds.Train(),
		config.PartTest:       ds.Test(),
		config.PartValidation: ds.Validation(),
	}

	for part, partDataset := range parts {
		if partDataset == nil {
			continue
		}

		filePath := filepath.Join(folder, fmt.Sprintf("%s.jsonl", part))
		if err := manifest.WriteIndex(filePath, partDataset.Index()); err != nil {
			return fmt.Errorf("failed to write manifest for %s: %w", part, err)
		}
		slog.Info("Wrote manifest", slog.String("part", string(part)), slog.String("path", filePath), slog.Int("items", partDataset.Len()))
	}
	return nil
}

func main() {
	var configFilePath string
	flag.StringVar(&configFilePath, "config", "", "path to config file")
	flag.Parse()

	cfg, err := config.ReadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to read config file", slog.Any("err", err))
	}

	runID := uuid.NewString()
	_logger, cleanUpHandlers := logger.NewLogger(cfg, slog.String("runID", runID))
	defer cleanUpHandlers()
	slog.SetDefault(_logger)

	ctx := context.Background()
	slog.Info("Starting run", slog.String("source", string(cfg.Source.Type)))

	statsD, err := setUpMetrics(cfg.Metrics)
	if err != nil {
		logger.Fatal("Failed to set up metrics", slog.Any("err", err))
	}
	defer statsD.Flush()

	ds, err := buildDataset(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to build dataset", slog.Any("err", err))
	}

	if cfg.Output != nil && cfg.Output.Folder != "" {
		if err = writeManifests(cfg.Output.Folder, ds); err != nil {
			logger.Fatal("Failed to write manifests", slog.Any("err", err))
		}
	}

	if cfg.Iteration == nil {
		slog.Info("No iteration configured, exiting")
		return
	}

	part := cfg.IterationPart()
	selected, err := selectPart(ds, part)
	if err != nil {
		logger.Fatal("Failed to select part", slog.Any("err", err))
	}

	var store *checkpoint.Store
	if cfg.Iteration.CheckpointFile != "" {
		if store, err = checkpoint.NewStore(cfg.Iteration.CheckpointFile); err != nil {
			logger.Fatal("Failed to open checkpoint file", slog.Any("err", err))
		}
	}

	iter, err := batches.NewIterator(selected, runID, part, *cfg.Iteration, store)
	if err != nil {
		logger.Fatal("Failed to start iteration", slog.Any("err", err))
	}

	var destination writers.DestinationWriter
	if cfg.Kafka != nil {
		kafkaWriter, err := setUpKafka(ctx, cfg.Kafka)
		if err != nil {
			logger.Fatal("Failed to set up kafka", slog.Any("err", err))
		}
		defer kafkaWriter.Close()
		destination = kafkaWriter
	}

	writer := writers.New(destination, statsD, cfg.Iteration.LogProgress)
	count, err := writer.Write(ctx, iter)
	if err != nil {
		logger.Fatal("Failed to iterate dataset", slog.Any("err", err))
	}
	slog.Info("Finished run", slog.String("part", string(part)), slog.Int("items", count))
}
