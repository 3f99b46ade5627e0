// Command dojo-gen generates GRPO training datasets of Japanese practice
// tasks and serializes them as chunked JSONL or parquet.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nihongo-dojo/dojo-go/pkg/config"
	"github.com/nihongo-dojo/dojo-go/pkg/datasets"
	"github.com/nihongo-dojo/dojo-go/pkg/logging"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (flags override it)")
		taskList   = flag.String("tasks", "", "comma-separated task types (default: all)")
		size       = flag.Int("size", 0, "number of tasks to generate")
		out        = flag.String("out", "./dataset", "output directory (jsonl) or file (parquet)")
		format     = flag.String("format", "jsonl", "output format: jsonl or parquet")
		gzipped    = flag.Bool("gzip", false, "gzip jsonl chunks")
		chunkSize  = flag.Int("chunk-size", 0, "tasks per chunk file")
		workers    = flag.Int("workers", 0, "generation workers")
		seed       = flag.Int64("seed", 0, "random seed")
		groupSize  = flag.Int("group-size", 0, "GRPO group size (metadata only)")
		logLevel   = flag.String("log-level", "", "minimum log severity")
	)
	flag.Parse()

	if err := run(*configPath, *taskList, *size, *out, *format, *gzipped, *chunkSize, *workers, *seed, *groupSize, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "dojo-gen: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, taskList string, size int, out, format string, gzipped bool, chunkSize, workers int, seed int64, groupSize int, logLevel string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	// Flags override the file.
	if taskList != "" {
		cfg.Generation.Types = strings.Split(taskList, ",")
	}
	if size > 0 {
		cfg.Generation.Size = size
	}
	if chunkSize > 0 {
		cfg.Generation.ChunkSize = chunkSize
	}
	if workers > 0 {
		cfg.Generation.Workers = workers
	}
	if seed != 0 {
		cfg.Generation.Seed = seed
	}
	if groupSize > 0 {
		cfg.Generation.GroupSize = groupSize
	}
	if gzipped {
		cfg.Generation.Gzip = true
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := setupLogging(cfg.Logging); err != nil {
		return err
	}
	logger := logging.GetLogger()
	defer logger.Sync()

	ctx := context.Background()
	dataset, err := datasets.Generate(ctx, datasets.GenerationSpec{
		Name:    "nihongo-dojo",
		Version: "1.0.0",
		Size:    cfg.Generation.Size,
		Types:   cfg.Generation.TaskTypes(),
		Weights: cfg.Generation.Weights(),
		Seed:    cfg.Generation.Seed,
		Workers: cfg.Generation.Workers,
	})
	if err != nil {
		return err
	}

	tags := cfg.Tags.Tags()
	switch format {
	case "jsonl":
		s := datasets.NewSerializer(cfg.Generation.ChunkSize, cfg.Generation.Gzip)
		if err := s.Save(dataset, out); err != nil {
			return err
		}
		logger.Info(ctx, "wrote %d tasks to %s (%d per chunk, gzip=%v)",
			dataset.Len(), out, cfg.Generation.ChunkSize, cfg.Generation.Gzip)
	case "parquet":
		if err := datasets.ExportParquet(dataset, out, tags); err != nil {
			return err
		}
		logger.Info(ctx, "wrote %d tasks to %s", dataset.Len(), out)
	default:
		return fmt.Errorf("unknown format %q (want jsonl or parquet)", format)
	}

	groups := dataset.Groups(cfg.Generation.GroupSize, cfg.Generation.Seed)
	logger.Info(ctx, "%d GRPO groups of size %d", len(groups), cfg.Generation.GroupSize)
	for taskType, n := range dataset.TypeDistribution() {
		logger.Info(ctx, "  %-18s %d", taskType, n)
	}
	return nil
}

func setupLogging(cfg config.LoggingConfig) error {
	outputs := []logging.Output{logging.NewConsoleOutput(true)}
	if cfg.File != "" {
		fileOut, err := logging.NewFileOutput(cfg.File)
		if err != nil {
			return err
		}
		outputs = append(outputs, fileOut)
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Level),
		Outputs:  outputs,
	}))
	return nil
}
