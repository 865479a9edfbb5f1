package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"reportqa/internal/chunker"
	"reportqa/internal/config"
	"reportqa/internal/embedding"
	embopenai "reportqa/internal/embedding/openai"
	"reportqa/internal/embedding/tfidf"
	"reportqa/internal/llm"
	llmopenai "reportqa/internal/llm/openai"
	"reportqa/internal/logging"
	"reportqa/internal/service"
	"reportqa/internal/summarizer"
	"reportqa/internal/tables"
)

var (
	flagConfig   string
	flagLogLevel string
	flagText     string
	flagTables   string
)

var rootCmd = &cobra.Command{
	Use:          "reportqa",
	Short:        "Ask cited questions about an annual report",
	SilenceUsage: true,
	Long: `reportqa indexes the text and tables extracted from an annual report
and answers questions with the passages and tables they came from.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config (default ./config.yaml, then ~/.config/reportqa/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagText, "text", "", "Override input.text_file")
	rootCmd.PersistentFlags().StringVar(&flagTables, "tables", "", "Override input.table_dir")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if flagConfig == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(flagConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagText != "" {
		cfg.Input.TextFile = flagText
	}
	if flagTables != "" {
		cfg.Input.TableDir = flagTables
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session is an ingested report ready for questions.
type session struct {
	cfg      *config.AppConfig
	svc      *service.ReportService
	stats    *service.IngestStats
	logger   *slog.Logger
	closeLog func() error
}

func (s *session) Close() error { return s.closeLog() }

// openSession wires the components from cfg and ingests the report.
// withModel is false for retrieval-only commands, which then need no API key.
func openSession(ctx context.Context, cfg *config.AppConfig, logOut io.Writer, withModel bool) (*session, error) {
	logger, closeLog, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*session, error) {
		_ = closeLog()
		return nil, err
	}

	ch, err := chunker.NewWordChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	if err != nil {
		return fail(err)
	}
	emb, err := buildEmbedder(cfg.Embedder)
	if err != nil {
		return fail(err)
	}
	var model llm.ChatModel
	if withModel {
		if model, err = buildModel(cfg.LLM); err != nil {
			return fail(err)
		}
	}

	opts := service.Options{
		TopK:                cfg.Retrieval.TopK,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
	}
	if cfg.LLM.OpenAI != nil {
		opts.Temperature = cfg.LLM.OpenAI.Temperature
	}
	svc := service.NewReportService(ch,
		tables.NewSummarizer(cfg.Tables.Dedup, logger),
		emb, model,
		summarizer.NewFrequencySummarizer(),
		opts, logger)

	start := time.Now()
	stats, err := svc.Ingest(ctx, cfg.Input.TextFile, cfg.Input.TableDir)
	if err != nil {
		return fail(fmt.Errorf("ingest failed: %w", err))
	}
	logger.Debug("session ready", "session", stats.SessionID, "embedder", emb.Name(), "elapsed", time.Since(start))
	return &session{cfg: cfg, svc: svc, stats: stats, logger: logger, closeLog: closeLog}, nil
}

func buildEmbedder(cfg config.EmbedderConfig) (embedding.Embedder, error) {
	switch cfg.Type {
	case "tfidf":
		return tfidf.NewEmbedder(), nil
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.OpenAI.BaseURL,
			APIKeyEnv: cfg.OpenAI.APIKeyEnv,
			Model:     cfg.OpenAI.Model,
			Timeout:   time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			BatchSize: cfg.OpenAI.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

func buildModel(cfg config.LLMConfig) (llm.ChatModel, error) {
	switch cfg.Type {
	case "openai":
		if cfg.OpenAI == nil {
			return nil, fmt.Errorf("openai llm config missing")
		}
		client, err := llmopenai.NewClient(llmopenai.Config{
			BaseURL:           cfg.OpenAI.BaseURL,
			APIKeyEnv:         cfg.OpenAI.APIKeyEnv,
			Model:             cfg.OpenAI.Model,
			Timeout:           time.Duration(cfg.OpenAI.TimeoutSecs) * time.Second,
			RequestsPerSecond: cfg.OpenAI.RequestsPerSecond,
		})
		if err != nil {
			return nil, fmt.Errorf("openai llm init failed: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown llm: %s", cfg.Type)
	}
}
