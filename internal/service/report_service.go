package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"reportqa/internal/answer"
	"reportqa/internal/domain"
	"reportqa/internal/embedding"
	"reportqa/internal/llm"
	"reportqa/internal/retrieval"
	"reportqa/internal/tables"
)

// ErrNotIngested is returned by queries made before Ingest.
var ErrNotIngested = errors.New("report not ingested")

// TableLoader produces table documents from a directory.
type TableLoader interface {
	LoadDir(dir string) ([]domain.Document, []tables.Warning, error)
}

// Options configures a ReportService.
type Options struct {
	TopK                int
	Temperature         float64
	SummaryMaxSentences int
}

// IngestStats summarises a finished ingest.
type IngestStats struct {
	SessionID     string
	TextChunks    int
	Tables        int
	TableWarnings []tables.Warning
	Overview      string
}

// ReportService holds one report session: corpus, index and generator.
type ReportService struct {
	chunker    domain.Chunker
	tables     TableLoader
	embedder   embedding.Embedder
	model      llm.ChatModel
	summarizer domain.Summarizer
	opts       Options
	logger     *slog.Logger

	mu        sync.RWMutex
	sessionID string
	retriever *retrieval.Retriever
	generator *answer.Generator
}

var _ domain.ReportService = (*ReportService)(nil)

// NewReportService wires the components. model may be nil for retrieval-only use.
func NewReportService(ch domain.Chunker, tl TableLoader, emb embedding.Embedder, model llm.ChatModel, sum domain.Summarizer, opts Options, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{chunker: ch, tables: tl, embedder: emb, model: model, summarizer: sum, opts: opts, logger: logger}
}

// Ingest reads the extracted text and tables and builds the session index.
func (s *ReportService) Ingest(ctx context.Context, textFile, tableDir string) (*IngestStats, error) {
	data, err := os.ReadFile(textFile)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	textDocs, err := s.chunker.ChunkText(string(data))
	if err != nil {
		return nil, fmt.Errorf("chunk text: %w", err)
	}
	if len(textDocs) == 0 && strings.TrimSpace(string(data)) != "" {
		s.logger.Warn("no page markers found in text; only tables will be indexed", "file", textFile)
	}

	var (
		tableDocs []domain.Document
		warnings  []tables.Warning
	)
	if tableDir != "" {
		tableDocs, warnings, err = s.tables.LoadDir(tableDir)
		if err != nil {
			return nil, fmt.Errorf("load tables: %w", err)
		}
	}

	corpus := make(domain.Corpus, 0, len(textDocs)+len(tableDocs))
	corpus = append(corpus, textDocs...)
	corpus = append(corpus, tableDocs...)
	warnDuplicateSources(s.logger, corpus)

	r, err := retrieval.Build(ctx, s.embedder, corpus, s.logger)
	if err != nil {
		return nil, err
	}

	overview := ""
	if s.summarizer != nil {
		overview, err = s.summarizer.Summarize(textDocs, s.opts.SummaryMaxSentences)
		if err != nil {
			return nil, fmt.Errorf("summarize: %w", err)
		}
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessionID = id
	s.retriever = r
	if s.model != nil {
		s.generator = answer.NewGenerator(r, s.model, s.opts.TopK, s.opts.Temperature, s.logger.With("session", id))
	}
	s.mu.Unlock()

	s.logger.Info("report ingested", "session", id, "text_chunks", len(textDocs), "tables", len(tableDocs), "table_warnings", len(warnings))
	return &IngestStats{
		SessionID:     id,
		TextChunks:    len(textDocs),
		Tables:        len(tableDocs),
		TableWarnings: warnings,
		Overview:      overview,
	}, nil
}

// Query returns the topK most similar documents. topK == 0 uses the
// configured default; negative values are rejected by the retriever.
func (s *ReportService) Query(ctx context.Context, query string, topK int) ([]domain.Hit, error) {
	s.mu.RLock()
	r := s.retriever
	s.mu.RUnlock()
	if r == nil {
		return nil, ErrNotIngested
	}
	if topK == 0 {
		topK = s.opts.TopK
	}
	return r.Retrieve(ctx, query, topK)
}

// Ask answers a question with citations.
func (s *ReportService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	s.mu.RLock()
	g := s.generator
	r := s.retriever
	s.mu.RUnlock()
	if r == nil {
		return nil, ErrNotIngested
	}
	if g == nil {
		return nil, errors.New("no language model configured")
	}
	return g.Answer(ctx, question)
}

// SessionID identifies the current ingest.
func (s *ReportService) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// warnDuplicateSources logs citation tags that occur more than once.
func warnDuplicateSources(logger *slog.Logger, corpus domain.Corpus) {
	seen := make(map[string]int, len(corpus))
	for _, d := range corpus {
		seen[d.Source]++
	}
	for src, n := range seen {
		if n > 1 {
			logger.Warn("duplicate source tag", "source", src, "count", n)
		}
	}
}
