// Package retrieval builds the session index over a corpus and answers
// similarity queries against it.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reportqa/internal/domain"
	"reportqa/internal/embedding"
	"reportqa/internal/vectorstore"
	"reportqa/internal/vectorstore/memory"
)

var (
	// ErrRetrieval wraps failures to embed or search a query.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrInvalidTopK is returned for k <= 0.
	ErrInvalidTopK = errors.New("top k must be positive")
)

// Retriever owns a read-only corpus and its index.
type Retriever struct {
	embedder embedding.Embedder
	corpus   domain.Corpus
	index    vectorstore.Index
	logger   *slog.Logger
}

// Build embeds the corpus and indexes the normalized vectors.
// An empty corpus yields a Retriever that returns no hits.
func Build(ctx context.Context, emb embedding.Embedder, corpus domain.Corpus, logger *slog.Logger) (*Retriever, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Retriever{embedder: emb, corpus: corpus, logger: logger}
	if len(corpus) == 0 {
		logger.Warn("building index over empty corpus")
		return r, nil
	}

	contents := corpus.Contents()
	if err := emb.Prepare(ctx, contents); err != nil {
		return nil, fmt.Errorf("prepare embedder: %w", err)
	}
	vectors, err := emb.Embed(ctx, contents)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(corpus) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(corpus))
	}
	idx, err := memory.Build(vectors)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	r.index = idx
	logger.Info("index built", "embedder", emb.Name(), "documents", idx.Len(), "dim", idx.Dimension())
	return r, nil
}

// Corpus returns the indexed documents. Callers must not modify it.
func (r *Retriever) Corpus() domain.Corpus { return r.corpus }

// Retrieve returns up to k hits ordered by descending cosine similarity.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]domain.Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, k)
	}
	if r.index == nil {
		return []domain.Hit{}, nil
	}
	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", ErrRetrieval, err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for one query", ErrRetrieval, len(vecs))
	}
	matches, err := r.index.Search(vectorstore.NormalizeL2(vecs[0]), k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	hits := make([]domain.Hit, len(matches))
	for i, m := range matches {
		d := r.corpus[m.Row]
		hits[i] = domain.Hit{Source: d.Source, Type: d.Type, Content: d.Content, Score: m.Score}
	}
	r.logger.Debug("retrieved", "query", query, "k", k, "hits", len(hits))
	return hits, nil
}
