package domain

import "context"

// DocumentType tells apart prose chunks from table previews.
type DocumentType string

const (
	DocumentText  DocumentType = "text"
	DocumentTable DocumentType = "table"
)

// Document is a single retrievable unit of the report.
type Document struct {
	Type    DocumentType
	Content string
	// Source is the citation tag, e.g. "page_12_chunk_1" or "table_3.csv".
	Source string
}

// Corpus is the ordered document list. Row i of the index belongs to Corpus[i].
type Corpus []Document

// Contents returns the document texts in corpus order.
func (c Corpus) Contents() []string {
	out := make([]string, len(c))
	for i, d := range c {
		out[i] = d.Content
	}
	return out
}

// Hit is a retrieved document with its cosine similarity to the query.
type Hit struct {
	Source  string
	Type    DocumentType
	Content string
	Score   float64
}

// Chart is the optional structured payload a model reply may carry.
type Chart struct {
	Type   string    `json:"type"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Title  string    `json:"title,omitempty"`
	XLabel string    `json:"xlabel,omitempty"`
	YLabel string    `json:"ylabel,omitempty"`
}

// Answer is what a question resolves to.
type Answer struct {
	Text  string
	Hits  []Hit
	Chart *Chart
	// Advisory is set when Text is a degraded message instead of a model reply.
	Advisory bool
}

// Chunker splits the extracted report text into text documents.
type Chunker interface {
	ChunkText(text string) ([]Document, error)
}

// Summarizer produces a brief overview of the report text documents.
type Summarizer interface {
	Summarize(docs []Document, maxSentences int) (string, error)
}

// ReportService defines the operations exposed by the application core.
type ReportService interface {
	Query(ctx context.Context, query string, topK int) ([]Hit, error)
	Ask(ctx context.Context, question string) (*Answer, error)
}
