// Package answer turns a question into a cited answer using retrieved
// context and a chat model.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"reportqa/internal/domain"
	"reportqa/internal/llm"
)

// SystemPrompt instructs the model to cite sources and how to attach a chart.
const SystemPrompt = `You are an expert analyst answering questions about an annual report.
Use only the provided snippets. For each fact, append its source in square brackets,
e.g. [page_12_chunk_1] or [table_3.csv]. Do not invent citations.

If your answer can be better visualized as a chart, append at the very end a
JSON blob under the heading ChartData:. For example:
ChartData:
{"type": "bar", "labels": ["Region A","Region B"], "values": [120, 95], "title": "Revenue by region"}

Otherwise, do not include any ChartData section.`

// RateLimitAdvisory replaces the answer when the model is rate limited.
const RateLimitAdvisory = "The language model rate limit or quota was exceeded. " +
	"Please check your plan and billing, then try again."

// NoContext is sent as the context block when retrieval finds nothing.
const NoContext = "No relevant context found."

// Retriever finds the passages a question is answered from.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]domain.Hit, error)
}

// Generator assembles prompts and interprets replies.
type Generator struct {
	retriever   Retriever
	model       llm.ChatModel
	topK        int
	temperature float64
	logger      *slog.Logger
}

// NewGenerator creates a Generator retrieving topK hits per question.
func NewGenerator(r Retriever, model llm.ChatModel, topK int, temperature float64, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{retriever: r, model: model, topK: topK, temperature: temperature, logger: logger}
}

// Answer retrieves context, asks the model and parses the reply.
// Rate-limit errors from the model become an advisory answer.
func (g *Generator) Answer(ctx context.Context, question string) (*domain.Answer, error) {
	hits, err := g.retriever.Retrieve(ctx, question, g.topK)
	if err != nil {
		return nil, err
	}

	reply, err := g.model.Chat(ctx, BuildMessages(question, hits), llm.Options{Temperature: g.temperature})
	if errors.Is(err, llm.ErrRateLimited) {
		g.logger.Warn("language model rate limited", "err", err)
		return &domain.Answer{Text: RateLimitAdvisory, Hits: hits, Advisory: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	text, chart := ParseReply(reply)
	g.logger.Debug("answered", "hits", len(hits), "chart", chart != nil)
	return &domain.Answer{Text: text, Hits: hits, Chart: chart}, nil
}

// BuildContext joins "[source]\ncontent" blocks with blank lines.
func BuildContext(hits []domain.Hit) string {
	if len(hits) == 0 {
		return NoContext
	}
	blocks := make([]string, len(hits))
	for i, h := range hits {
		blocks[i] = "[" + h.Source + "]\n" + h.Content
	}
	return strings.Join(blocks, "\n\n")
}

// BuildMessages returns the system prompt and the user turn.
func BuildMessages(question string, hits []domain.Hit) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: "Context:\n" + BuildContext(hits) + "\n\nQuestion: " + question},
	}
}
