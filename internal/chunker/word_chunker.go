package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"reportqa/internal/domain"
)

// ErrInvalidWindow is returned when overlap does not leave a positive step.
var ErrInvalidWindow = errors.New("invalid chunk window")

// Page is one page body of the extracted report.
type Page struct {
	Number int
	Body   string
}

// WordChunker splits page text into fixed-size word windows with overlap.
type WordChunker struct {
	size    int
	overlap int
	marker  *regexp.Regexp
}

// NewWordChunker validates the window before any text is processed.
func NewWordChunker(size, overlap int) (*WordChunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidWindow, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", ErrInvalidWindow, overlap, size)
	}
	return &WordChunker{
		size:    size,
		overlap: overlap,
		// "--- PAGE 3 ---" or "--- FILE: report.pdf | PAGE 3 ---"
		marker: regexp.MustCompile(`(?m)^-{3}\s*(?:FILE:[^\n|]*\|\s*)?PAGE\s+(\d+)\s*-{3}[ \t\r]*$`),
	}, nil
}

// SplitPages cuts text at page markers. Text before the first marker is dropped.
// CRLF line endings are accepted.
func (c *WordChunker) SplitPages(text string) []Page {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	locs := c.marker.FindAllStringSubmatchIndex(text, -1)
	pages := make([]Page, 0, len(locs))
	for i, loc := range locs {
		num, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		pages = append(pages, Page{Number: num, Body: strings.TrimSpace(text[loc[1]:end])})
	}
	return pages
}

// Chunk emits the word windows of a single page.
func (c *WordChunker) Chunk(page Page) []domain.Document {
	words := strings.Fields(page.Body)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	docs := make([]domain.Document, 0, len(words)/step+1)
	idx := 1
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		docs = append(docs, domain.Document{
			Type:    domain.DocumentText,
			Content: strings.Join(words[start:end], " "),
			Source:  fmt.Sprintf("page_%d_chunk_%d", page.Number, idx),
		})
		if end == len(words) {
			break
		}
		idx++
	}
	return docs
}

// ChunkText splits text into pages and chunks every page in order.
func (c *WordChunker) ChunkText(text string) ([]domain.Document, error) {
	var docs []domain.Document
	for _, p := range c.SplitPages(text) {
		docs = append(docs, c.Chunk(p)...)
	}
	return docs, nil
}
