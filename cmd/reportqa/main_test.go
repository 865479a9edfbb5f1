package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportqa/internal/config"
	"reportqa/internal/domain"
	"reportqa/internal/retrieval"
)

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", preview("a\n b\t c", 10))
	assert.Equal(t, "abcd…", preview("abcdefgh", 5))
}

func TestPrintHits(t *testing.T) {
	var buf bytes.Buffer
	printHits(&buf, nil)
	assert.Equal(t, "No results.\n", buf.String())

	buf.Reset()
	printHits(&buf, []domain.Hit{
		{Source: "page_3_chunk_1", Type: domain.DocumentText, Content: "Revenue grew.", Score: 0.91},
		{Source: "report_table_2.csv", Type: domain.DocumentTable, Content: "Table report_table_2.csv", Score: 0.5},
	})
	out := buf.String()
	assert.Contains(t, out, "RANK")
	assert.Contains(t, out, "page_3_chunk_1")
	assert.Contains(t, out, "0.910")
	assert.Contains(t, out, "report_table_2.csv")
}

func TestPrintAnswer(t *testing.T) {
	var buf bytes.Buffer
	printAnswer(&buf, &domain.Answer{
		Text:  "Revenue grew 12% [page_1_chunk_1].",
		Hits:  []domain.Hit{{Source: "page_1_chunk_1", Type: domain.DocumentText, Score: 0.8}},
		Chart: &domain.Chart{Type: "bar", Title: "Revenue", Labels: []string{"FY23", "FY24"}, Values: []float64{10, 12}},
	})
	out := buf.String()
	assert.Contains(t, out, "Revenue grew 12%")
	assert.Contains(t, out, "page_1_chunk_1 (text, score 0.800)")
	assert.Contains(t, out, "FY24")
}

func TestBuildEmbedder(t *testing.T) {
	emb, err := buildEmbedder(config.EmbedderConfig{Type: "tfidf"})
	require.NoError(t, err)
	assert.Equal(t, "tfidf", emb.Name())

	_, err = buildEmbedder(config.EmbedderConfig{Type: "openai"})
	assert.Error(t, err)

	t.Setenv("REPORTQA_TEST_KEY", "")
	_, err = buildEmbedder(config.EmbedderConfig{Type: "openai", OpenAI: &config.OpenAIEmbedderConfig{APIKeyEnv: "REPORTQA_TEST_KEY"}})
	assert.Error(t, err)
}

func TestBuildModel(t *testing.T) {
	t.Setenv("REPORTQA_TEST_KEY", "k")
	m, err := buildModel(config.LLMConfig{Type: "openai", OpenAI: &config.OpenAILLMConfig{APIKeyEnv: "REPORTQA_TEST_KEY"}})
	require.NoError(t, err)
	assert.NotNil(t, m)

	_, err = buildModel(config.LLMConfig{Type: "local"})
	assert.Error(t, err)
}

func TestOpenSession_RetrievalOnly(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "all_text.txt")
	require.NoError(t, os.WriteFile(text, []byte("--- PAGE 1 ---\nRevenue grew 12% in FY24.\n--- PAGE 2 ---\nThe board met eight times.\n"), 0o644))

	cfg := config.Default()
	cfg.Input.TextFile = text
	cfg.Input.TableDir = ""
	cfg.Chunker.ChunkSize = 20
	cfg.Chunker.ChunkOverlap = 5

	var logs bytes.Buffer
	s, err := openSession(context.Background(), cfg, &logs, false)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, 2, s.stats.TextChunks)
	assert.NotEmpty(t, s.stats.SessionID)

	hits, err := s.svc.Query(context.Background(), "board meetings", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "page_2_chunk_1", hits[0].Source)
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	flagConfigInitPath, flagConfigInitForce = path, false
	t.Cleanup(func() { flagConfigInitPath, flagConfigInitForce = "", false })

	var out bytes.Buffer
	configInitCmd.SetOut(&out)
	require.NoError(t, runConfigInit(configInitCmd, nil))
	assert.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	assert.Error(t, runConfigInit(configInitCmd, nil), "existing file needs --force")
	flagConfigInitForce = true
	assert.NoError(t, runConfigInit(configInitCmd, nil))
}

func TestRunSearch_RejectsNegativeK(t *testing.T) {
	flagSearchK = -3
	t.Cleanup(func() { flagSearchK = 0 })

	err := runSearch(searchCmd, []string{"revenue"})
	assert.ErrorIs(t, err, retrieval.ErrInvalidTopK)
}
