package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportqa/internal/domain"
)

type fakePort struct {
	answer *domain.Answer
	err    error
	asked  []string
}

func (f *fakePort) Ask(_ context.Context, q string) (*domain.Answer, error) {
	f.asked = append(f.asked, q)
	return f.answer, f.err
}

func sampleAnswer() *domain.Answer {
	return &domain.Answer{
		Text: "Revenue grew 12% [page_1_chunk_1].",
		Hits: []domain.Hit{
			{Source: "page_1_chunk_1", Type: domain.DocumentText, Content: "Revenue grew 12% in FY24. The board met.", Score: 0.9},
			{Source: "report_table_1.csv", Type: domain.DocumentTable, Content: "Table report_table_1.csv\nColumns: [Year, Revenue]", Score: 0.4},
		},
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

func TestView_LoadingUntilSized(t *testing.T) {
	m := New(&fakePort{}, "overview", 0)
	assert.Equal(t, "Loading...", m.View())
	m = sized(t, m)
	v := m.View()
	assert.Contains(t, v, "Annual Report Q&A")
	assert.Contains(t, v, "overview")
	assert.Contains(t, v, "No answer yet.")
}

func TestAsk_RoundTrip(t *testing.T) {
	port := &fakePort{answer: sampleAnswer()}
	m := sized(t, New(port, "", 0))

	msg := m.ask("How did revenue change?")()
	am, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, []string{"How did revenue change?"}, port.asked)

	next, _ := m.Update(am)
	m = next.(Model)
	assert.False(t, m.busy)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.status, "from 2 sources")
	assert.Contains(t, m.render(), "Revenue grew 12% [page_1_chunk_1].")
	assert.Contains(t, m.render(), "page_1_chunk_1 (score: 0.900)")
}

func TestAsk_ErrorShownInStatus(t *testing.T) {
	m := sized(t, New(&fakePort{}, "", 0))
	next, _ := m.Update(answerMsg{question: "q", err: errors.New("boom")})
	m = next.(Model)
	assert.Equal(t, "Error: boom", m.status)
	assert.Nil(t, m.answer)
}

func TestAsk_AdvisoryStatus(t *testing.T) {
	m := sized(t, New(&fakePort{}, "", 0))
	a := sampleAnswer()
	a.Advisory = true
	next, _ := m.Update(answerMsg{question: "q", answer: a})
	assert.Equal(t, "Language model unavailable", next.(Model).status)
}

func TestEnter_IgnoresBlankInput(t *testing.T) {
	m := sized(t, New(&fakePort{}, "", 0))
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, next.(Model).busy)

	m.input.SetValue("  revenue  ")
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.NotNil(t, cmd)
	m = next.(Model)
	assert.True(t, m.busy)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.status, `"revenue"`)
}

func TestCursor_CyclesThroughSources(t *testing.T) {
	m := sized(t, New(&fakePort{}, "", 0))
	next, _ := m.Update(answerMsg{question: "revenue", answer: sampleAnswer()})
	m = next.(Model)

	down := tea.KeyMsg{Type: tea.KeyDown}
	next, _ = m.Update(down)
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.render(), "Source 1/2  [page_1_chunk_1]")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, 2, m.cursor)
	assert.Contains(t, m.render(), "Columns: [Year, Revenue]")

	next, _ = m.Update(down)
	assert.Equal(t, 0, next.(Model).cursor)

	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, next.(Model).cursor)
}

func TestQuitKeys(t *testing.T) {
	m := New(&fakePort{}, "", 0)
	for _, k := range []tea.KeyType{tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc} {
		_, cmd := m.Update(tea.KeyMsg{Type: k})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestSplitSentences_KeepsTrailingText(t *testing.T) {
	got := splitSentences("Revenue grew. Margins held! Outlook unchanged")
	require.Len(t, got, 3)
	assert.Equal(t, "Outlook unchanged", got[2])
	assert.Empty(t, splitSentences("   "))
}

func TestHighlightBestSentence(t *testing.T) {
	text := "The board met eight times. Revenue grew 12% in FY24."
	out := highlightBestSentence(text, "revenue growth")
	assert.Contains(t, out, "The board met eight times.")
	assert.Contains(t, out, "Revenue grew 12% in FY24.")
	assert.Equal(t, "", highlightBestSentence("", "q"))
}

func TestTokenOverlapScore(t *testing.T) {
	q := toTokenSet("What was FY24 revenue?")
	assert.Equal(t, 2, tokenOverlapScore(q, "Revenue in FY24, revenue again."))
	assert.Equal(t, 0, tokenOverlapScore(q, "Board meetings."))
}

func TestRenderChart(t *testing.T) {
	bar := RenderChart(&domain.Chart{
		Type: "bar", Title: "Revenue", Labels: []string{"FY23", "FY24"}, Values: []float64{10, 12.5},
		XLabel: "Year", YLabel: "USD bn",
	}, 60)
	assert.Contains(t, bar, "Revenue")
	assert.Contains(t, bar, "FY23")
	assert.Contains(t, bar, "12.50")
	assert.Contains(t, bar, "█")
	assert.Contains(t, bar, "x: Year  y: USD bn")
	lines := strings.Split(strings.TrimSpace(bar), "\n")
	assert.Len(t, lines, 4)

	line := RenderChart(&domain.Chart{Type: "line", Title: "Trend", Labels: []string{"a"}, Values: []float64{0}}, 60)
	assert.Contains(t, line, "●")
	assert.NotContains(t, line, "█")

	assert.Contains(t, RenderChart(&domain.Chart{Title: "Empty"}, 60), "(no data)")
}
