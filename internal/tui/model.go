package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"reportqa/internal/domain"
)

// AskPort is the TUI-facing subset of the report service.
type AskPort interface {
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}

type answerMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service  AskPort
	timeout  time.Duration
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	answer   *domain.Answer
	overview string
	status   string
	// cursor 0 shows the answer, i > 0 shows source i.
	cursor    int
	ready     bool
	busy      bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(service AskPort, overview string, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question about the report and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		service:  service,
		timeout:  timeout,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  sp,
		overview: overview,
		status:   "Index ready. Ask a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) ask(q string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if m.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, m.timeout)
			defer cancel()
		}
		a, err := m.service.Ask(ctx, q)
		return answerMsg{question: q, answer: a, err: err}
	}
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		headerLines := 1 + lipgloss.Height(m.overview)
		reserved := headerLines + 1 + qh + 1 + 1 // status, input line, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.render())
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else {
			m.answer = msg.answer
			m.cursor = 0
			m.lastQuery = msg.question
			m.status = fmt.Sprintf("Answered %q from %d sources", msg.question, len(msg.answer.Hits))
			if msg.answer.Advisory {
				m.status = "Language model unavailable"
			}
		}
		m.viewport.SetContent(m.render())
		m.viewport.GotoTop()
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.status = fmt.Sprintf("Thinking about %q", q)
			m.input.SetValue("")
			return m, tea.Batch(m.spinner.Tick, m.ask(q))
		case "down", "tab":
			if n := m.pages(); n > 1 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.render())
				m.viewport.GotoTop()
				return m, nil
			}
		case "up", "shift+tab":
			if n := m.pages(); n > 1 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.render())
				m.viewport.GotoTop()
				return m, nil
			}
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) pages() int {
	if m.answer == nil {
		return 0
	}
	return 1 + len(m.answer.Hits)
}

// View renders the TUI layout and current page.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("Annual Report Q&A")
	overview := overviewStyle.Render(m.overview)
	status := statusStyle.Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	return header + "\n" + overview + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) render() string {
	if m.answer == nil {
		return "No answer yet."
	}
	if m.cursor == 0 {
		return renderAnswer(m.answer, m.viewport.Width)
	}
	h := m.answer.Hits[m.cursor-1]
	title := sectionStyle.Render(fmt.Sprintf("Source %d/%d  [%s]  score=%.3f", m.cursor, len(m.answer.Hits), h.Source, h.Score))
	if h.Type == domain.DocumentTable {
		return title + "\n\n" + h.Content
	}
	return title + "\n\n" + highlightBestSentence(h.Content, m.lastQuery)
}

func renderAnswer(a *domain.Answer, width int) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Answer"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(max(20, width-2)).Render(a.Text))
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("Sources"))
	b.WriteString("\n")
	if len(a.Hits) == 0 {
		b.WriteString("No relevant context found.\n")
	}
	for _, h := range a.Hits {
		fmt.Fprintf(&b, "- %s (score: %.3f)\n", sourceStyle.Render(h.Source), h.Score)
	}
	if a.Chart != nil {
		b.WriteString("\n")
		b.WriteString(RenderChart(a.Chart, width))
	}
	return b.String()
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	overviewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := splitSentences(text)
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := tokenOverlapScore(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx && bestScore > 0 {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}

// splitSentences keeps trailing text that has no closing punctuation.
func splitSentences(text string) []string {
	var out []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringIndex(text, -1) {
		out = append(out, text[loc[0]:loc[1]])
		last = loc[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
