// Package tui is an interactive terminal client for querying the corpora
// locally.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitarag/internal/domain"
)

// QueryPort is the TUI-facing subset of the query service.
type QueryPort interface {
	ProcessQuery(ctx context.Context, req domain.QueryRequest) (*domain.QueryResult, error)
	DescribeSources() domain.SourcesSummary
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   QueryPort
	input     textinput.Model
	viewport  viewport.Model
	result    *domain.QueryResult
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(service QueryPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a spiritual question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	summary := service.DescribeSources()
	status := fmt.Sprintf("%d verses loaded across %d sources. Type to search.",
		summary.TotalVerses, len(summary.Sources))
	return Model{service: service, input: ti, viewport: vp, status: status}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 1
		totalFooterLines := 1
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.ProcessQuery(context.Background(), domain.QueryRequest{
					Query:          q,
					IncludeSummary: true,
				})
				if err != nil {
					m.status = fmt.Sprintf("Error: %v", err)
					m.result = nil
				} else {
					m.status = fmt.Sprintf("%d verses for %q (%.1f ms)", res.TotalResults, q, res.ProcessingTimeMS)
					m.result = res
					m.cursor = 0
					m.lastQuery = q
				}
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if m.result != nil && len(m.result.RetrievedVerses) > 0 {
				m.cursor = (m.cursor + 1) % len(m.result.RetrievedVerses)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if m.result != nil && len(m.result.RetrievedVerses) > 0 {
				m.cursor = (m.cursor - 1 + len(m.result.RetrievedVerses)) % len(m.result.RetrievedVerses)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Gita & Yoga Sutras Verse Search")
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if m.result == nil || len(m.result.RetrievedVerses) == 0 {
		return "No results yet."
	}
	v := m.result.RetrievedVerses[m.cursor]
	title := fmt.Sprintf("%s  (%d/%d)  score=%.3f",
		refStyle.Render(v.Reference()), m.cursor+1, len(m.result.RetrievedVerses), v.SimilarityScore)
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	if v.Sanskrit != "" {
		b.WriteString(sanskritStyle.Render(v.Sanskrit))
		b.WriteString("\n\n")
	}
	b.WriteString(v.Text)
	if v.Concept != "" || v.Keyword != "" {
		b.WriteString("\n\n")
		b.WriteString(tagStyle.Render(strings.TrimSpace(v.Concept + " " + v.Keyword)))
	}
	if m.result.Summary != nil {
		b.WriteString("\n\n")
		b.WriteString(summaryHeadStyle.Render("Summary"))
		b.WriteString("\n")
		b.WriteString(*m.result.Summary)
	}
	return b.String()
}

var (
	resultBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	refStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sanskritStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	tagStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	summaryHeadStyle = lipgloss.NewStyle().Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
