package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ordertwin/internal/query"
)

const answerTimeout = 2 * time.Minute

// Answerer is the TUI-facing subset of the query pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string, topK int) (*query.Result, error)
}

// Model is the Bubble Tea model for the order chat.
type Model struct {
	answerer Answerer
	topK     int
	input    textinput.Model
	viewport viewport.Model
	status   string
	ready    bool
	waiting  bool
}

// New creates a new chat model.
func New(answerer Answerer, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the orders and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		answerer: answerer,
		topK:     topK,
		input:    ti,
		viewport: vp,
		status:   "Ready. Type a question about the orders.",
	}
}

// answerMsg carries the outcome of an Answer call back into Update.
type answerMsg struct {
	question string
	result   *query.Result
	err      error
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + question box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.waiting = true
				m.status = "Thinking..."
				return m, m.ask(q)
			}
		}
	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Answered with %d context document(s), model %s",
			msg.result.DocumentsFound, msg.result.Generation.Model)
		m.viewport.SetContent(renderAnswer(msg.question, msg.result))
		m.input.SetValue("")
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Order Twin Chat")
	answer := answerBoxStyle.Render(m.viewport.View())
	input := questionBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), answerTimeout)
		defer cancel()
		result, err := m.answerer.Answer(ctx, question, m.topK)
		return answerMsg{question: question, result: result, err: err}
	}
}

func renderAnswer(question string, r *query.Result) string {
	var sb strings.Builder
	sb.WriteString(questionStyle.Render("Q: " + question))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(r.Answer))
	return sb.String()
}

var (
	answerBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
