package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ragchat/internal/domain"
)

// AskPort is the TUI-facing subset of the RAG service.
type AskPort interface {
	Ask(ctx context.Context, question string) (domain.Answer, error)
}

// Model is the Bubble Tea model for the interactive question/answer loop.
// A question is dispatched as a command so the "Thinking..." status renders
// while the retrieval and generation round trips block.
type Model struct {
	service AskPort
	input   textinput.Model
	view    viewport.Model
	answer  *domain.Answer
	header  string
	status  string
	ready   bool
}

// New creates a new TUI model. The header line typically carries ingest stats.
func New(service AskPort, header string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter ('exit' to quit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, view: vp, header: header, status: "Ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.answer = nil
		} else {
			m.status = fmt.Sprintf("Answered %q", msg.question)
			answer := msg.answer
			m.answer = &answer
			m.input.SetValue("")
		}
		m.view.SetContent(m.renderAnswer())
		m.view.GotoTop()
		return m, nil
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // title + header, status, input frame, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.view.Width = max(20, msg.Width)
		m.view.Height = max(3, vh-rh)
		m.view.SetContent(m.renderAnswer())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			if strings.EqualFold(q, "exit") {
				return m, tea.Quit
			}
			m.status = "Thinking..."
			return m, m.ask(q)
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// answerMsg carries the result of one Ask round trip back into Update.
type answerMsg struct {
	question string
	answer   domain.Answer
	err      error
}

func (m Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		answer, err := m.service.Ask(context.Background(), question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

// View renders the TUI layout and the current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	title := titleStyle.Render("ragchat")
	header := headerStyle.Render(m.header)
	answer := answerBoxStyle.Render(m.view.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return title + "\n" + header + "\n" + answer + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet. Ask a question below."
	}
	var b strings.Builder
	b.WriteString(m.answer.Text)
	if len(m.answer.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sourceHeadStyle.Render("Sources"))
		for i, src := range m.answer.Sources {
			b.WriteString(fmt.Sprintf("\n[%d] %s (chunk %d, score %.3f)",
				i+1, src.Chunk.Source, src.Chunk.Index, src.Score))
		}
	}
	return b.String()
}

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sourceHeadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
