package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ddadvisor/internal/agent"
	"ddadvisor/internal/domain"
)

// AskPort is the TUI-facing subset of the application.
type AskPort interface {
	Ask(ctx context.Context, question, rolePrompt string) (agent.Outcome, error)
}

type speaker int

const (
	speakerUser speaker = iota
	speakerBot
)

type turn struct {
	who  speaker
	text string
}

// answerMsg carries a finished Ask back into the update loop.
type answerMsg struct {
	question string
	outcome  agent.Outcome
	err      error
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	ctx        context.Context
	asker      AskPort
	rolePrompt string
	title      string

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []turn
	status     string
	busy       bool
	ready      bool
}

// New creates a chat model. A nil asker means the agent failed to
// initialize; every message is then answered with the unavailable notice.
func New(ctx context.Context, asker AskPort, rolePrompt, title string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about heroes, curios, trinkets... and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	status := "Ready. Ctrl+C to quit."
	if asker == nil {
		status = agent.AgentUnavailableMessage
	}
	return Model{
		ctx:        ctx,
		asker:      asker,
		rolePrompt: rolePrompt,
		title:      title,
		input:      ti,
		viewport:   viewport.New(0, 0),
		spinner:    sp,
		status:     status,
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input box, spacer
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil

	case answerMsg:
		m.busy = false
		reply, status := renderReply(msg)
		m.transcript = append(m.transcript, turn{who: speakerBot, text: reply})
		m.status = status
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	q := strings.TrimSpace(m.input.Value())
	if q == "" || m.busy {
		return m, nil
	}
	m.input.Reset()
	m.transcript = append(m.transcript, turn{who: speakerUser, text: q})

	if m.asker == nil {
		m.transcript = append(m.transcript, turn{who: speakerBot, text: agent.AgentUnavailableMessage})
		m.refresh()
		return m, nil
	}

	m.busy = true
	m.status = "Thinking..."
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.ask(q))
}

// ask runs the question off the update loop.
func (m Model) ask(q string) tea.Cmd {
	asker, ctx, role := m.asker, m.ctx, m.rolePrompt
	return func() tea.Msg {
		out, err := asker.Ask(ctx, q, role)
		return answerMsg{question: q, outcome: out, err: err}
	}
}

func renderReply(msg answerMsg) (reply, status string) {
	switch {
	case errors.Is(msg.err, domain.ErrAgentUnavailable):
		return agent.AgentUnavailableMessage, agent.AgentUnavailableMessage
	case msg.err != nil:
		return "Error: " + msg.err.Error(), "Error"
	}
	o := msg.outcome
	if o.Fallback {
		return fmt.Sprintf("[fallback: %s] %s", o.Tool, o.AsText()), fmt.Sprintf("Answered by %s", o.Tool)
	}
	status = fmt.Sprintf("Answered by agent (%d tool calls)", len(o.Steps))
	if o.Truncated {
		status += ", step limit reached"
	}
	return o.AsText(), status
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render(m.title)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return hintStyle.Render("No messages yet.")
	}
	wrap := lipgloss.NewStyle()
	if m.viewport.Width > 0 {
		wrap = wrap.Width(m.viewport.Width)
	}
	parts := make([]string, 0, len(m.transcript))
	for _, t := range m.transcript {
		label := botLabelStyle.Render("Advisor:")
		if t.who == speakerUser {
			label = userLabelStyle.Render("You:")
		}
		parts = append(parts, wrap.Render(label+" "+t.text))
	}
	return strings.Join(parts, "\n\n")
}

var (
	headerStyle        = lipgloss.NewStyle().Bold(true)
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	hintStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userLabelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	botLabelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
