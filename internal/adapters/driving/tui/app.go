// Package tui provides the interactive terminal UI, a scrollable chat
// transcript with an input line, following the Elm architecture.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brightquery-labs/brightquery-cli/internal/adapters/driving/tui/messages"
	"github.com/brightquery-labs/brightquery-cli/internal/adapters/driving/tui/styles"
	"github.com/brightquery-labs/brightquery-cli/internal/core/domain"
)

// App is the main TUI application. It implements tea.Model for use with
// Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// viewport shows the scrollable transcript.
	viewport viewport.Model

	// input is the question entry line.
	input textinput.Model

	// spinner shows progress while a turn is processed.
	spinner spinner.Model

	// turns is the rendered conversation so far.
	turns []domain.Turn

	// waiting is true while a turn is being processed.
	waiting bool

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()

	input := textinput.New()
	input.Placeholder = "Ask about a company's services..."
	input.Focus()
	input.CharLimit = 500

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(s.Theme().Primary)

	return &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		input:   input,
		spinner: sp,
		width:   80,
		height:  24,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("brightquery - Company Services Assistant"),
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = msg.Width - 6
		if !a.ready {
			a.viewport = viewport.New(msg.Width, a.transcriptHeight())
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = a.transcriptHeight()
		}
		a.refreshTranscript()
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.TurnCompleted:
		a.waiting = false
		a.turns = a.ports.Chat.History()
		a.refreshTranscript()
		return a, nil

	case messages.SessionReset:
		a.waiting = false
		a.turns = nil
		a.refreshTranscript()
		return a, nil

	case messages.ErrorOccurred:
		a.waiting = false
		a.err = msg.Err
		return a, nil

	case spinner.TickMsg:
		if a.waiting {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	var inputCmd tea.Cmd
	a.input, inputCmd = a.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	var vpCmd tea.Cmd
	a.viewport, vpCmd = a.viewport.Update(msg)
	if vpCmd != nil {
		cmds = append(cmds, vpCmd)
	}

	return a, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return a, tea.Quit

	case tea.KeyCtrlR:
		if a.waiting {
			return a, nil
		}
		return a, a.resetSession()

	case tea.KeyEnter:
		if a.waiting {
			return a, nil
		}
		question := strings.TrimSpace(a.input.Value())
		if question == "" {
			return a, nil
		}
		a.err = nil
		a.waiting = true
		a.input.SetValue("")

		// Show the user turn immediately; the reply arrives async.
		a.turns = append(a.turns, domain.Turn{Role: domain.RoleUser, Text: question})
		a.refreshTranscript()

		return a, tea.Batch(a.submitTurn(question), a.spinner.Tick)

	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd

	default:
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
}

// submitTurn runs one turn through the chat service off the UI loop.
func (a *App) submitTurn(question string) tea.Cmd {
	return func() tea.Msg {
		turn := a.ports.Chat.HandleTurn(a.ctx, question)
		return messages.TurnCompleted{Turn: turn}
	}
}

// resetSession discards the conversation and starts a new session.
func (a *App) resetSession() tea.Cmd {
	return func() tea.Msg {
		a.ports.Chat.Reset()
		return messages.SessionReset{}
	}
}

// refreshTranscript re-renders the transcript into the viewport and
// scrolls to the bottom.
func (a *App) refreshTranscript() {
	if !a.ready {
		return
	}
	a.viewport.SetContent(a.renderTranscript())
	a.viewport.GotoBottom()
}

// renderTranscript renders all turns as labelled paragraphs.
func (a *App) renderTranscript() string {
	if len(a.turns) == 0 {
		return a.styles.Muted.Render("Ask about a company's services to get started.")
	}

	sections := make([]string, 0, len(a.turns)*2)
	for _, turn := range a.turns {
		label := a.styles.UserLabel.Render("You")
		if turn.Role == domain.RoleAssistant {
			label = a.styles.AssistantLabel.Render("Assistant")
		}
		body := a.styles.Normal.Width(a.width - 2).Render(turn.Text)
		sections = append(sections, label, body, "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// transcriptHeight is the viewport height after reserving space for the
// header, input field, and help line.
func (a *App) transcriptHeight() int {
	h := a.height - 7
	if h < 3 {
		h = 3
	}
	return h
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	header := a.styles.Title.Render("BrightQuery")
	sections = append(sections, header, "")

	sections = append(sections, a.viewport.View())

	if a.err != nil {
		sections = append(sections, a.styles.Error.Render("Error: "+a.err.Error()))
	}

	if a.waiting {
		sections = append(sections, a.spinner.View()+a.styles.Muted.Render(" thinking..."))
	} else {
		sections = append(sections, "")
	}

	sections = append(sections, a.styles.InputField.Width(a.width-4).Render(a.input.View()))
	sections = append(sections, a.styles.Help.Render("enter: send • ctrl+r: new session • esc: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Turns returns the rendered conversation turns.
func (a *App) Turns() []domain.Turn {
	return a.turns
}

// Waiting returns whether a turn is currently being processed.
func (a *App) Waiting() bool {
	return a.waiting
}

// Err returns the current error, if any.
func (a *App) Err() error {
	return a.err
}
