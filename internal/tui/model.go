package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/convsurvey/internal/session"
	"github.com/fyrsmithlabs/convsurvey/internal/table"
)

// screen identifies which view the model is showing.
type screen int

const (
	screenSetup screen = iota
	screenList
	screenRate
)

const (
	defaultWidth   = 100
	defaultHeight  = 30
	clockInterval  = 30 * time.Second
	transcriptPane = 14
)

// Model is the BubbleTea model for the survey. All conversation and rating
// state lives in the session; the model holds only presentation state. The
// BubbleTea loop is the session's single writer, so every session call
// happens inline in Update rather than in a command goroutine.
type Model struct {
	session *session.Session
	folder  string
	logger  *zap.Logger

	screen screen
	width  int
	height int

	// Setup screen
	annotatorInput textinput.Model

	// List screen
	cursor       int
	doneProgress progress.Model

	// Rating screen
	form       ratingForm
	transcript viewport.Model

	status   string // one-line result of the last action
	banner   string // break reminder or long-session warning
	quitting bool
}

type tickMsg time.Time

// Run starts the survey UI and blocks until the rater quits.
func Run(s *session.Session, folder string, logger *zap.Logger) error {
	p := tea.NewProgram(New(s, folder, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("survey UI failed: %w", err)
	}
	return nil
}

// New creates the survey model. The folder is loaded after the annotator
// identifies themselves on the setup screen.
func New(s *session.Session, folder string, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	input := textinput.New()
	input.Placeholder = "e.g. jane_doe"
	input.CharLimit = 64
	input.Width = 40
	input.Focus()

	prog := progress.New(
		progress.WithGradient("#00ffff", "#00ff00"),
		progress.WithWidth(40),
	)

	vp := viewport.New(defaultWidth-8, transcriptPane)

	m := Model{
		session:        s,
		folder:         folder,
		logger:         logger,
		screen:         screenSetup,
		width:          defaultWidth,
		height:         defaultHeight,
		annotatorInput: input,
		doneProgress:   prog,
		transcript:     vp,
	}

	// A pre-identified annotator skips the setup screen.
	if s.AnnotatorID() != "" {
		if _, err := s.Load(context.Background(), folder); err != nil {
			m.status = err.Error()
		} else {
			m.screen = screenList
		}
	}
	return m
}

// Init starts the session clock used for the long-session warning.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, clockTick())
}

func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.transcript.Width = max(20, msg.Width-8)
		return m, nil

	case tickMsg:
		if m.session.RunningLong() && m.banner == "" {
			m.banner = fmt.Sprintf("You have been rating for over %s. Consider a longer break.",
				time.Since(m.session.StartedAt()).Truncate(time.Minute))
		}
		return m, clockTick()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.screen {
		case screenSetup:
			return m.updateSetup(msg)
		case screenList:
			return m.updateList(msg)
		case screenRate:
			return m.updateRate(msg)
		}
	}

	return m, nil
}

func (m Model) updateSetup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := m.session.SetAnnotator(m.annotatorInput.Value()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		result, err := m.session.Load(context.Background(), m.folder)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		if len(result.Errors) > 0 {
			m.status = fmt.Sprintf("%d file(s) skipped during load", len(result.Errors))
		}
		m.screen = screenList
		m.cursor = 0
		return m, nil

	case "esc":
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.annotatorInput, cmd = m.annotatorInput.Update(msg)
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	conversations := m.session.Conversations()

	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(conversations)-1 {
			m.cursor++
		}

	case "enter":
		if len(conversations) == 0 {
			return m, nil
		}
		conv := conversations[m.cursor]
		existing, _ := m.session.Store().Get(conv.ID)
		m.form = newRatingForm(conv, existing)
		m.transcript.SetContent(renderTranscript(conv, m.transcript.Width))
		m.transcript.GotoTop()
		m.banner = ""
		m.screen = screenRate
		return m, nil

	case "s":
		path, err := m.session.Save(context.Background())
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Saved to %s", path)
		return m, nil

	case "i":
		path := table.RatingsPath(m.session.SourceFolder(), m.session.AnnotatorID())
		result, err := m.session.Import(context.Background(), path)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Restored %d rating(s) from %s", result.Matched, path)
		if len(result.Unmatched) > 0 {
			m.status += fmt.Sprintf(" (%d row(s) had no matching conversation)", len(result.Unmatched))
		}
		return m, nil

	case "r":
		if _, err := m.session.Load(context.Background(), m.session.SourceFolder()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		if m.cursor >= len(m.session.Conversations()) {
			m.cursor = 0
		}
		m.status = "Reloaded conversations"
		return m, nil
	}

	return m, nil
}

func (m Model) updateRate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenList
		m.banner = ""
		return m, nil

	case "tab", "j":
		m.form.next()
		return m, nil

	case "shift+tab", "k":
		m.form.prev()
		return m, nil

	case "0", "1", "2":
		m.form.setScore(int(msg.String()[0] - '0'))
		return m, nil

	case " ":
		m.form.toggleTarget()
		return m, nil

	case "?":
		m.form.showRubric = !m.form.showRubric
		return m, nil

	case "up", "down", "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case "enter":
		if !m.form.complete() {
			m.status = "Score all four dimensions before submitting"
			return m, nil
		}
		r, err := m.session.Rate(context.Background(),
			m.form.conv.ID, m.form.scores, m.form.statuses)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Rated %s: %.2f %s", r.ConversationID, r.OverallScore, r.PassFail)
		if m.session.BreakDue() {
			m.banner = fmt.Sprintf("You have rated %d conversations this run. Time for a short break?",
				m.session.RatedThisRun())
		}
		m.screen = screenList
		m.advanceCursor()
		return m, nil
	}

	return m, nil
}

// advanceCursor moves the list cursor to the next unrated conversation, so
// submitting flows straight into the next one.
func (m *Model) advanceCursor() {
	conversations := m.session.Conversations()
	for offset := 1; offset <= len(conversations); offset++ {
		i := (m.cursor + offset) % len(conversations)
		if !m.session.Store().IsDone(conversations[i].ID) {
			m.cursor = i
			return
		}
	}
}
