package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

// Choices in the consent prompt, in display order.
const (
	choiceAllow = iota
	choiceDeny
)

// ConsentModel is the bubbletea model for the one-time notification
// permission prompt.
type ConsentModel struct {
	appName  string
	selected int

	answered  bool
	granted   bool
	dismissed bool

	width int
}

// NewConsentModel creates a consent prompt for appName. Allow is preselected.
func NewConsentModel(appName string) *ConsentModel {
	return &ConsentModel{appName: appName, selected: choiceAllow}
}

// Init initializes the model.
func (m *ConsentModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *ConsentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *ConsentModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.answer(true)

	case "n", "N":
		return m.answer(false)

	case "left", "right", "h", "l", "tab", "shift+tab":
		if m.selected == choiceAllow {
			m.selected = choiceDeny
		} else {
			m.selected = choiceAllow
		}
		return m, nil

	case "enter", " ":
		return m.answer(m.selected == choiceAllow)

	case "q", "esc", "ctrl+c":
		m.dismissed = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *ConsentModel) answer(granted bool) (tea.Model, tea.Cmd) {
	m.answered = true
	m.granted = granted
	return m, tea.Quit
}

// View renders the prompt.
func (m *ConsentModel) View() string {
	if m.answered || m.dismissed {
		return ""
	}

	var content strings.Builder
	content.WriteString(StyleTitle.Render(fmt.Sprintf("%q would like to send you notifications", m.appName)))
	content.WriteString("\n")
	content.WriteString(StyleSubtitle.Render("Reminders for your daily photo, your routine and your progress."))
	content.WriteString("\n")
	content.WriteString(StyleSubtitle.Render("You can only be asked once. Denying can be undone with 'auth reset'."))
	content.WriteString("\n\n")

	allow, deny := StyleUnselected, StyleUnselected
	if m.selected == choiceAllow {
		allow = StyleSelected
	} else {
		deny = StyleSelected
	}
	content.WriteString(allow.Render("Allow") + "  " + deny.Render("Don't Allow"))

	box := StylePromptBox
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	return box.Render(content.String()) + "\n" + HelpBar("y", "allow", "n", "don't allow", "←/→", "choose", "enter", "confirm", "esc", "dismiss") + "\n"
}

// Result reports the answer. A dismissed prompt reports ErrPromptUnavailable
// so the permission stays undetermined.
func (m *ConsentModel) Result() (bool, error) {
	if !m.answered {
		return false, fmt.Errorf("%w: prompt dismissed", errors.ErrPromptUnavailable)
	}
	return m.granted, nil
}

// RunConsent shows the consent prompt on in/out until the user answers,
// dismisses it or ctx is cancelled.
func RunConsent(ctx context.Context, appName string, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(NewConsentModel(appName),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out))

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, errors.Wrap(err, "consent prompt")
	}

	m, ok := final.(*ConsentModel)
	if !ok {
		return false, errors.ErrPromptUnavailable
	}
	return m.Result()
}
