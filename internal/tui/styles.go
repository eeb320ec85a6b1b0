// Package tui provides the terminal user interface components for glowtrack.
package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/glowtrack/internal/model"
)

// Color palette.
var (
	ColorPrimary   = lipgloss.Color("#DB2777") // Rose
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorActive    = lipgloss.Color("#3B82F6") // Blue
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleSubtitle is used for subtitles and secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleCategory is used for category labels.
	StyleCategory = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	StyleBody = lipgloss.NewStyle()

	// StyleActive is used for enabled settings and granted permission.
	StyleActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	// StyleInactive is used for disabled settings.
	StyleInactive = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleSelected highlights the focused choice in a prompt.
	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(ColorPrimary).
			Padding(0, 2)

	// StyleUnselected is used for the other choices.
	StyleUnselected = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles.
var (
	// StyleBannerBox frames a delivered notification.
	StyleBannerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 2)

	// StylePromptBox frames the consent prompt.
	StylePromptBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)
)

// FormatCategory renders a category label.
func FormatCategory(c model.Category) string {
	return StyleCategory.Render(c.Label())
}

// StateBadge renders an authorization state.
func StateBadge(state model.AuthorizationState) string {
	switch state {
	case model.Authorized:
		return StyleActive.Render("● " + state.Label())
	case model.Denied:
		return StyleError.Render("● " + state.Label())
	default:
		return StyleWarning.Render("○ " + state.Label())
	}
}

// HelpBar renders key/description pairs, e.g. HelpBar("y", "allow", "n", "deny").
func HelpBar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, StyleHelpKey.Render(pairs[i])+" "+StyleHelpDesc.Render(pairs[i+1]))
	}
	return StyleHelp.Render(strings.Join(parts, "  "))
}
