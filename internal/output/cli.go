package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/manav03panchal/glowtrack/internal/engine"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/notify"
	"github.com/manav03panchal/glowtrack/internal/routine"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary   = lipgloss.Color("#DB2777") // Rose
	colorSecondary = lipgloss.Color("#10B981") // Green
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorWarning   = lipgloss.Color("#F59E0B") // Yellow
	colorError     = lipgloss.Color("#EF4444") // Red
	colorSuccess   = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleCategory = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleStep = lipgloss.NewStyle().
			Foreground(colorSecondary)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

func (c *CLIFormatter) style(s lipgloss.Style, text string) string {
	if c.IsColorEnabled() {
		return s.Render(text)
	}
	return text
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	c.Println(c.style(styleTitle, text))
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	c.Println(c.style(styleSuccess, "✓ "+text))
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	c.Println(c.style(styleWarning, "⚠ "+text))
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	c.Println(c.style(styleError, "✗ "+text))
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	c.Println(c.style(styleMuted, text))
}

// Category formats a category label.
func (c *CLIFormatter) Category(cat model.Category) string {
	return c.style(styleCategory, cat.Label())
}

// AuthState formats an authorization state.
func (c *CLIFormatter) AuthState(state model.AuthorizationState) string {
	switch state {
	case model.Authorized:
		return c.style(styleSuccess, state.Label())
	case model.Denied:
		return c.style(styleError, state.Label())
	default:
		return c.style(styleWarning, state.Label())
	}
}

// PrintPreferences prints the preference set. describe explains a frequency,
// e.g. "every day at 09:00"; it may be nil.
func (c *CLIFormatter) PrintPreferences(set model.PreferenceSet, describe func(model.Frequency) string) {
	c.Title("Notification preferences")

	rows := make([]TableRow, 0, len(set))
	for _, cat := range model.AllCategories() {
		s := set.Get(cat)
		status := "off"
		if s.Enabled {
			status = "on"
		}
		when := ""
		if s.Active() && describe != nil {
			when = describe(s.Frequency)
		}
		rows = append(rows, TableRow{Columns: []string{cat.Label(), status, string(s.Frequency), when}})
	}
	c.PrintTable([]string{"CATEGORY", "STATUS", "FREQUENCY", "WHEN"}, rows)
}

// PrintAuthStatus prints the authorization state with a hint for what to do next.
func (c *CLIFormatter) PrintAuthStatus(state model.AuthorizationState) {
	c.Printf("Notifications: %s\n", c.AuthState(state))
	switch state {
	case model.NotDetermined:
		c.Muted("Run 'glowtrack auth request' to allow notifications.")
	case model.Denied:
		c.Muted("Notifications were denied. Run 'glowtrack auth reset' to be asked again.")
	}
}

// PrintReport prints a reconcile report.
func (c *CLIFormatter) PrintReport(report *notify.ReconcileReport) {
	if report == nil {
		return
	}
	if report.Blocked() {
		c.Warning(fmt.Sprintf("Notifications are %s; reminders are paused.", strings.ToLower(report.AuthState.Label())))
	}

	rows := make([]TableRow, 0, len(report.Categories))
	for _, cr := range report.Categories {
		next := ""
		if cr.FireAt != nil {
			next = fmt.Sprintf("%s (%s)", FormatTimeShort(*cr.FireAt), FormatUntil(*cr.FireAt, report.At))
		}
		if cr.Error != "" {
			next = "error: " + cr.Error
		}
		rows = append(rows, TableRow{Columns: []string{cr.Category.Label(), string(cr.Outcome), next}})
	}
	c.PrintTable([]string{"CATEGORY", "OUTCOME", "NEXT"}, rows)
	c.Muted(fmt.Sprintf("%d scheduled, %d cancelled", len(report.Scheduled), len(report.Cancelled)))
}

// PrintChange prints the outcome of a preference mutation.
func (c *CLIFormatter) PrintChange(cat model.Category, change *engine.Change, describe func(model.Frequency) string) {
	s := change.Preferences.Get(cat)
	switch {
	case !s.Enabled:
		c.Success(fmt.Sprintf("%s is off", cat.Label()))
	case s.Frequency == model.Never:
		c.Success(fmt.Sprintf("%s set to never", cat.Label()))
	case describe != nil:
		c.Success(fmt.Sprintf("%s: %s", cat.Label(), describe(s.Frequency)))
	default:
		c.Success(fmt.Sprintf("%s: %s", cat.Label(), s.Frequency))
	}
	if !change.Persisted {
		c.Warning("Could not save preferences; the change applies until glowtrack exits and will be retried.")
	}
	if change.Report != nil && change.Report.Blocked() {
		c.Muted("Reminders are paused until notifications are authorized.")
	}
}

// PrintDeliveries prints pending deliveries.
func (c *CLIFormatter) PrintDeliveries(deliveries []model.ScheduledDelivery, now time.Time) {
	if len(deliveries) == 0 {
		c.Muted("No reminders scheduled.")
		return
	}

	rows := make([]TableRow, 0, len(deliveries))
	for _, d := range deliveries {
		rows = append(rows, TableRow{Columns: []string{
			d.Category.Label(),
			FormatTimeShort(d.FireAt),
			FormatUntil(d.FireAt, now),
			shortID(d.ID),
		}})
	}
	c.PrintTable([]string{"CATEGORY", "FIRES", "WHEN", "ID"}, rows)
}

// PrintRoutine prints a parsed routine, or the original text when none was found.
func (c *CLIFormatter) PrintRoutine(result routine.Result) {
	if !result.IsRoutine() {
		c.Println(result.Text)
		return
	}

	sections := []struct {
		title string
		steps []string
	}{
		{"Morning routine", result.Morning},
		{"Evening routine", result.Evening},
		{"Weekly treatments", result.Weekly},
	}
	first := true
	for _, s := range sections {
		if len(s.steps) == 0 {
			continue
		}
		if !first {
			c.Println()
		}
		first = false
		c.Title(s.title)
		for i, step := range s.steps {
			c.Printf("  %d. %s\n", i+1, c.style(styleStep, step))
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// TableRow is one row of a CLI table.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	// Print headers
	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	c.Println(c.style(styleBold, strings.TrimRight(headerLine.String(), " ")))

	// Print rows
	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(strings.TrimRight(rowLine.String(), " "))
	}
}
