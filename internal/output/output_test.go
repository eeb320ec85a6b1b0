package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/glowtrack/internal/engine"
	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/notify"
	"github.com/manav03panchal/glowtrack/internal/routine"
)

func newTestCLI() (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf, Format: FormatCLI, ColorMode: ColorNever}
	return NewCLIFormatter(f), &buf
}

func newTestJSON() (*JSONFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf, Format: FormatJSON, ColorMode: ColorNever}
	return NewJSONFormatter(f), &buf
}

func describe(f model.Frequency) string {
	return "every " + string(f)
}

// =============================================================================
// Formatter Tests
// =============================================================================

func TestNewFormatter(t *testing.T) {
	f := NewFormatter()
	assert.NotNil(t, f)
	assert.Equal(t, FormatCLI, f.Format)
	assert.Equal(t, ColorAuto, f.ColorMode)
	assert.False(t, f.IsJSON())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"cli", FormatCLI, false},
		{"JSON", FormatJSON, false},
		{" plain ", FormatPlain, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.True(t, errors.IsUserError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseColorMode(t *testing.T) {
	m, err := ParseColorMode("Always")
	require.NoError(t, err)
	assert.Equal(t, ColorAlways, m)

	_, err = ParseColorMode("sometimes")
	assert.Error(t, err)
}

func TestFormatterIsColorEnabled(t *testing.T) {
	t.Run("color_always", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways}
		assert.True(t, f.IsColorEnabled())
	})

	t.Run("color_never", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorNever}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("plain_never_colored", func(t *testing.T) {
		f := &Formatter{ColorMode: ColorAlways, Format: FormatPlain}
		assert.False(t, f.IsColorEnabled())
	})

	t.Run("color_auto_non_terminal", func(t *testing.T) {
		var buf bytes.Buffer
		f := &Formatter{
			Writer:    &buf,
			ColorMode: ColorAuto,
		}
		// Buffer is not a terminal
		assert.False(t, f.IsColorEnabled())
	})
}

func TestFormatterPrint(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	f.Print("hello")
	f.Println(" world")
	f.Printf("%d", 42)
	assert.Equal(t, "hello world\n42", buf.String())
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf}

	data := map[string]string{"key": "value"}
	err := f.JSON(data)
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), `"key": "value"`)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{2 * time.Hour, "2h"},
		{23*time.Hour + 15*time.Minute, "23h 15m"},
		{72 * time.Hour, "3d"},
		{50 * time.Hour, "2d 2h"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.d))
		})
	}
}

func TestFormatUntil(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "due", FormatUntil(now, now))
	assert.Equal(t, "due", FormatUntil(now.Add(-time.Minute), now))
	assert.Equal(t, "in 23h", FormatUntil(now.Add(23*time.Hour), now))
}

func TestFormatTimeShort(t *testing.T) {
	ts := time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local)
	assert.Equal(t, "Mon 2026-10-19 09:00", FormatTimeShort(ts))
}

// =============================================================================
// CLI Formatter Tests
// =============================================================================

func TestCLIFormatterMessages(t *testing.T) {
	c, buf := newTestCLI()

	c.Title("Title")
	c.Success("saved")
	c.Warning("careful")
	c.Error("broken")
	c.Muted("quiet")

	out := buf.String()
	assert.Contains(t, out, "Title\n")
	assert.Contains(t, out, "✓ saved")
	assert.Contains(t, out, "⚠ careful")
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "quiet")
}

func TestCLIFormatterPrintPreferences(t *testing.T) {
	c, buf := newTestCLI()

	set := model.DefaultPreferenceSet().With(model.RoutineReminder, model.CategorySetting{Enabled: true, Frequency: model.Never})
	c.PrintPreferences(set, describe)

	out := buf.String()
	assert.Contains(t, out, "CATEGORY")
	assert.Contains(t, out, "Daily photo reminder")
	assert.Contains(t, out, "every daily")
	assert.Contains(t, out, "Progress reminder")
	assert.NotContains(t, out, "every never")
	assert.NotContains(t, out, "every weekly", "disabled categories have no schedule")
}

func TestCLIFormatterPrintAuthStatus(t *testing.T) {
	tests := []struct {
		state model.AuthorizationState
		hint  string
	}{
		{model.NotDetermined, "auth request"},
		{model.Denied, "auth reset"},
		{model.Authorized, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			c, buf := newTestCLI()
			c.PrintAuthStatus(tt.state)
			assert.Contains(t, buf.String(), tt.state.Label())
			if tt.hint != "" {
				assert.Contains(t, buf.String(), tt.hint)
			}
		})
	}
}

func TestCLIFormatterPrintReport(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	fireAt := now.Add(23 * time.Hour)

	t.Run("authorized", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintReport(&notify.ReconcileReport{
			At:        now,
			AuthState: model.Authorized,
			Categories: []notify.CategoryReport{
				{Category: model.DailyPhotoReminder, Outcome: notify.OutcomeScheduled, FireAt: &fireAt},
				{Category: model.RoutineReminder, Outcome: notify.OutcomeDisabled},
			},
			Scheduled: []string{"a"},
		})

		out := buf.String()
		assert.Contains(t, out, "scheduled")
		assert.Contains(t, out, "in 23h")
		assert.Contains(t, out, "1 scheduled, 0 cancelled")
		assert.NotContains(t, out, "paused")
	})

	t.Run("blocked", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintReport(&notify.ReconcileReport{At: now, AuthState: model.Denied})
		assert.Contains(t, buf.String(), "paused")
	})

	t.Run("nil", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintReport(nil)
		assert.Empty(t, buf.String())
	})
}

func TestCLIFormatterPrintChange(t *testing.T) {
	set := model.DefaultPreferenceSet()

	t.Run("persisted", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintChange(model.DailyPhotoReminder, &engine.Change{Preferences: set, Persisted: true}, describe)
		assert.Contains(t, buf.String(), "Daily photo reminder: every daily")
		assert.NotContains(t, buf.String(), "Could not save")
	})

	t.Run("not_persisted", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintChange(model.ProgressReminder, &engine.Change{Preferences: set}, describe)
		assert.Contains(t, buf.String(), "Progress reminder is off")
		assert.Contains(t, buf.String(), "Could not save")
	})
}

func TestCLIFormatterPrintDeliveries(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.Local)

	t.Run("empty", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintDeliveries(nil, now)
		assert.Contains(t, buf.String(), "No reminders scheduled")
	})

	t.Run("list", func(t *testing.T) {
		c, buf := newTestCLI()
		d := model.NewScheduledDelivery(model.DailyPhotoReminder, time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local))
		c.PrintDeliveries([]model.ScheduledDelivery{d}, now)

		out := buf.String()
		assert.Contains(t, out, "Thu 2026-10-15 09:00")
		assert.Contains(t, out, "in 23h")
		assert.Contains(t, out, d.ID[:8])
		assert.NotContains(t, out, d.ID)
	})
}

func TestCLIFormatterPrintRoutine(t *testing.T) {
	t.Run("routine", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintRoutine(routine.Parse("Morning Routine:\n- Cleanser\n- SPF\nWeekly Treatments:\n- Mask"))

		out := buf.String()
		assert.Contains(t, out, "Morning routine")
		assert.Contains(t, out, "1. Cleanser")
		assert.Contains(t, out, "2. SPF")
		assert.Contains(t, out, "Weekly treatments")
		assert.NotContains(t, out, "Evening routine")
	})

	t.Run("plain", func(t *testing.T) {
		c, buf := newTestCLI()
		c.PrintRoutine(routine.Parse("drink water"))
		assert.Equal(t, "drink water\n", buf.String())
	})
}

func TestCLIFormatterPrintTable(t *testing.T) {
	c, buf := newTestCLI()
	c.PrintTable([]string{"A", "LONGER"}, []TableRow{
		{Columns: []string{"wide value", "x"}},
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "A           LONGER", string(lines[0]))
	assert.Equal(t, "wide value  x", string(lines[1]))
}

// =============================================================================
// JSON Formatter Tests
// =============================================================================

func TestJSONFormatterPrintPreferences(t *testing.T) {
	j, buf := newTestJSON()
	require.NoError(t, j.PrintPreferences(model.DefaultPreferenceSet(), describe))

	var resp PreferencesResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Len(t, resp.Preferences, 3)
	assert.Equal(t, model.DailyPhotoReminder, resp.Preferences[0].Category)
	assert.Equal(t, "every daily", resp.Preferences[0].Schedule)
	assert.Empty(t, resp.Preferences[2].Schedule)
}

func TestJSONFormatterPrintChange(t *testing.T) {
	j, buf := newTestJSON()
	require.NoError(t, j.PrintChange(&engine.Change{Preferences: model.DefaultPreferenceSet()}, nil))

	var resp ChangeResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "unsaved", resp.Status)
	assert.False(t, resp.Persisted)
	assert.Nil(t, resp.Report)
}

func TestJSONFormatterPrintAuth(t *testing.T) {
	j, buf := newTestJSON()
	granted := true
	require.NoError(t, j.PrintAuth(model.Authorized, &granted))

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, model.Authorized, resp.State)
	require.NotNil(t, resp.Granted)
	assert.True(t, *resp.Granted)
}

func TestJSONFormatterPrintReport(t *testing.T) {
	j, buf := newTestJSON()
	require.NoError(t, j.PrintReport(&notify.ReconcileReport{AuthState: model.NotDetermined}))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "blocked", resp["status"])
}

func TestJSONFormatterPrintDeliveries(t *testing.T) {
	j, buf := newTestJSON()
	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	due := model.NewScheduledDelivery(model.RoutineReminder, now.Add(-time.Hour))
	later := model.NewScheduledDelivery(model.DailyPhotoReminder, now.Add(time.Hour))
	require.NoError(t, j.PrintDeliveries([]model.ScheduledDelivery{due, later}, now))

	var resp DeliveriesResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, int64(0), resp.Deliveries[0].InSeconds)
	assert.Equal(t, int64(3600), resp.Deliveries[1].InSeconds)
	assert.Equal(t, "2026-10-14T11:00:00Z", resp.Deliveries[1].FireAt)
}

func TestJSONFormatterPrintRoutine(t *testing.T) {
	j, buf := newTestJSON()
	require.NoError(t, j.PrintRoutine(routine.Parse("Evening Routine:\n- Retinol")))
	assert.Contains(t, buf.String(), `"kind": "routine"`)
	assert.Contains(t, buf.String(), `"Retinol"`)
}

func TestJSONFormatterPrintError(t *testing.T) {
	j, buf := newTestJSON()
	require.NoError(t, j.PrintError("error", "unknown frequency", "unknown frequency: 'hourly'", "Use daily"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "Use daily", resp.Suggestion)
}
