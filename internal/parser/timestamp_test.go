package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

// Wednesday.
var testNow = time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC)

func TestParseWhenNow(t *testing.T) {
	for _, input := range []string{"", "now", "NOW", "  now  "} {
		t.Run(input, func(t *testing.T) {
			got, err := ParseWhen(input, testNow)
			require.NoError(t, err)
			assert.Equal(t, testNow, got)
		})
	}
}

func TestParseWhenRelative(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"+30m", testNow.Add(30 * time.Minute)},
		{"+6h", testNow.Add(6 * time.Hour)},
		{"+2d", time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)},
		{"+1w", time.Date(2026, 10, 21, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWhen(tt.input, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWhenRelativeZero(t *testing.T) {
	_, err := ParseWhen("+0d", testNow)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidTimestamp)
}

func TestParseWhenPeriods(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"this day", time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)},
		{"next day", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
		{"this week", time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
		{"next week", time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)},
		{"last week", time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)},
		{"Next Month", time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)},
		{"previous month", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWhen(tt.input, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseWhenSundayWeek(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 22, 0, 0, 0, time.UTC)
	got, err := ParseWhen("this week", sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC), got)
}

func TestParseWhenAbsolute(t *testing.T) {
	now := time.Date(2026, 10, 14, 10, 30, 0, 0, time.Local)
	got, err := ParseWhen("2026-11-01 08:30", now)
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.November, got.Month())
	assert.Equal(t, 1, got.Day())
	assert.Equal(t, 8, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestParseWhenInvalid(t *testing.T) {
	_, err := ParseWhen("blorp", testNow)
	require.Error(t, err)

	var tpe *TimeParseError
	require.ErrorAs(t, err, &tpe)
	assert.Equal(t, "blorp", tpe.Input)
	assert.Contains(t, tpe.FormatWithExamples(), "next monday")

	ue := tpe.UserError()
	assert.True(t, errors.IsUserError(ue))
	assert.ErrorIs(t, ue, errors.ErrInvalidTimestamp)
	assert.Contains(t, ue.Suggestion, "+2d")
}
