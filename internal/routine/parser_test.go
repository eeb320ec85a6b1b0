package routine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		morning []string
		evening []string
		weekly  []string
	}{
		{
			name:    "sections with emphasis terminator",
			input:   "Morning Routine:\n- Cleanser\n- SPF\n**bold**\nEvening Routine:\n- Retinol",
			morning: []string{"Cleanser", "SPF"},
			evening: []string{"Retinol"},
			weekly:  []string{},
		},
		{
			name:    "header switches section",
			input:   "Morning Routine:\n- Cleanser\nEvening Routine:\n- Retinol\nWeekly Treatments:\n- Exfoliate\n- Mask",
			morning: []string{"Cleanser"},
			evening: []string{"Retinol"},
			weekly:  []string{"Exfoliate", "Mask"},
		},
		{
			name:    "headers are case insensitive",
			input:   "MORNING ROUTINE:\n- Toner\nevening routine:\n- Moisturizer",
			morning: []string{"Toner"},
			evening: []string{"Moisturizer"},
			weekly:  []string{},
		},
		{
			name:    "markdown bold header is not a terminator",
			input:   "Here is your plan.\n\n**Morning Routine:**\n- Cleanser\n- Vitamin C\n\n**Weekly Treatments:**\n- Clay mask",
			morning: []string{"Cleanser", "Vitamin C"},
			evening: []string{},
			weekly:  []string{"Clay mask"},
		},
		{
			name:    "blank lines and whitespace",
			input:   "Evening Routine:\n\n   -   Double cleanse  \n\r\n\t- Retinol\r\n",
			morning: []string{},
			evening: []string{"Double cleanse", "Retinol"},
			weekly:  []string{},
		},
		{
			name:    "unbulleted lines are captured",
			input:   "Morning Routine:\nCleanser\n1. SPF 50",
			morning: []string{"Cleanser", "1. SPF 50"},
			evening: []string{},
			weekly:  []string{},
		},
		{
			name:    "text after header on same line is not captured",
			input:   "Morning Routine: Cleanser\n- SPF",
			morning: []string{"SPF"},
			evening: []string{},
			weekly:  []string{},
		},
		{
			name:    "lines outside a window are ignored",
			input:   "Intro line\nMorning Routine:\n- Cleanser\n**Tip:** drink water\nThis is ignored\n- So is this",
			morning: []string{"Cleanser"},
			evening: []string{},
			weekly:  []string{},
		},
		{
			name:    "repeated header appends in order",
			input:   "Morning Routine:\n- A\n**\nMorning Routine:\n- B",
			morning: []string{"A", "B"},
			evening: []string{},
			weekly:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			require.Equal(t, Routine, got.Kind)
			assert.True(t, got.IsRoutine())
			assert.Empty(t, got.Text)
			assert.Equal(t, tt.morning, got.Morning)
			assert.Equal(t, tt.evening, got.Evening)
			assert.Equal(t, tt.weekly, got.Weekly)
			assert.Equal(t, len(tt.morning)+len(tt.evening)+len(tt.weekly), got.Steps())
		})
	}
}

func TestParsePlain(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"chat", "Just chatting, no routine here."},
		{"empty", ""},
		{"header without steps", "Morning Routine:\n\n**Done**"},
		{"header immediately terminated", "Evening Routine:\n**Note:** none today"},
		{"partial header", "Morning Routine\n- Cleanser"},
		{"whitespace only", "  \n\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			assert.Equal(t, Plain, got.Kind)
			assert.False(t, got.IsRoutine())
			assert.Equal(t, tt.input, got.Text)
			assert.Nil(t, got.Morning)
			assert.Zero(t, got.Steps())
		})
	}
}

func TestParseDeterministic(t *testing.T) {
	input := "Weekly Treatments:\n- Peel\nMorning Routine:\n- SPF"
	assert.Equal(t, Parse(input), Parse(input))
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal(Parse("Morning Routine:\n- SPF"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"routine","morning":["SPF"],"evening":[],"weekly":[]}`, string(data))

	data, err = json.Marshal(Parse("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"plain","text":"hello","morning":null,"evening":null,"weekly":null}`, string(data))
}
