// Package routine extracts structured skincare routine steps from a block of
// assistant text.
package routine

import (
	"strings"
)

// Kind tells a plain message from a detected routine.
type Kind int

const (
	// Plain means no routine section was found; Result.Text holds the input.
	Plain Kind = iota
	// Routine means at least one section has steps.
	Routine
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	if k == Routine {
		return "routine"
	}
	return "plain"
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Section identifies one of the routine blocks.
type Section int

// Routine sections, in the order they are reported.
const (
	None Section = iota
	Morning
	Evening
	Weekly
)

// headers maps the lower-cased header label to its section.
var headers = []struct {
	label   string
	section Section
}{
	{"morning routine:", Morning},
	{"evening routine:", Evening},
	{"weekly treatments:", Weekly},
}

// endMarker closes the current capture window.
const endMarker = "**"

// Result is the outcome of Parse. For a Plain result only Text is set; for a
// Routine result the three step lists are non-nil and Text is empty.
type Result struct {
	Kind    Kind     `json:"kind"`
	Text    string   `json:"text,omitempty"`
	Morning []string `json:"morning"`
	Evening []string `json:"evening"`
	Weekly  []string `json:"weekly"`
}

// IsRoutine reports whether a routine was detected.
func (r Result) IsRoutine() bool {
	return r.Kind == Routine
}

// Steps returns the total number of captured steps.
func (r Result) Steps() int {
	return len(r.Morning) + len(r.Evening) + len(r.Weekly)
}

// Parse scans text once, line by line. A line containing one of the labels
// "Morning Routine:", "Evening Routine:" or "Weekly Treatments:" (any case)
// opens that section. Following lines are captured, with a leading "- "
// removed, until a line containing "**" or the next header. The header line
// itself is never captured. When nothing is captured the result is Plain with
// text unchanged. Parse never fails.
func Parse(text string) Result {
	var morning, evening, weekly []string
	current := None

	for line := range strings.Lines(text) {
		if s := headerOf(line); s != None {
			current = s
			continue
		}
		if current == None {
			continue
		}
		if strings.Contains(line, endMarker) {
			current = None
			continue
		}

		step := cleanStep(line)
		if step == "" {
			continue
		}
		switch current {
		case Morning:
			morning = append(morning, step)
		case Evening:
			evening = append(evening, step)
		case Weekly:
			weekly = append(weekly, step)
		}
	}

	if len(morning)+len(evening)+len(weekly) == 0 {
		return Result{Kind: Plain, Text: text}
	}

	return Result{
		Kind:    Routine,
		Morning: nonNil(morning),
		Evening: nonNil(evening),
		Weekly:  nonNil(weekly),
	}
}

func headerOf(line string) Section {
	lower := strings.ToLower(line)
	for _, h := range headers {
		if strings.Contains(lower, h.label) {
			return h.section
		}
	}
	return None
}

func cleanStep(line string) string {
	step := strings.TrimSpace(line)
	step = strings.TrimPrefix(step, "- ")
	return strings.TrimSpace(step)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
