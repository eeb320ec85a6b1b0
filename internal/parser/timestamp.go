package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

var (
	// relativeRegex matches offsets like "+30m", "+6h", "+2d", "+1w".
	relativeRegex = regexp.MustCompile(`^\+(\d+)([mhdw])$`)

	// periodRegex matches period expressions like "next week", "this month".
	periodRegex = regexp.MustCompile(`(?i)^(this|current|next|last|previous)\s+(day|week|month)$`)
)

// ParseWhen parses the --at expression relative to now. It accepts "now",
// relative offsets, period starts ("next week" is next Monday at midnight)
// and anything go-dateparser understands. Results are in now's location.
func ParseWhen(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "now") {
		return now, nil
	}

	if match := relativeRegex.FindStringSubmatch(input); match != nil {
		return parseRelative(input, match[1], match[2], now)
	}

	if match := periodRegex.FindStringSubmatch(input); match != nil {
		return parsePeriod(strings.ToLower(match[1]), strings.ToLower(match[2]), now), nil
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, NewTimeParseError("time", input, "not a recognizable date or time", WhenExamples...)
	}
	return result.Time.In(now.Location()), nil
}

func parseRelative(input, numStr, unit string, now time.Time) (time.Time, error) {
	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return time.Time{}, NewTimeParseError("time", input, "offset must be positive", WhenExamples...)
	}

	switch unit {
	case "m":
		return now.Add(time.Duration(num) * time.Minute), nil
	case "h":
		return now.Add(time.Duration(num) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, num), nil
	default:
		return now.AddDate(0, 0, 7*num), nil
	}
}

// parsePeriod returns the start of the named period.
func parsePeriod(modifier, period string, now time.Time) time.Time {
	step := 0
	switch modifier {
	case "next":
		step = 1
	case "last", "previous":
		step = -1
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "week":
		// Go to start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday
		}
		return day.AddDate(0, 0, -weekday+1+7*step)
	case "month":
		return time.Date(now.Year(), now.Month()+time.Month(step), 1, 0, 0, 0, 0, now.Location())
	default:
		return day.AddDate(0, 0, step)
	}
}
