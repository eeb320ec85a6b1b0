package model

import (
	"strings"

	"github.com/manav03panchal/glowtrack/internal/errors"
)

// Category is one of the fixed notification purposes.
type Category string

// Notification categories. The set is closed.
const (
	DailyPhotoReminder Category = "daily_photo"
	RoutineReminder    Category = "routine"
	ProgressReminder   Category = "progress"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{DailyPhotoReminder, RoutineReminder, ProgressReminder}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case DailyPhotoReminder, RoutineReminder, ProgressReminder:
		return true
	}
	return false
}

// Label returns a human-readable label for the category.
func (c Category) Label() string {
	switch c {
	case DailyPhotoReminder:
		return "Daily photo reminder"
	case RoutineReminder:
		return "Routine reminder"
	case ProgressReminder:
		return "Progress reminder"
	default:
		return string(c)
	}
}

// ParseCategory parses a category name or one of its short aliases.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily_photo", "daily-photo", "photo", "dailyphoto":
		return DailyPhotoReminder, nil
	case "routine":
		return RoutineReminder, nil
	case "progress":
		return ProgressReminder, nil
	}
	return "", errors.NewUserErrorWithField("category", s, "unknown notification category", errors.Suggestions[errors.ErrUnknownCategory])
}

// Frequency governs the delivery cadence of a category.
type Frequency string

// Frequencies.
const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Never   Frequency = "never"
)

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Never:
		return true
	}
	return false
}

// ParseFrequency parses a frequency name case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", errors.NewUserErrorWithField("frequency", s, "unknown frequency", errors.Suggestions[errors.ErrUnknownFrequency])
	}
	return f, nil
}

// CategorySetting is the user's choice for a single category.
type CategorySetting struct {
	Enabled   bool      `json:"enabled"`
	Frequency Frequency `json:"frequency"`
}

// Active reports whether the setting asks for recurring deliveries.
func (s CategorySetting) Active() bool {
	return s.Enabled && s.Frequency != Never
}

// DefaultSetting returns the first-run setting for a category.
func DefaultSetting(c Category) CategorySetting {
	switch c {
	case DailyPhotoReminder:
		return CategorySetting{Enabled: true, Frequency: Daily}
	case ProgressReminder:
		return CategorySetting{Enabled: false, Frequency: Weekly}
	default:
		return CategorySetting{Enabled: false, Frequency: Daily}
	}
}

// PreferenceSet maps every category to its setting. A valid set is total:
// every category in AllCategories is present.
type PreferenceSet map[Category]CategorySetting

// DefaultPreferenceSet returns the first-run preference set.
func DefaultPreferenceSet() PreferenceSet {
	set := make(PreferenceSet, len(AllCategories()))
	for _, c := range AllCategories() {
		set[c] = DefaultSetting(c)
	}
	return set
}

// Normalize returns a total copy of s: missing categories take their default,
// unknown categories are dropped and invalid frequencies fall back to the
// category default.
func (s PreferenceSet) Normalize() PreferenceSet {
	out := make(PreferenceSet, len(AllCategories()))
	for _, c := range AllCategories() {
		setting, ok := s[c]
		if !ok || !setting.Frequency.IsValid() {
			def := DefaultSetting(c)
			if ok {
				def.Enabled = setting.Enabled
			}
			setting = def
		}
		out[c] = setting
	}
	return out
}

// Get returns the setting for c, or its default when absent.
func (s PreferenceSet) Get(c Category) CategorySetting {
	if setting, ok := s[c]; ok {
		return setting
	}
	return DefaultSetting(c)
}

// With returns a copy of s with c set to setting.
func (s PreferenceSet) With(c Category, setting CategorySetting) PreferenceSet {
	out := s.Clone()
	out[c] = setting
	return out
}

// Clone returns a copy of s.
func (s PreferenceSet) Clone() PreferenceSet {
	out := make(PreferenceSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Equal reports whether s and other hold the same settings.
func (s PreferenceSet) Equal(other PreferenceSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
