package output

import (
	"time"

	"github.com/manav03panchal/glowtrack/internal/engine"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/notify"
	"github.com/manav03panchal/glowtrack/internal/routine"
)

// JSONFormatter provides JSON-specific formatting.
type JSONFormatter struct {
	*Formatter
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(f *Formatter) *JSONFormatter {
	return &JSONFormatter{Formatter: f}
}

// PreferenceOutput represents one category setting in JSON output.
type PreferenceOutput struct {
	Category  model.Category  `json:"category"`
	Label     string          `json:"label"`
	Enabled   bool            `json:"enabled"`
	Frequency model.Frequency `json:"frequency"`
	Schedule  string          `json:"schedule,omitempty"`
}

// NewPreferenceOutputs converts a preference set into display order.
func NewPreferenceOutputs(set model.PreferenceSet, describe func(model.Frequency) string) []PreferenceOutput {
	out := make([]PreferenceOutput, 0, len(set))
	for _, c := range model.AllCategories() {
		s := set.Get(c)
		p := PreferenceOutput{
			Category:  c,
			Label:     c.Label(),
			Enabled:   s.Enabled,
			Frequency: s.Frequency,
		}
		if s.Active() && describe != nil {
			p.Schedule = describe(s.Frequency)
		}
		out = append(out, p)
	}
	return out
}

// PreferencesResponse represents the prefs show output in JSON.
type PreferencesResponse struct {
	Preferences []PreferenceOutput `json:"preferences"`
}

// ChangeResponse represents a preference mutation in JSON.
type ChangeResponse struct {
	Status      string                  `json:"status"`
	Preferences []PreferenceOutput      `json:"preferences"`
	Persisted   bool                    `json:"persisted"`
	Report      *notify.ReconcileReport `json:"report,omitempty"`
}

// AuthResponse represents the authorization state in JSON.
type AuthResponse struct {
	State   model.AuthorizationState `json:"state"`
	Label   string                   `json:"label"`
	Granted *bool                    `json:"granted,omitempty"`
}

// ReportResponse represents a reconcile run in JSON.
type ReportResponse struct {
	Status string                  `json:"status"`
	Report *notify.ReconcileReport `json:"report"`
}

// DeliveryOutput represents a pending delivery in JSON output.
type DeliveryOutput struct {
	ID        string         `json:"id"`
	Category  model.Category `json:"category"`
	FireAt    string         `json:"fire_at"`
	InSeconds int64          `json:"in_seconds"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
}

// DeliveriesResponse represents the pending deliveries in JSON.
type DeliveriesResponse struct {
	Deliveries []DeliveryOutput `json:"deliveries"`
	Count      int              `json:"count"`
}

// NewDeliveriesResponse creates a DeliveriesResponse relative to now.
func NewDeliveriesResponse(deliveries []model.ScheduledDelivery, now time.Time) *DeliveriesResponse {
	out := make([]DeliveryOutput, len(deliveries))
	for i, d := range deliveries {
		in := int64(d.FireAt.Sub(now).Seconds())
		if in < 0 {
			in = 0
		}
		out[i] = DeliveryOutput{
			ID:        d.ID,
			Category:  d.Category,
			FireAt:    d.FireAt.Format(time.RFC3339),
			InSeconds: in,
			Title:     d.Title,
			Body:      d.Body,
		}
	}
	return &DeliveriesResponse{Deliveries: out, Count: len(out)}
}

// SentResponse represents an immediate notification in JSON.
type SentResponse struct {
	Status   string         `json:"status"`
	Category model.Category `json:"category"`
}

// ErrorResponse represents an error in JSON.
type ErrorResponse struct {
	Status     string `json:"status"`
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PrintPreferences outputs the preference set in JSON format.
func (j *JSONFormatter) PrintPreferences(set model.PreferenceSet, describe func(model.Frequency) string) error {
	return j.JSON(PreferencesResponse{Preferences: NewPreferenceOutputs(set, describe)})
}

// PrintChange outputs a preference mutation in JSON format.
func (j *JSONFormatter) PrintChange(change *engine.Change, describe func(model.Frequency) string) error {
	resp := ChangeResponse{
		Status:      "updated",
		Preferences: NewPreferenceOutputs(change.Preferences, describe),
		Persisted:   change.Persisted,
		Report:      change.Report,
	}
	if !change.Persisted {
		resp.Status = "unsaved"
	}
	return j.JSON(resp)
}

// PrintAuth outputs the authorization state in JSON format. granted is only
// set after a request.
func (j *JSONFormatter) PrintAuth(state model.AuthorizationState, granted *bool) error {
	return j.JSON(AuthResponse{State: state, Label: state.Label(), Granted: granted})
}

// PrintReport outputs a reconcile report in JSON format.
func (j *JSONFormatter) PrintReport(report *notify.ReconcileReport) error {
	status := "reconciled"
	if report.Blocked() {
		status = "blocked"
	}
	return j.JSON(ReportResponse{Status: status, Report: report})
}

// PrintDeliveries outputs pending deliveries in JSON format.
func (j *JSONFormatter) PrintDeliveries(deliveries []model.ScheduledDelivery, now time.Time) error {
	return j.JSON(NewDeliveriesResponse(deliveries, now))
}

// PrintRoutine outputs a parsed routine in JSON format.
func (j *JSONFormatter) PrintRoutine(result routine.Result) error {
	return j.JSON(result)
}

// PrintSent outputs an immediate-send confirmation in JSON format.
func (j *JSONFormatter) PrintSent(c model.Category) error {
	return j.JSON(SentResponse{Status: "sent", Category: c})
}

// PrintError outputs an error in JSON format.
func (j *JSONFormatter) PrintError(status, errMsg, message, suggestion string) error {
	resp := ErrorResponse{
		Status:     status,
		Error:      errMsg,
		Message:    message,
		Suggestion: suggestion,
	}
	return j.JSON(resp)
}
