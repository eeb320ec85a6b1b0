package notify

import (
	"time"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/model"
)

// Outcome is what a reconcile did for one category.
type Outcome string

// Reconcile outcomes.
const (
	// OutcomeScheduled means a new delivery was handed to the authority.
	OutcomeScheduled Outcome = "scheduled"
	// OutcomeUnchanged means the wanted delivery was already pending.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeCancelled means pending deliveries were cancelled because the
	// category is disabled or set to never.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeDisabled means nothing was pending and nothing is wanted.
	OutcomeDisabled Outcome = "disabled"
	// OutcomeBlocked means deliveries are withheld until authorization is granted.
	OutcomeBlocked Outcome = "blocked"
)

// CategoryReport is the reconcile result for a single category.
type CategoryReport struct {
	Category   model.Category        `json:"category"`
	Setting    model.CategorySetting `json:"setting"`
	Outcome    Outcome               `json:"outcome"`
	DeliveryID string                `json:"delivery_id,omitempty"`
	FireAt     *time.Time            `json:"fire_at,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// ReconcileReport summarizes one reconcile run.
type ReconcileReport struct {
	At         time.Time                `json:"at"`
	AuthState  model.AuthorizationState `json:"auth_state"`
	Categories []CategoryReport         `json:"categories"`
	Scheduled  []string                 `json:"scheduled"`
	Cancelled  []string                 `json:"cancelled"`

	errs []error
}

// Delta returns how many deliveries were scheduled or cancelled.
// A run with unchanged inputs has a zero delta.
func (r *ReconcileReport) Delta() int {
	return len(r.Scheduled) + len(r.Cancelled)
}

// Blocked reports whether every category was withheld for lack of authorization.
func (r *ReconcileReport) Blocked() bool {
	return r.AuthState != model.Authorized
}

// For returns the report entry for category c.
func (r *ReconcileReport) For(c model.Category) (CategoryReport, bool) {
	for _, cr := range r.Categories {
		if cr.Category == c {
			return cr, true
		}
	}
	return CategoryReport{}, false
}

// Err returns the delivery authority failures seen during the run, if any.
func (r *ReconcileReport) Err() error {
	return errors.Join(r.errs...)
}

func (r *ReconcileReport) fail(err error) {
	r.errs = append(r.errs, err)
}
