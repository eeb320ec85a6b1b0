// Package notify reconciles pending local notifications with the user's
// preferences and sends one-shot notifications.
package notify

import (
	"context"
	"time"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
)

// DeliveryAuthority owns scheduled deliveries once they are handed off.
type DeliveryAuthority interface {
	ScheduleDelivery(ctx context.Context, d model.ScheduledDelivery) error
	CancelDelivery(ctx context.Context, id string) error
	DeliverNow(ctx context.Context, title, body string, category model.Category) error
	// Pending lists the deliveries handed off and not yet fired or cancelled.
	Pending(ctx context.Context) ([]model.ScheduledDelivery, error)
}

// Dispatcher turns a preference set and an authorization state into
// scheduled deliveries. It keeps no state of its own: what is pending is
// always read back from the authority.
type Dispatcher struct {
	authority DeliveryAuthority
	cadence   *Cadence
	now       func() time.Time
	retries   int
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock overrides the wall clock used by Reconcile.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithImmediateRetries sets how often a failed immediate send is retried.
func WithImmediateRetries(n int) Option {
	return func(d *Dispatcher) {
		if n >= 0 {
			d.retries = n
		}
	}
}

// NewDispatcher creates a dispatcher. A nil cadence uses DefaultCadence.
func NewDispatcher(authority DeliveryAuthority, cadence *Cadence, opts ...Option) *Dispatcher {
	if cadence == nil {
		cadence = DefaultCadence()
	}
	d := &Dispatcher{
		authority: authority,
		cadence:   cadence,
		now:       time.Now,
		retries:   1,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cadence returns the cadence used to compute fire times.
func (d *Dispatcher) Cadence() *Cadence {
	return d.cadence
}

// SetCadence replaces the cadence, e.g. after a config reload.
// It must not be called concurrently with Reconcile.
func (d *Dispatcher) SetCadence(c *Cadence) {
	if c != nil {
		d.cadence = c
	}
}

// Reconcile brings the pending deliveries in line with prefs and authState.
// Each active category ends with exactly one upcoming delivery; inactive
// categories end with none. Without authorization every pending delivery is
// cancelled and each category is reported blocked. Running it twice with the
// same inputs and clock yields an empty delta on the second run.
//
// Authority failures do not stop the run; they are collected in the report.
func (d *Dispatcher) Reconcile(ctx context.Context, prefs model.PreferenceSet, authState model.AuthorizationState) *ReconcileReport {
	now := d.now()
	prefs = prefs.Normalize()

	report := &ReconcileReport{
		At:        now,
		AuthState: authState,
		Scheduled: []string{},
		Cancelled: []string{},
	}

	pending, err := d.authority.Pending(ctx)
	if err != nil {
		logging.WarnContext(ctx, "listing pending deliveries failed", logging.KeyError, err)
		report.fail(errors.Wrap(err, "list pending deliveries"))
	}

	byCategory := make(map[model.Category][]model.ScheduledDelivery)
	for _, p := range pending {
		if !p.Category.IsValid() {
			d.cancel(ctx, report, nil, p.ID)
			continue
		}
		byCategory[p.Category] = append(byCategory[p.Category], p)
	}

	for _, c := range model.AllCategories() {
		setting := prefs.Get(c)
		cr := CategoryReport{Category: c, Setting: setting}
		existing := byCategory[c]

		switch {
		case authState != model.Authorized:
			for _, p := range existing {
				d.cancel(ctx, report, &cr, p.ID)
			}
			cr.Outcome = OutcomeBlocked

		case !setting.Active():
			for _, p := range existing {
				d.cancel(ctx, report, &cr, p.ID)
			}
			if len(existing) > 0 {
				cr.Outcome = OutcomeCancelled
			} else {
				cr.Outcome = OutcomeDisabled
			}

		default:
			d.ensureOne(ctx, report, &cr, setting.Frequency, existing, now)
		}

		report.Categories = append(report.Categories, cr)
	}

	logging.DebugContext(ctx, "reconciled",
		logging.KeyAuthState, authState,
		"scheduled", len(report.Scheduled),
		"cancelled", len(report.Cancelled))

	return report
}

// ensureOne leaves exactly one pending delivery for cr.Category at the next
// fire time. Stale or duplicate deliveries are cancelled before the
// replacement is scheduled.
func (d *Dispatcher) ensureOne(ctx context.Context, report *ReconcileReport, cr *CategoryReport, freq model.Frequency, existing []model.ScheduledDelivery, now time.Time) {
	fireAt, ok := d.cadence.Next(freq, now)
	if !ok {
		cr.Outcome = OutcomeDisabled
		return
	}
	want := model.NewScheduledDelivery(cr.Category, fireAt)
	cr.DeliveryID = want.ID
	cr.FireAt = &fireAt

	kept := false
	for _, p := range existing {
		if p.ID == want.ID && !kept {
			kept = true
			continue
		}
		d.cancel(ctx, report, cr, p.ID)
	}

	if kept {
		cr.Outcome = OutcomeUnchanged
		return
	}

	if err := d.authority.ScheduleDelivery(ctx, want); err != nil {
		logging.WarnContext(ctx, "scheduling delivery failed",
			logging.KeyCategory, cr.Category,
			logging.KeyDeliveryID, want.ID,
			logging.KeyError, err)
		cr.Error = err.Error()
		report.fail(errors.Wrapf(err, "schedule %s", cr.Category))
		cr.Outcome = OutcomeDisabled
		cr.DeliveryID = ""
		cr.FireAt = nil
		return
	}

	report.Scheduled = append(report.Scheduled, want.ID)
	cr.Outcome = OutcomeScheduled
	logging.DebugContext(ctx, "delivery scheduled",
		logging.KeyCategory, cr.Category,
		logging.KeyDeliveryID, want.ID,
		logging.KeyFireAt, fireAt)
}

// cancel hands a cancellation to the authority and records it. cr may be nil
// for deliveries that belong to no known category.
func (d *Dispatcher) cancel(ctx context.Context, report *ReconcileReport, cr *CategoryReport, id string) {
	if err := d.authority.CancelDelivery(ctx, id); err != nil {
		logging.WarnContext(ctx, "cancelling delivery failed", logging.KeyDeliveryID, id, logging.KeyError, err)
		report.fail(errors.Wrapf(err, "cancel %s", id))
		if cr != nil {
			cr.Error = err.Error()
		}
		return
	}
	report.Cancelled = append(report.Cancelled, id)
}

// SendImmediate delivers a one-shot notification right away. It never
// prompts for permission: without authorization it fails with a
// not-authorized DispatchError. A failed hand-off is retried immediately
// (once by default) before a delivery-failed DispatchError is returned.
// No scheduled delivery is recorded.
func (d *Dispatcher) SendImmediate(ctx context.Context, title, body string, category model.Category, authState model.AuthorizationState) error {
	if authState != model.Authorized {
		return errors.NotAuthorized(string(category))
	}

	attempts := 0
	var lastErr error
	for attempts <= d.retries {
		attempts++
		lastErr = d.authority.DeliverNow(ctx, title, body, category)
		if lastErr == nil {
			logging.DebugContext(ctx, "delivered immediately", logging.KeyCategory, category, "attempts", attempts)
			return nil
		}
		logging.WarnContext(ctx, "immediate delivery failed",
			logging.KeyCategory, category,
			"attempt", attempts,
			logging.KeyError, lastErr)
		if ctx.Err() != nil {
			break
		}
	}

	return errors.DeliveryFailed(string(category), attempts, lastErr)
}

// SendTest sends the canned test notification for category.
func (d *Dispatcher) SendTest(ctx context.Context, category model.Category, authState model.AuthorizationState) error {
	text := TestNotification(category)
	return d.SendImmediate(ctx, text.Title, text.Body, category, authState)
}

// TestNotification returns the copy of the test notification for category.
func TestNotification(category model.Category) model.Copy {
	return model.CopyForTest(category)
}
