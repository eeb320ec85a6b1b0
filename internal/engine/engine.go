// Package engine is the caller-facing notification engine. One Engine is
// constructed on start by the composition root and passed by reference.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/manav03panchal/glowtrack/internal/auth"
	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/notify"
	"github.com/manav03panchal/glowtrack/internal/prefs"
	"github.com/manav03panchal/glowtrack/internal/routine"
)

// Options wires an Engine to its external authorities.
type Options struct {
	Records    prefs.RecordStore
	Permission auth.PermissionAuthority
	Delivery   notify.DeliveryAuthority

	// Cadence defaults to notify.DefaultCadence.
	Cadence *notify.Cadence
	// Clock defaults to time.Now.
	Clock func() time.Time
	// ImmediateRetries defaults to 1.
	ImmediateRetries *int
}

// Engine ties the preference store, the authorization controller and the
// dispatcher together. Every preference change and every authorization
// outcome is followed by a reconcile.
type Engine struct {
	store      *prefs.Store
	auth       *auth.Controller
	dispatcher *notify.Dispatcher
	delivery   notify.DeliveryAuthority

	// mu serializes reconciles and cadence swaps.
	mu sync.Mutex
}

// Change is the result of a preference mutation.
type Change struct {
	Preferences model.PreferenceSet     `json:"preferences"`
	Persisted   bool                    `json:"persisted"`
	Report      *notify.ReconcileReport `json:"report"`
}

// New creates an engine. It performs no I/O; call Start to load the
// authorization state.
func New(opts Options) *Engine {
	dispatchOpts := []notify.Option{}
	if opts.Clock != nil {
		dispatchOpts = append(dispatchOpts, notify.WithClock(opts.Clock))
	}
	if opts.ImmediateRetries != nil {
		dispatchOpts = append(dispatchOpts, notify.WithImmediateRetries(*opts.ImmediateRetries))
	}

	return &Engine{
		store:      prefs.NewStore(opts.Records),
		auth:       auth.NewController(opts.Permission),
		dispatcher: notify.NewDispatcher(opts.Delivery, opts.Cadence, dispatchOpts...),
		delivery:   opts.Delivery,
	}
}

// Start reads the authorization state from the permission authority.
func (e *Engine) Start(ctx context.Context) (model.AuthorizationState, error) {
	return e.auth.Refresh(ctx)
}

// LoadPreferences returns the current preference set.
func (e *Engine) LoadPreferences() model.PreferenceSet {
	return e.store.Load()
}

// SetCategoryEnabled turns category c on or off and reconciles.
func (e *Engine) SetCategoryEnabled(ctx context.Context, c model.Category, enabled bool) (*Change, error) {
	return e.update(ctx, c, prefs.SetEnabled(enabled))
}

// SetCategoryFrequency changes the cadence of category c and reconciles.
func (e *Engine) SetCategoryFrequency(ctx context.Context, c model.Category, f model.Frequency) (*Change, error) {
	if !f.IsValid() {
		return nil, errors.NewUserErrorWithField("frequency", string(f), "unknown frequency", errors.Suggestions[errors.ErrUnknownFrequency])
	}
	return e.update(ctx, c, prefs.SetFrequency(f))
}

// update applies a mutation. A PersistError does not stop the reconcile; it
// is returned alongside the change.
func (e *Engine) update(ctx context.Context, c model.Category, mutate prefs.Mutator) (*Change, error) {
	set, err := e.store.Update(c, mutate)
	if err != nil {
		if _, ok := errors.AsPersistError(err); !ok {
			return nil, err
		}
		logging.WarnContext(ctx, "preference change not persisted", logging.KeyCategory, c, logging.KeyError, err)
	}

	return &Change{
		Preferences: set,
		Persisted:   err == nil,
		Report:      e.Reconcile(ctx),
	}, err
}

// CurrentAuthorizationState returns the cached authorization state.
func (e *Engine) CurrentAuthorizationState() model.AuthorizationState {
	return e.auth.CurrentState()
}

// RefreshAuthorization re-reads the authorization state. When it changed,
// deliveries are reconciled against the new state.
func (e *Engine) RefreshAuthorization(ctx context.Context) (model.AuthorizationState, error) {
	before := e.auth.CurrentState()
	state, err := e.auth.Refresh(ctx)
	if err != nil {
		return state, err
	}
	if state != before {
		e.Reconcile(ctx)
	}
	return state, nil
}

// RequestAuthorization asks for permission when it was never asked, then
// reconciles so a grant restores deliveries.
func (e *Engine) RequestAuthorization(ctx context.Context) (bool, error) {
	granted, err := e.auth.RequestAuthorization(ctx)
	if err != nil {
		return false, err
	}
	e.Reconcile(ctx)
	return granted, nil
}

// SendTestNotification delivers the test notification for c right away.
// It does not ask for permission.
func (e *Engine) SendTestNotification(ctx context.Context, c model.Category) error {
	if !c.IsValid() {
		return errors.NewUserErrorWithField("category", string(c), "unknown notification category", errors.Suggestions[errors.ErrUnknownCategory])
	}
	return e.dispatcher.SendTest(ctx, c, e.auth.CurrentState())
}

// ParseRoutineText extracts routine steps from assistant text.
func (e *Engine) ParseRoutineText(text string) routine.Result {
	return routine.Parse(text)
}

// Reconcile brings scheduled deliveries in line with the stored preferences
// and the cached authorization state. The set is read under the reconcile
// lock so the last reconcile always sees the latest stored change.
func (e *Engine) Reconcile(ctx context.Context) *notify.ReconcileReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := e.dispatcher.Reconcile(ctx, e.store.Load(), e.auth.CurrentState())
	if err := report.Err(); err != nil {
		logging.WarnContext(ctx, "reconcile incomplete", logging.KeyError, err)
	}
	return report
}

// Subscribe returns a channel of preference changes and its cancel func.
func (e *Engine) Subscribe() (<-chan model.PreferenceSet, func()) {
	return e.store.Subscribe()
}

// Pending lists the deliveries currently scheduled.
func (e *Engine) Pending(ctx context.Context) ([]model.ScheduledDelivery, error) {
	return e.delivery.Pending(ctx)
}

// Cadence returns the cadence in use.
func (e *Engine) Cadence() *notify.Cadence {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dispatcher.Cadence()
}

// SetCadence swaps the cadence, e.g. after the config file changed. The next
// reconcile reschedules deliveries at the new times.
func (e *Engine) SetCadence(c *notify.Cadence) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatcher.SetCadence(c)
}
