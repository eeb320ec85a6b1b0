// Package auth tracks whether the process may deliver local notifications
// and runs the one-time consent prompt.
package auth

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
)

// PermissionAuthority is the external party that owns the real permission.
type PermissionAuthority interface {
	// QueryAuthorization reports the authority's current state.
	QueryAuthorization(ctx context.Context) (model.AuthorizationState, error)
	// PresentConsentPrompt asks the user once and reports whether they granted.
	PresentConsentPrompt(ctx context.Context) (bool, error)
}

const promptKey = "consent"

// errPromptAbandoned ends a prompt whose every waiter has left.
var errPromptAbandoned = errors.New("consent prompt abandoned")

// flight is the context shared by every caller waiting on one prompt. It is
// cancelled when the last waiter leaves.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// Controller caches the authorization state and coalesces concurrent
// prompt requests into a single prompt.
type Controller struct {
	authority PermissionAuthority

	mu    sync.RWMutex
	state model.AuthorizationState

	group singleflight.Group

	flightMu sync.Mutex
	flight   *flight
}

// NewController creates a controller. The cached state starts as
// NotDetermined until Refresh or RequestAuthorization runs.
func NewController(authority PermissionAuthority) *Controller {
	return &Controller{
		authority: authority,
		state:     model.NotDetermined,
	}
}

// CurrentState returns the cached state without consulting the authority.
func (c *Controller) CurrentState() model.AuthorizationState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(state model.AuthorizationState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// Refresh re-reads the state from the authority. The state may have changed
// outside the process. On error the cached state is returned unchanged.
func (c *Controller) Refresh(ctx context.Context) (model.AuthorizationState, error) {
	state, err := c.authority.QueryAuthorization(ctx)
	if err != nil {
		logging.WarnContext(ctx, "authorization query failed", logging.KeyError, err)
		return c.CurrentState(), errors.Wrap(err, "query authorization")
	}
	if !state.IsValid() {
		state = model.NotDetermined
	}

	prev := c.CurrentState()
	c.setState(state)
	if prev != state {
		logging.InfoContext(ctx, "authorization state changed", "from", prev, logging.KeyAuthState, state)
	}
	return state, nil
}

// RequestAuthorization returns true when notifications may be delivered.
// The prompt is shown only from NotDetermined, at most once for any number of
// concurrent callers. A denied state never prompts again. A caller whose ctx
// ends stops waiting; the prompt stays open for the callers still waiting.
func (c *Controller) RequestAuthorization(ctx context.Context) (bool, error) {
	switch c.CurrentState() {
	case model.Authorized:
		return true, nil
	case model.Denied:
		return false, nil
	}

	if err := ctx.Err(); err != nil {
		return false, errors.Wrap(err, "consent prompt")
	}

	f := c.join(ctx)
	defer c.leave(f)

	for {
		ch := c.group.DoChan(promptKey, func() (any, error) {
			return c.prompt(f.ctx)
		})

		select {
		case <-ctx.Done():
			logging.DebugContext(ctx, "stopped waiting for consent prompt")
			return false, errors.Wrap(ctx.Err(), "consent prompt")
		case res := <-ch:
			if errors.Is(res.Err, errPromptAbandoned) {
				// An earlier prompt lost all its waiters; start ours.
				continue
			}
			if res.Err != nil {
				return false, res.Err
			}
			if res.Shared {
				logging.DebugContext(ctx, "joined in-flight consent prompt")
			}
			return res.Val.(bool), nil
		}
	}
}

// prompt presents the consent prompt once and records the answer.
func (c *Controller) prompt(ctx context.Context) (any, error) {
	// A previous flight may have settled the state already.
	switch c.CurrentState() {
	case model.Authorized:
		return true, nil
	case model.Denied:
		return false, nil
	}

	logging.DebugContext(ctx, "presenting consent prompt")
	granted, err := c.authority.PresentConsentPrompt(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false, errPromptAbandoned
		}
		return false, errors.Wrap(err, "consent prompt")
	}

	if granted {
		c.setState(model.Authorized)
	} else {
		c.setState(model.Denied)
	}
	logging.InfoContext(ctx, "consent answered", logging.KeyAuthState, c.CurrentState())
	return granted, nil
}

// join registers a waiter on the current flight, creating it if needed. The
// flight context keeps ctx's values but not its cancellation.
func (c *Controller) join(ctx context.Context) *flight {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()

	if c.flight == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		c.flight = &flight{ctx: fctx, cancel: cancel}
	}
	c.flight.waiters++
	return c.flight
}

func (c *Controller) leave(f *flight) {
	c.flightMu.Lock()
	defer c.flightMu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flight == f {
		c.flight = nil
	}
}
