package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeAuthority is a scripted PermissionAuthority.
type fakeAuthority struct {
	mu       sync.Mutex
	state    model.AuthorizationState
	queryErr error

	grant     bool
	promptErr error
	prompts   atomic.Int32
	started   chan struct{}
	release   chan struct{}
}

func newFakeAuthority(state model.AuthorizationState, grant bool) *fakeAuthority {
	return &fakeAuthority{state: state, grant: grant}
}

func (f *fakeAuthority) QueryAuthorization(ctx context.Context) (model.AuthorizationState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return "", f.queryErr
	}
	return f.state, nil
}

func (f *fakeAuthority) PresentConsentPrompt(ctx context.Context) (bool, error) {
	if f.prompts.Add(1) == 1 && f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if f.promptErr != nil {
		return false, f.promptErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.grant {
		f.state = model.Authorized
	} else {
		f.state = model.Denied
	}
	return f.grant, nil
}

func (f *fakeAuthority) setState(s model.AuthorizationState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s
}

func TestNewControllerStartsNotDetermined(t *testing.T) {
	c := NewController(newFakeAuthority(model.Authorized, true))
	assert.Equal(t, model.NotDetermined, c.CurrentState())
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts authority state", func(t *testing.T) {
		authority := newFakeAuthority(model.Authorized, true)
		c := NewController(authority)

		state, err := c.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Authorized, state)
		assert.Equal(t, model.Authorized, c.CurrentState())

		// Revoked outside the process.
		authority.setState(model.Denied)
		state, err = c.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.Denied, state)
	})

	t.Run("error keeps cached state", func(t *testing.T) {
		authority := newFakeAuthority(model.Authorized, true)
		c := NewController(authority)
		_, err := c.Refresh(ctx)
		require.NoError(t, err)

		authority.queryErr = errors.New("authority offline")
		state, err := c.Refresh(ctx)
		require.Error(t, err)
		assert.Equal(t, model.Authorized, state)
		assert.Equal(t, model.Authorized, c.CurrentState())
	})

	t.Run("invalid state treated as not determined", func(t *testing.T) {
		c := NewController(newFakeAuthority(model.AuthorizationState("provisional"), true))
		state, err := c.Refresh(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.NotDetermined, state)
	})
}

func TestRequestAuthorization(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		initial     model.AuthorizationState
		grant       bool
		want        bool
		wantPrompts int32
		wantState   model.AuthorizationState
	}{
		{"authorized skips prompt", model.Authorized, false, true, 0, model.Authorized},
		{"denied never prompts", model.Denied, true, false, 0, model.Denied},
		{"not determined granted", model.NotDetermined, true, true, 1, model.Authorized},
		{"not determined refused", model.NotDetermined, false, false, 1, model.Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authority := newFakeAuthority(tt.initial, tt.grant)
			c := NewController(authority)
			_, err := c.Refresh(ctx)
			require.NoError(t, err)

			got, err := c.RequestAuthorization(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantPrompts, authority.prompts.Load())
			assert.Equal(t, tt.wantState, c.CurrentState())

			// Asking again never prompts a second time.
			again, err := c.RequestAuthorization(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, again)
			assert.Equal(t, tt.wantPrompts, authority.prompts.Load())
		})
	}
}

func TestRequestAuthorizationPromptError(t *testing.T) {
	authority := newFakeAuthority(model.NotDetermined, true)
	authority.promptErr = errors.ErrPromptUnavailable
	c := NewController(authority)

	granted, err := c.RequestAuthorization(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrPromptUnavailable)
	assert.False(t, granted)
	assert.Equal(t, model.NotDetermined, c.CurrentState())
}

func TestConcurrentRequestsShareOnePrompt(t *testing.T) {
	for _, grant := range []bool{true, false} {
		authority := newFakeAuthority(model.NotDetermined, grant)
		authority.started = make(chan struct{})
		authority.release = make(chan struct{})
		c := NewController(authority)

		const callers = 16
		results := make([]bool, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = c.RequestAuthorization(context.Background())
			}(i)
		}

		select {
		case <-authority.started:
		case <-time.After(2 * time.Second):
			t.Fatal("prompt never presented")
		}
		// Let the remaining callers pile up behind the open prompt.
		time.Sleep(20 * time.Millisecond)
		close(authority.release)
		wg.Wait()

		assert.Equal(t, int32(1), authority.prompts.Load())
		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, grant, results[i], "caller %d", i)
		}
	}
}

func TestRequestAuthorizationCancelled(t *testing.T) {
	authority := newFakeAuthority(model.NotDetermined, true)
	authority.release = make(chan struct{})
	c := NewController(authority)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	granted, err := c.RequestAuthorization(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, granted)
	assert.Equal(t, model.NotDetermined, c.CurrentState())
}

func TestCancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	authority := newFakeAuthority(model.NotDetermined, true)
	authority.started = make(chan struct{})
	authority.release = make(chan struct{})
	c := NewController(authority)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := c.RequestAuthorization(leaderCtx)
		leaderErr <- err
	}()

	select {
	case <-authority.started:
	case <-time.After(2 * time.Second):
		t.Fatal("prompt never presented")
	}

	type outcome struct {
		granted bool
		err     error
	}
	joined := make(chan outcome, 1)
	go func() {
		granted, err := c.RequestAuthorization(context.Background())
		joined <- outcome{granted, err}
	}()
	// Give the second caller time to join the open prompt.
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	select {
	case err := <-leaderErr:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting")
	}

	close(authority.release)
	select {
	case got := <-joined:
		require.NoError(t, got.err)
		assert.True(t, got.granted)
	case <-time.After(2 * time.Second):
		t.Fatal("joined caller never answered")
	}

	assert.Equal(t, int32(1), authority.prompts.Load())
	assert.Equal(t, model.Authorized, c.CurrentState())
}

func TestJoinedCallerStopsWaitingOnCancel(t *testing.T) {
	authority := newFakeAuthority(model.NotDetermined, false)
	authority.started = make(chan struct{})
	authority.release = make(chan struct{})
	c := NewController(authority)

	leader := make(chan bool, 1)
	go func() {
		granted, _ := c.RequestAuthorization(context.Background())
		leader <- granted
	}()

	select {
	case <-authority.started:
	case <-time.After(2 * time.Second):
		t.Fatal("prompt never presented")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	granted, err := c.RequestAuthorization(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, granted)
	assert.Equal(t, model.NotDetermined, c.CurrentState())

	close(authority.release)
	select {
	case granted := <-leader:
		assert.False(t, granted)
	case <-time.After(2 * time.Second):
		t.Fatal("leader never answered")
	}
	assert.Equal(t, int32(1), authority.prompts.Load())
	assert.Equal(t, model.Denied, c.CurrentState())
}

func TestAbandonedPromptIsPresentedAgain(t *testing.T) {
	authority := newFakeAuthority(model.NotDetermined, true)
	authority.started = make(chan struct{})
	authority.release = make(chan struct{})
	c := NewController(authority)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.RequestAuthorization(ctx)
		done <- err
	}()

	select {
	case <-authority.started:
	case <-time.After(2 * time.Second):
		t.Fatal("prompt never presented")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(authority.release)
	granted, err := c.RequestAuthorization(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, int32(2), authority.prompts.Load())
}
