// Package platform provides the local stand-ins for the operating system's
// notification permission and delivery services.
package platform

import (
	"context"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"github.com/manav03panchal/glowtrack/internal/config"
	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/storage"
	"github.com/manav03panchal/glowtrack/internal/tui"
)

// Prompter asks the user for notification permission.
type Prompter interface {
	Prompt(ctx context.Context) (bool, error)
}

// PrompterFunc adapts a function to a Prompter.
type PrompterFunc func(ctx context.Context) (bool, error)

// Prompt calls f.
func (f PrompterFunc) Prompt(ctx context.Context) (bool, error) {
	return f(ctx)
}

// StaticPrompter answers every prompt with answer, for non-interactive use.
func StaticPrompter(answer bool) Prompter {
	return PrompterFunc(func(ctx context.Context) (bool, error) {
		return answer, ctx.Err()
	})
}

// TUIPrompter shows the interactive consent prompt. It requires In to be a
// terminal.
type TUIPrompter struct {
	In  *os.File
	Out io.Writer
}

// NewTUIPrompter creates a prompter on stdin/stderr.
func NewTUIPrompter() *TUIPrompter {
	return &TUIPrompter{In: os.Stdin, Out: os.Stderr}
}

// Prompt runs the consent prompt.
func (p *TUIPrompter) Prompt(ctx context.Context) (bool, error) {
	if p.In == nil || !term.IsTerminal(int(p.In.Fd())) {
		return false, &errors.UserError{
			Message:    "cannot ask for notification permission: stdin is not a terminal",
			Suggestion: errors.Suggestions[errors.ErrPromptUnavailable],
			Cause:      errors.ErrPromptUnavailable,
		}
	}
	return tui.RunConsent(ctx, config.AppName, p.In, p.Out)
}

// PermissionAuthority keeps the user's answer to the consent prompt in the
// database. Like the OS, it asks at most once: after an answer is stored,
// PresentConsentPrompt returns it without prompting.
type PermissionAuthority struct {
	repo     *storage.PermissionRepo
	prompter Prompter

	mu sync.Mutex
}

// NewPermissionAuthority creates a permission authority. prompter may be nil
// when no prompt can be shown.
func NewPermissionAuthority(repo *storage.PermissionRepo, prompter Prompter) *PermissionAuthority {
	return &PermissionAuthority{repo: repo, prompter: prompter}
}

// SetPrompter replaces the prompter.
func (a *PermissionAuthority) SetPrompter(p Prompter) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.prompter = p
}

// QueryAuthorization returns the stored state.
func (a *PermissionAuthority) QueryAuthorization(ctx context.Context) (model.AuthorizationState, error) {
	if err := ctx.Err(); err != nil {
		return model.NotDetermined, err
	}
	return a.repo.Get()
}

// PresentConsentPrompt asks the user and stores the answer.
func (a *PermissionAuthority) PresentConsentPrompt(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.repo.Get()
	if err != nil {
		return false, err
	}
	if state != model.NotDetermined {
		return state == model.Authorized, nil
	}

	if a.prompter == nil {
		return false, &errors.UserError{
			Message:    "cannot ask for notification permission",
			Suggestion: errors.Suggestions[errors.ErrPromptUnavailable],
			Cause:      errors.ErrPromptUnavailable,
		}
	}

	granted, err := a.prompter.Prompt(ctx)
	if err != nil {
		return false, err
	}

	state = model.Denied
	if granted {
		state = model.Authorized
	}
	if err := a.repo.Set(state); err != nil {
		return false, errors.Wrap(err, "store permission")
	}

	logging.InfoContext(ctx, "permission stored", logging.KeyAuthState, state)
	return granted, nil
}

// Reset forgets the stored answer so the next request prompts again.
func (a *PermissionAuthority) Reset(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.repo.Reset()
}
