package platform

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/manav03panchal/glowtrack/internal/errors"
	"github.com/manav03panchal/glowtrack/internal/logging"
	"github.com/manav03panchal/glowtrack/internal/model"
	"github.com/manav03panchal/glowtrack/internal/storage"
	"github.com/manav03panchal/glowtrack/internal/tui"
)

// Renderer formats a delivered notification for the output stream.
type Renderer func(title, body string, category model.Category, at time.Time) string

// BannerRenderer renders notifications as a styled terminal banner.
func BannerRenderer(title, body string, category model.Category, at time.Time) string {
	return tui.NewBannerComponent(title, body, category, at).View() + "\n"
}

// PlainRenderer renders one line per notification.
func PlainRenderer(title, body string, category model.Category, at time.Time) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\n", at.Local().Format(time.RFC3339), category, title, body)
}

// DeliveryAuthority keeps scheduled deliveries in a ledger and delivers
// notifications by writing them to an output stream.
type DeliveryAuthority struct {
	ledger *storage.DeliveryRepo
	out    io.Writer
	render Renderer
	now    func() time.Time

	mu sync.Mutex
}

// DeliveryOption configures a DeliveryAuthority.
type DeliveryOption func(*DeliveryAuthority)

// WithRenderer sets the renderer used for delivered notifications.
func WithRenderer(r Renderer) DeliveryOption {
	return func(a *DeliveryAuthority) {
		if r != nil {
			a.render = r
		}
	}
}

// WithDeliveryClock overrides the clock used to stamp immediate deliveries.
func WithDeliveryClock(now func() time.Time) DeliveryOption {
	return func(a *DeliveryAuthority) { a.now = now }
}

// NewDeliveryAuthority creates a delivery authority writing to out.
func NewDeliveryAuthority(ledger *storage.DeliveryRepo, out io.Writer, opts ...DeliveryOption) *DeliveryAuthority {
	a := &DeliveryAuthority{
		ledger: ledger,
		out:    out,
		render: BannerRenderer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ScheduleDelivery records d in the ledger. Scheduling the same ID twice
// keeps one entry.
func (a *DeliveryAuthority) ScheduleDelivery(ctx context.Context, d model.ScheduledDelivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Put(d)
}

// CancelDelivery removes the delivery with id. Unknown ids are ignored.
func (a *DeliveryAuthority) CancelDelivery(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Delete(id)
}

// Pending returns the ledger ordered by fire time.
func (a *DeliveryAuthority) Pending(ctx context.Context) ([]model.ScheduledDelivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.List()
}

// DeliverNow writes the notification to the output stream.
func (a *DeliveryAuthority) DeliverNow(ctx context.Context, title, body string, category model.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.write(title, body, category, a.now())
}

func (a *DeliveryAuthority) write(title, body string, category model.Category, at time.Time) error {
	if _, err := io.WriteString(a.out, a.render(title, body, category, at)); err != nil {
		return errors.Wrap(err, "write notification")
	}
	return nil
}

// FireDue delivers every ledger entry whose fire time is not after now and
// removes it from the ledger. An entry that cannot be delivered stays in the
// ledger for the next call.
func (a *DeliveryAuthority) FireDue(ctx context.Context, now time.Time) ([]model.ScheduledDelivery, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pending, err := a.ledger.List()
	if err != nil {
		return nil, err
	}

	var fired []model.ScheduledDelivery
	var errs []error
	for _, d := range pending {
		if !d.IsDue(now) {
			// The ledger is ordered by fire time.
			break
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := a.write(d.Title, d.Body, d.Category, d.FireAt); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := a.ledger.Delete(d.ID); err != nil {
			errs = append(errs, err)
			continue
		}

		fired = append(fired, d)
		logging.InfoContext(ctx, "delivery fired",
			logging.KeyCategory, d.Category,
			logging.KeyDeliveryID, d.ID,
			logging.KeyFireAt, d.FireAt)
	}

	return fired, errors.Join(errs...)
}
