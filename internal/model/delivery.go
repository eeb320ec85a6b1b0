package model

import (
	"time"

	"github.com/google/uuid"
)

// deliveryNamespace seeds deterministic delivery IDs.
var deliveryNamespace = uuid.MustParse("6f0c7f7e-3b8a-5d7c-9a51-2f4c8e1d0b63")

// ScheduledDelivery is one pending notification instance.
type ScheduledDelivery struct {
	ID       string    `json:"id"`
	Category Category  `json:"category"`
	FireAt   time.Time `json:"fire_at"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
}

// NewScheduledDelivery builds the delivery for category c firing at fireAt.
// The ID is derived from (c, fireAt) so the same inputs always yield the same ID.
func NewScheduledDelivery(c Category, fireAt time.Time) ScheduledDelivery {
	text := CopyFor(c)
	return ScheduledDelivery{
		ID:       DeliveryID(c, fireAt),
		Category: c,
		FireAt:   fireAt,
		Title:    text.Title,
		Body:     text.Body,
	}
}

// DeliveryID returns the deterministic ID for category c at fireAt.
func DeliveryID(c Category, fireAt time.Time) string {
	name := string(c) + "|" + fireAt.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(deliveryNamespace, []byte(name)).String()
}

// IsDue reports whether the delivery should have fired by now.
func (d ScheduledDelivery) IsDue(now time.Time) bool {
	return !d.FireAt.After(now)
}

// Key returns the ledger key for the delivery.
func (d ScheduledDelivery) Key() string {
	return PrefixDelivery + d.ID
}

// Copy is the text shown for a notification.
type Copy struct {
	Title string
	Body  string
}

// CopyFor returns the recurring notification text for a category.
func CopyFor(c Category) Copy {
	switch c {
	case DailyPhotoReminder:
		return Copy{
			Title: "Time for your daily photo",
			Body:  "Snap today's progress photo to keep your streak going.",
		}
	case RoutineReminder:
		return Copy{
			Title: "Routine check-in",
			Body:  "Have you done your skincare routine today?",
		}
	case ProgressReminder:
		return Copy{
			Title: "See your progress",
			Body:  "Compare your photos and see how far you've come.",
		}
	default:
		return Copy{Title: "Reminder", Body: ""}
	}
}

// CopyForTest returns the text used for an immediate test notification.
func CopyForTest(c Category) Copy {
	return Copy{
		Title: "Test: " + c.Label(),
		Body:  "This is a test notification. If you can see it, notifications are working.",
	}
}
