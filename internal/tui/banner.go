package tui

import (
	"strings"
	"time"

	"github.com/manav03panchal/glowtrack/internal/model"
)

// BannerComponent displays a delivered notification.
type BannerComponent struct {
	Title    string
	Body     string
	Category model.Category
	At       time.Time
	Width    int
}

// NewBannerComponent creates a banner for a notification delivered at at.
func NewBannerComponent(title, body string, category model.Category, at time.Time) *BannerComponent {
	return &BannerComponent{
		Title:    title,
		Body:     body,
		Category: category,
		At:       at,
	}
}

// View renders the banner.
func (b *BannerComponent) View() string {
	var content strings.Builder

	header := FormatCategory(b.Category)
	if !b.At.IsZero() {
		header += "  " + StyleSubtitle.Render(b.At.Local().Format("15:04"))
	}
	content.WriteString(header)
	content.WriteString("\n")
	content.WriteString(StyleActive.Render(b.Title))

	if b.Body != "" {
		content.WriteString("\n")
		content.WriteString(StyleBody.Render(b.Body))
	}

	box := StyleBannerBox
	if b.Width > 4 {
		box = box.Width(b.Width - 4)
	}
	return box.Render(content.String())
}
