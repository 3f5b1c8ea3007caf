package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flicker/internal/domain"
	"flicker/internal/tui/styles"
)

const cardWidth = 24

// Rail is one horizontal row of catalog cards with a cursor.
type Rail struct {
	title   string
	items   []domain.CatalogItem
	cursor  int
	offset  int
	loading bool
}

// NewRail creates a rail with a header title
func NewRail(title string) Rail {
	return Rail{title: title, loading: true}
}

// Title returns the rail header
func (r Rail) Title() string {
	return r.title
}

// SetItems replaces the rail contents, clamping the cursor
func (r *Rail) SetItems(items []domain.CatalogItem) {
	r.items = items
	r.loading = false
	if r.cursor >= len(items) {
		r.cursor = 0
		r.offset = 0
	}
}

// Items returns the rail contents
func (r Rail) Items() []domain.CatalogItem {
	return r.items
}

// Len returns the number of items
func (r Rail) Len() int {
	return len(r.items)
}

// Selected returns the item under the cursor
func (r Rail) Selected() (domain.CatalogItem, bool) {
	if len(r.items) == 0 {
		return domain.CatalogItem{}, false
	}
	return r.items[r.cursor], true
}

// Move shifts the cursor by delta, clamped to the ends
func (r *Rail) Move(delta int) {
	if len(r.items) == 0 {
		return
	}
	r.cursor += delta
	if r.cursor < 0 {
		r.cursor = 0
	}
	if r.cursor >= len(r.items) {
		r.cursor = len(r.items) - 1
	}
}

// View renders the rail at the given width. focused styles the cursor card.
func (r *Rail) View(width int, focused bool, spinnerFrame int) string {
	header := styles.RailHeaderStyle.Render(r.title)
	if r.loading {
		header += " " + styles.SpinnerStyle.Render(spinnerChar(spinnerFrame))
	}

	if len(r.items) == 0 {
		body := styles.DimStyle.Render("  nothing here yet")
		if r.loading {
			body = styles.DimStyle.Render("  loading...")
		}
		return header + "\n" + body
	}

	visible := width / cardWidth
	if visible < 1 {
		visible = 1
	}

	// Keep the cursor in the visible window
	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+visible {
		r.offset = r.cursor - visible + 1
	}

	end := r.offset + visible
	if end > len(r.items) {
		end = len(r.items)
	}

	cards := make([]string, 0, end-r.offset)
	for i := r.offset; i < end; i++ {
		cards = append(cards, r.renderCard(r.items[i], focused && i == r.cursor))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if end < len(r.items) {
		row += styles.DimStyle.Render(" →")
	}
	return header + "\n" + row
}

func (r Rail) renderCard(item domain.CatalogItem, selected bool) string {
	title := styles.Truncate(item.Title, cardWidth-6)
	sub := fmt.Sprintf("%d", item.ReleaseYear)
	if item.Rating > 0 {
		sub += fmt.Sprintf(" ★ %.1f", item.Rating)
	}

	content := strings.Join([]string{
		styles.TitleStyle.Render(title),
		styles.DimStyle.Render(sub),
	}, "\n")

	if selected {
		return styles.CardSelectedStyle.Render(content)
	}
	return styles.CardStyle.Render(content)
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerChar(frame int) string {
	return spinnerFrames[frame%len(spinnerFrames)]
}
