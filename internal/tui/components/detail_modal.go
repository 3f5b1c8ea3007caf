package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flicker/internal/domain"
	"flicker/internal/tui/styles"
)

// DetailAction is what the user asked the detail modal to do
type DetailAction int

const (
	DetailNone DetailAction = iota
	DetailPlay
	DetailTrailer
	DetailFavorite
	DetailClose
)

// DetailModal shows one catalog item: metadata, season picker, episode list.
// Selecting a new item always lands on the first season.
type DetailModal struct {
	visible      bool
	item         domain.CatalogItem
	seasonIndex  int
	episodeIndex int
	favorite     bool
	width        int
	height       int
}

// NewDetailModal creates a new detail modal
func NewDetailModal() DetailModal {
	return DetailModal{}
}

// Show displays the modal for an item. The season cursor resets to the
// first season regardless of where the previous item left it.
func (m *DetailModal) Show(item domain.CatalogItem, favorite bool) {
	m.visible = true
	m.item = item
	m.seasonIndex = 0
	m.episodeIndex = 0
	m.favorite = favorite
}

// Hide dismisses the modal
func (m *DetailModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m DetailModal) IsVisible() bool {
	return m.visible
}

// Item returns the item being shown
func (m DetailModal) Item() domain.CatalogItem {
	return m.item
}

// SetFavorite updates the favorite marker without touching cursors
func (m *DetailModal) SetFavorite(v bool) {
	m.favorite = v
}

// SetSize updates the render bounds
func (m *DetailModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SeasonIndex returns the season cursor position
func (m DetailModal) SeasonIndex() int {
	return m.seasonIndex
}

// ChooseSeason moves the season cursor. Out-of-range indices are ignored.
// The episode cursor resets because episode lists differ per season.
func (m *DetailModal) ChooseSeason(index int) {
	if index < 0 || index >= len(m.item.Seasons) {
		return
	}
	m.seasonIndex = index
	m.episodeIndex = 0
}

// SelectedSeason returns the season under the cursor. Items without
// seasons report none; the view shows metadata only in that case.
func (m DetailModal) SelectedSeason() (domain.Season, bool) {
	if len(m.item.Seasons) == 0 {
		return domain.Season{}, false
	}
	return m.item.Seasons[m.seasonIndex], true
}

// SelectedEpisode returns the episode under the cursor
func (m DetailModal) SelectedEpisode() (domain.Episode, bool) {
	season, ok := m.SelectedSeason()
	if !ok || len(season.Episodes) == 0 {
		return domain.Episode{}, false
	}
	if m.episodeIndex >= len(season.Episodes) {
		return domain.Episode{}, false
	}
	return season.Episodes[m.episodeIndex], true
}

// Update handles input while the modal is visible
func (m DetailModal) Update(msg tea.Msg) (DetailModal, DetailAction) {
	if !m.visible {
		return m, DetailNone
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, DetailNone
	}

	switch keyMsg.String() {
	case "esc":
		return m, DetailClose
	case "left", "h":
		m.ChooseSeason(m.seasonIndex - 1)
	case "right", "l":
		m.ChooseSeason(m.seasonIndex + 1)
	case "up", "k":
		if m.episodeIndex > 0 {
			m.episodeIndex--
		}
	case "down", "j":
		if season, ok := m.SelectedSeason(); ok && m.episodeIndex < len(season.Episodes)-1 {
			m.episodeIndex++
		}
	case "enter", "p":
		return m, DetailPlay
	case "t":
		return m, DetailTrailer
	case "f":
		return m, DetailFavorite
	}
	return m, DetailNone
}

// View renders the detail modal
func (m DetailModal) View() string {
	if !m.visible {
		return ""
	}

	width := 64
	if m.width > 0 && m.width-8 < width {
		width = m.width - 8
	}

	var b strings.Builder

	title := m.item.Title
	if m.favorite {
		title += " " + styles.RatingStyle.Render("♥")
	}
	b.WriteString(styles.ModalTitleStyle.Render(title))
	b.WriteString("\n")

	meta := fmt.Sprintf("%d · %s", m.item.ReleaseYear, m.item.Status)
	if m.item.Rating > 0 {
		meta += styles.RatingStyle.Render(fmt.Sprintf(" · ★ %.1f", m.item.Rating))
	}
	b.WriteString(styles.SubtitleStyle.Render(meta))
	b.WriteString("\n")

	if len(m.item.Categories) > 0 {
		b.WriteString(styles.DimStyle.Render(strings.Join(m.item.Categories, " / ")))
		b.WriteString("\n")
	}

	if m.item.Description != "" {
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render(wrap(m.item.Description, width)))
		b.WriteString("\n")
	}

	if len(m.item.Seasons) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("No episodes available"))
	} else {
		b.WriteString("\n")
		b.WriteString(m.renderSeasonTabs())
		b.WriteString("\n\n")
		b.WriteString(m.renderEpisodes(width))
	}

	b.WriteString("\n\n")
	help := styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" play  ") +
		styles.HelpKeyStyle.Render("t") + styles.HelpDescStyle.Render(" trailer  ") +
		styles.HelpKeyStyle.Render("f") + styles.HelpDescStyle.Render(" favorite  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close")
	b.WriteString(help)

	return styles.ModalStyle.Width(width).Render(b.String())
}

func (m DetailModal) renderSeasonTabs() string {
	tabs := make([]string, 0, len(m.item.Seasons))
	for i, season := range m.item.Seasons {
		label := season.DisplayTitle()
		if i == m.seasonIndex {
			tabs = append(tabs, styles.BadgeStyle.Render(label))
		} else {
			tabs = append(tabs, styles.DimBadgeStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(tabs, " "))
}

func (m DetailModal) renderEpisodes(width int) string {
	season, ok := m.SelectedSeason()
	if !ok {
		return ""
	}
	if len(season.Episodes) == 0 {
		return styles.DimStyle.Render("No episodes in this season")
	}

	rows := make([]string, 0, len(season.Episodes))
	for i, ep := range season.Episodes {
		label := fmt.Sprintf("%2d. %s", ep.EpisodeNumber, styles.Truncate(ep.Title, width-12))
		if !ep.Streamable() {
			label += " " + styles.DimStyle.Render("(unavailable)")
		}
		if i == m.episodeIndex {
			rows = append(rows, styles.SelectedItemStyle.Render(label))
		} else {
			rows = append(rows, styles.NormalItemStyle.Render(label))
		}
	}
	return strings.Join(rows, "\n")
}

// wrap does naive word wrapping for modal body text
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	var lines []string
	var line string
	for _, w := range words {
		if line == "" {
			line = w
		} else if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
