package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"flicker/internal/domain"
	"flicker/internal/tui/styles"
)

// ProfileModal shows the signed-in user, their preferences and their
// most recent watch history.
type ProfileModal struct {
	visible     bool
	user        domain.User
	preferences domain.Preferences
	history     []domain.WatchHistoryEntry
}

// NewProfileModal creates a new profile modal
func NewProfileModal() ProfileModal {
	return ProfileModal{}
}

// Show displays the modal for a user
func (m *ProfileModal) Show(user domain.User) {
	m.visible = true
	m.user = user
}

// Hide dismisses the modal
func (m *ProfileModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ProfileModal) IsVisible() bool {
	return m.visible
}

// SetPreferences updates the preferences section
func (m *ProfileModal) SetPreferences(p domain.Preferences) {
	m.preferences = p
}

// SetHistory updates the watch history section
func (m *ProfileModal) SetHistory(entries []domain.WatchHistoryEntry) {
	m.history = entries
}

// Update handles input while the modal is visible, returns closed=true on esc
func (m ProfileModal) Update(msg tea.Msg) (ProfileModal, bool) {
	if !m.visible {
		return m, false
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "u", "q":
			m.Hide()
			return m, true
		}
	}
	return m, false
}

// View renders the profile modal
func (m ProfileModal) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render(m.user.Username))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(m.user.Email))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentStyle.Render("Preferences"))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("language %s · quality %s · subtitles %v",
		valueOr(m.preferences.Language, "default"),
		valueOr(m.preferences.Quality, "auto"),
		m.preferences.Subtitles)))
	b.WriteString("\n\n")

	b.WriteString(styles.AccentStyle.Render("Continue watching"))
	b.WriteString("\n")
	if len(m.history) == 0 {
		b.WriteString(styles.DimStyle.Render("Nothing yet"))
	} else {
		shown := m.history
		if len(shown) > 8 {
			shown = shown[:8]
		}
		rows := make([]string, 0, len(shown))
		for _, e := range shown {
			row := fmt.Sprintf("%s S%02dE%02d  %s",
				styles.Truncate(e.ItemTitle, 28), e.SeasonNumber, e.EpisodeNumber,
				styles.RenderProgressBar(e.Progress, 12))
			rows = append(rows, row)
		}
		b.WriteString(strings.Join(rows, "\n"))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close"))

	return styles.ModalStyle.Render(b.String())
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
