package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flicker/internal/tui/styles"
)

// View renders the whole application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if featured, ok := m.Catalog.Featured(); ok && !m.anyOverlay() {
		banner := styles.TitleStyle.Render(featured.Title) + "  " +
			styles.DimStyle.Render(styles.Truncate(featured.Description, m.Width-len(featured.Title)-8))
		sections = append(sections, styles.AccentStyle.Render("Featured ")+banner)
	}

	for i := range m.Rails {
		sections = append(sections, m.Rails[i].View(m.Width-2, i == m.railIdx && !m.anyOverlay(), m.SpinnerFrame))
	}

	body := strings.Join(sections, "\n\n")

	if overlay := m.renderOverlay(); overlay != "" {
		body = lipgloss.Place(m.Width, m.Height-2, lipgloss.Center, lipgloss.Center, overlay)
	}

	return body + "\n" + m.renderFooter()
}

func (m Model) anyOverlay() bool {
	return m.Detail.IsVisible() || m.Login.IsVisible() || m.Profile.IsVisible() ||
		m.Subscription.IsVisible() || m.Search.IsVisible()
}

// renderOverlay returns the top-most visible overlay
func (m Model) renderOverlay() string {
	switch {
	case m.Login.IsVisible():
		return m.Login.View()
	case m.Search.IsVisible():
		return m.Search.View()
	case m.Profile.IsVisible():
		return m.Profile.View()
	case m.Subscription.IsVisible():
		return m.Subscription.View()
	case m.Detail.IsVisible():
		return m.Detail.View()
	}
	return ""
}

func (m Model) renderHeader() string {
	brand := styles.AccentStyle.Bold(true).Render("FLICKER")

	var account string
	if user, ok := m.Sessions.CurrentUser(); ok {
		account = styles.BadgeStyle.Render(user.Initials()) + " " + styles.SubtitleStyle.Render(user.Username)
	} else if m.Sessions.IsAuthenticated() {
		account = styles.SubtitleStyle.Render("signed in")
	} else {
		account = styles.DimStyle.Render("guest · L to sign in")
	}

	var playing string
	if m.PlayerOpen {
		playing = styles.SuccessStyle.Render("▶ " + styles.Truncate(m.NowPlaying, 40))
	}

	left := brand
	if playing != "" {
		left += "  " + playing
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(account)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + account
}

func (m Model) renderFooter() string {
	if m.StatusText != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusText)
		}
		return styles.SuccessStyle.Render(m.StatusText)
	}

	if m.ShowHelp {
		return m.renderHelp()
	}

	pairs := []string{
		styles.HelpKeyStyle.Render("←↓↑→") + styles.HelpDescStyle.Render(" browse"),
		styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" details"),
		styles.HelpKeyStyle.Render("/") + styles.HelpDescStyle.Render(" search"),
		styles.HelpKeyStyle.Render("?") + styles.HelpDescStyle.Render(" help"),
		styles.HelpKeyStyle.Render("q") + styles.HelpDescStyle.Render(" quit"),
	}
	if m.PlayerOpen {
		pairs = append(pairs, styles.HelpKeyStyle.Render("esc")+styles.HelpDescStyle.Render(" stop playback"))
	}
	return strings.Join(pairs, "  ")
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"h/l", "move within a rail"},
		{"j/k", "switch rails"},
		{"enter", "open details"},
		{"t", "play trailer"},
		{"f", "toggle favorite"},
		{"/", "fuzzy search"},
		{"r", "refresh catalog"},
		{"u", "profile"},
		{"S", "subscription"},
		{"L", "sign in"},
		{"O", "sign out"},
		{"esc", "stop playback / close"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(rows))
	for _, r := range rows {
		parts = append(parts, fmt.Sprintf("%s %s",
			styles.HelpKeyStyle.Render(r[0]), styles.HelpDescStyle.Render(r[1])))
	}
	return strings.Join(parts, "  ")
}
