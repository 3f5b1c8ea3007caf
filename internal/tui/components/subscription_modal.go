package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"flicker/internal/domain"
	"flicker/internal/tui/styles"
)

// SubscriptionModal shows the user's plan, or a prompt when none exists.
type SubscriptionModal struct {
	visible      bool
	subscription domain.Subscription
	missing      bool
}

// NewSubscriptionModal creates a new subscription modal
func NewSubscriptionModal() SubscriptionModal {
	return SubscriptionModal{}
}

// Show displays the modal with plan details
func (m *SubscriptionModal) Show(sub domain.Subscription, missing bool) {
	m.visible = true
	m.subscription = sub
	m.missing = missing
}

// Hide dismisses the modal
func (m *SubscriptionModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SubscriptionModal) IsVisible() bool {
	return m.visible
}

// Update handles input while the modal is visible, returns closed=true on esc
func (m SubscriptionModal) Update(msg tea.Msg) (SubscriptionModal, bool) {
	if !m.visible {
		return m, false
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "S", "q":
			m.Hide()
			return m, true
		}
	}
	return m, false
}

// View renders the subscription modal
func (m SubscriptionModal) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.ModalTitleStyle.Render("Subscription"))
	b.WriteString("\n")

	if m.missing {
		b.WriteString(styles.SubtitleStyle.Render("No active plan"))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render("Subscribe on the website to unlock premium quality"))
	} else {
		b.WriteString(styles.AccentStyle.Render(m.subscription.Name))
		b.WriteString("\n")
		if m.subscription.Active() {
			b.WriteString(styles.SuccessStyle.Render("active"))
		} else {
			b.WriteString(styles.ErrorStyle.Render(m.subscription.Status))
		}
		if !m.subscription.EndDate.IsZero() {
			b.WriteString(styles.DimStyle.Render(" until " + m.subscription.EndDate.Format("2006-01-02")))
		}
		for _, feature := range m.subscription.Features {
			b.WriteString("\n")
			b.WriteString(styles.SubtitleStyle.Render("· " + feature))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close"))

	return styles.ModalStyle.Render(b.String())
}
