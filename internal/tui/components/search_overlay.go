package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"flicker/internal/service"
	"flicker/internal/tui/styles"
)

const maxSearchResults = 10

// SearchEventKind tells the app what the overlay wants
type SearchEventKind int

const (
	SearchNone SearchEventKind = iota
	SearchQueryChanged
	SearchSubmitted
	SearchPicked
)

// SearchEvent is emitted by the overlay's Update
type SearchEvent struct {
	Kind   SearchEventKind
	Query  string
	Result service.SearchResult
}

// SearchOverlay is the fuzzy catalog search modal. Typing filters the
// local cache; enter asks the backend; enter on a result opens it.
type SearchOverlay struct {
	visible bool
	input   textinput.Model
	results []service.SearchResult
	cursor  int
}

// NewSearchOverlay creates a new search overlay
func NewSearchOverlay() SearchOverlay {
	input := textinput.New()
	input.Placeholder = "Search the catalog..."
	input.CharLimit = 80
	input.Width = 44
	input.Prompt = styles.AccentStyle.Render("/ ")

	return SearchOverlay{input: input}
}

// Show displays the overlay with a cleared query
func (o *SearchOverlay) Show() {
	o.visible = true
	o.results = nil
	o.cursor = 0
	o.input.SetValue("")
	o.input.Focus()
}

// Hide dismisses the overlay
func (o *SearchOverlay) Hide() {
	o.visible = false
	o.input.Blur()
}

// IsVisible returns whether the overlay is shown
func (o SearchOverlay) IsVisible() bool {
	return o.visible
}

// Query returns the current query text
func (o SearchOverlay) Query() string {
	return strings.TrimSpace(o.input.Value())
}

// SetResults replaces the result list
func (o *SearchOverlay) SetResults(results []service.SearchResult) {
	o.results = results
	if o.cursor >= len(results) {
		o.cursor = 0
	}
}

// Update handles input events
func (o SearchOverlay) Update(msg tea.Msg) (SearchOverlay, tea.Cmd, SearchEvent) {
	if !o.visible {
		return o, nil, SearchEvent{}
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			o.Hide()
			return o, nil, SearchEvent{}
		case "up", "ctrl+k":
			if o.cursor > 0 {
				o.cursor--
			}
			return o, nil, SearchEvent{}
		case "down", "ctrl+j":
			if o.cursor < len(o.results)-1 {
				o.cursor++
			}
			return o, nil, SearchEvent{}
		case "enter":
			if len(o.results) > 0 {
				return o, nil, SearchEvent{Kind: SearchPicked, Result: o.results[o.cursor]}
			}
			if o.Query() != "" {
				return o, nil, SearchEvent{Kind: SearchSubmitted, Query: o.Query()}
			}
			return o, nil, SearchEvent{}
		}
	}

	var cmd tea.Cmd
	before := o.input.Value()
	o.input, cmd = o.input.Update(msg)
	if o.input.Value() != before {
		o.cursor = 0
		return o, cmd, SearchEvent{Kind: SearchQueryChanged, Query: o.Query()}
	}
	return o, cmd, SearchEvent{}
}

// View renders the search overlay
func (o SearchOverlay) View() string {
	if !o.visible {
		return ""
	}

	var b strings.Builder
	b.WriteString(o.input.View())
	b.WriteString("\n")

	query := o.Query()
	shown := o.results
	if len(shown) > maxSearchResults {
		shown = shown[:maxSearchResults]
	}

	for i, result := range shown {
		line := highlightTitle(result.Item.Title, query)
		if result.Item.ReleaseYear > 0 {
			line += styles.DimStyle.Render(fmt.Sprintf(" (%d)", result.Item.ReleaseYear))
		}
		if i == o.cursor {
			b.WriteString(styles.SelectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(styles.NormalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(o.results) > maxSearchResults {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(o.results)-maxSearchResults)))
		b.WriteString("\n")
	}
	if len(o.results) == 0 && query != "" {
		b.WriteString(styles.DimStyle.Render("No matches, enter searches the backend"))
		b.WriteString("\n")
	}

	hint := styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" open  ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close")
	b.WriteString(hint)

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, b.String()))
}

// highlightTitle bolds the characters of title that fuzzy-match query
func highlightTitle(title, query string) string {
	if query == "" {
		return title
	}
	matches := fuzzy.Find(query, []string{title})
	if len(matches) == 0 {
		return title
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range title {
		if matched[i] {
			b.WriteString(styles.MatchHighlightStyle.Render(string(r)))
		} else {
			b.WriteString(string(r))
		}
	}
	return b.String()
}
