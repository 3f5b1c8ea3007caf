package tui

import (
	"flicker/internal/domain"
	"flicker/internal/service"
)

// Message types for the TUI

// ErrMsg represents an error surfaced to the status bar
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SnapshotLoadedMsg signals that the on-disk catalog snapshot was read
type SnapshotLoadedMsg struct{}

// SlotLoadedMsg signals that one catalog rail finished refreshing
type SlotLoadedMsg struct {
	Slot  string
	Items []domain.CatalogItem
}

// CategoriesLoadedMsg signals that categories finished refreshing
type CategoriesLoadedMsg struct {
	Categories []domain.Category
}

// SearchResultsMsg signals that backend search results are ready
type SearchResultsMsg struct {
	Results []service.SearchResult
	Query   string
}

// PlaybackStartedMsg signals that the player is live for an episode
type PlaybackStartedMsg struct {
	Item    domain.CatalogItem
	Season  domain.Season
	Episode domain.Episode
}

// TrailerStartedMsg signals that the player is live for a trailer
type TrailerStartedMsg struct {
	Item domain.CatalogItem
}

// PlayerClosedMsg signals that the player was torn down
type PlayerClosedMsg struct{}

// LoginResultMsg carries the outcome of a sign-in or sign-up attempt
type LoginResultMsg struct {
	Session domain.Session
	Err     error
}

// LogoutDoneMsg signals that the session and user caches were cleared
type LogoutDoneMsg struct {
	Err error
}

// HistoryLoadedMsg signals that watch history arrived
type HistoryLoadedMsg struct {
	Entries []domain.WatchHistoryEntry
}

// FavoritesLoadedMsg signals that the favorite set arrived
type FavoritesLoadedMsg struct {
	IDs []string
}

// FavoriteToggledMsg signals that a favorite flip was accepted
type FavoriteToggledMsg struct {
	ItemID string
}

// SubscriptionLoadedMsg signals that subscription details arrived.
// Missing carries the no-subscription case; it is not an error.
type SubscriptionLoadedMsg struct {
	Subscription domain.Subscription
	Missing      bool
}

// PreferencesLoadedMsg signals that user preferences arrived
type PreferencesLoadedMsg struct {
	Preferences domain.Preferences
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg drives the loading spinner
type TickMsg struct{}
