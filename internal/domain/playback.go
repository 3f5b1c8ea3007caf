package domain

import "context"

// MediaSpec describes one piece of media handed to the player controller.
type MediaSpec struct {
	Locator string // Playable URL
	Poster  string // Poster image URL, may be empty
	Title   string // Window/display title
}

// HistoryRecorder appends watch-history entries after a confirmed play
// action. The append is fire-and-forget with respect to playback.
type HistoryRecorder interface {
	AddHistory(ctx context.Context, itemID string, seasonNumber, episodeNumber int, progress float64) (WatchHistoryEntry, error)
}
