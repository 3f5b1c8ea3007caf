package domain

import (
	"fmt"
	"time"
)

// CatalogItem represents a single title in the streaming catalog.
// Items are immutable once fetched; a refetch replaces them wholesale.
type CatalogItem struct {
	ID          string    // Backend unique identifier
	Title       string    // Display title
	Description string    // Synopsis
	Image       string    // Poster image URL
	Trailer     string    // Trailer media locator (empty = no trailer)
	Categories  []string  // Genre/category names
	Status      string    // "ongoing", "completed", "upcoming"
	ReleaseYear int       // First release year
	Rating      float64   // 0-10 audience rating
	Seasons     []Season  // Ordered by SeasonNumber
	CreatedAt   time.Time // When the item was added to the catalog
}

// FirstSeason returns the first season, or nil if the item has none.
func (c *CatalogItem) FirstSeason() *Season {
	if len(c.Seasons) == 0 {
		return nil
	}
	return &c.Seasons[0]
}

// HasTrailer reports whether the item carries a playable trailer locator.
func (c *CatalogItem) HasTrailer() bool {
	return c.Trailer != ""
}

// EpisodeCount returns the total episode count across all seasons.
func (c *CatalogItem) EpisodeCount() int {
	n := 0
	for _, s := range c.Seasons {
		n += len(s.Episodes)
	}
	return n
}

// Season is a season container within a CatalogItem.
// SeasonNumber is unique within the item and is the ordering key.
type Season struct {
	SeasonNumber int
	Title        string
	Description  string
	ReleaseDate  time.Time
	Poster       string
	Episodes     []Episode // Ordered by EpisodeNumber
}

// DisplayTitle returns the display title for the season.
func (s Season) DisplayTitle() string {
	if s.Title != "" && s.Title != fmt.Sprintf("Season %d", s.SeasonNumber) {
		return fmt.Sprintf("Season %d: %s", s.SeasonNumber, s.Title)
	}
	return fmt.Sprintf("Season %d", s.SeasonNumber)
}

// Episode is a single episode within a Season.
// EpisodeNumber is unique within the season and is the ordering key.
type Episode struct {
	EpisodeNumber int
	Title         string
	Description   string
	Video         string // Media locator; empty means not streamable
	Duration      string // e.g., "24:00"
	Thumbnail     string
	ReleaseDate   time.Time
}

// Streamable reports whether the episode carries a media locator.
func (e Episode) Streamable() bool {
	return e.Video != ""
}

// Code returns the formatted episode code within a season (e.g., "S01E05").
func (e Episode) Code(seasonNumber int) string {
	return fmt.Sprintf("S%02dE%02d", seasonNumber, e.EpisodeNumber)
}

// Category is a catalog genre/category.
type Category struct {
	ID          string
	Name        string
	Description string
}

// User is the authenticated user's profile record.
type User struct {
	ID          string
	Username    string
	Email       string
	Role        string
	Status      string
	Preferences Preferences
	CreatedAt   time.Time
}

// Initials returns an uppercase initial for avatar rendering.
func (u User) Initials() string {
	switch {
	case u.Username != "":
		return string([]rune(u.Username)[:1])
	case u.Email != "":
		return string([]rune(u.Email)[:1])
	default:
		return "U"
	}
}

// Preferences holds per-user playback and display preferences.
type Preferences struct {
	Language  string
	Quality   string
	Theme     string
	Subtitles bool
	AutoPlay  bool
}

// Subscription is the user's active plan, owned by the backend.
type Subscription struct {
	ID        string
	Name      string
	Price     float64
	Duration  int // months
	Features  []string
	Status    string
	StartDate time.Time
	EndDate   time.Time
}

// Active reports whether the subscription is currently valid.
func (s Subscription) Active() bool {
	return s.Status == "active" && time.Now().Before(s.EndDate)
}

// WatchHistoryEntry records progress on an episode. The backend owns these;
// the client caches them for the "continue watching" row.
type WatchHistoryEntry struct {
	ItemID        string
	ItemTitle     string
	SeasonNumber  int
	EpisodeNumber int
	Progress      float64 // 0-100 percent watched
	LastWatched   time.Time
}

// Session is the locally persisted authentication state. Token presence is
// the sole source of truth for "is authenticated"; the token itself is never
// validated client-side.
type Session struct {
	Token string
	User  User
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
