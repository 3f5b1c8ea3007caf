package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFirstSeason(t *testing.T) {
	empty := CatalogItem{ID: "a", Title: "Empty"}
	assert.Nil(t, empty.FirstSeason())

	item := CatalogItem{
		Seasons: []Season{
			{SeasonNumber: 1, Title: "One"},
			{SeasonNumber: 2, Title: "Two"},
		},
	}
	first := item.FirstSeason()
	assert.NotNil(t, first)
	assert.Equal(t, 1, first.SeasonNumber)
}

func TestHasTrailer(t *testing.T) {
	assert.False(t, (&CatalogItem{}).HasTrailer())
	assert.True(t, (&CatalogItem{Trailer: "https://cdn.example/t.mp4"}).HasTrailer())
}

func TestEpisodeStreamable(t *testing.T) {
	assert.False(t, Episode{EpisodeNumber: 1}.Streamable())
	assert.True(t, Episode{EpisodeNumber: 1, Video: "https://cdn.example/e1.mp4"}.Streamable())
}

func TestEpisodeCode(t *testing.T) {
	ep := Episode{EpisodeNumber: 3}
	assert.Equal(t, "S02E03", ep.Code(2))
}

func TestSeasonDisplayTitle(t *testing.T) {
	assert.Equal(t, "Season 1", Season{SeasonNumber: 1}.DisplayTitle())
	assert.Equal(t, "Season 1", Season{SeasonNumber: 1, Title: "Season 1"}.DisplayTitle())
	assert.Equal(t, "Season 2: Shippuden", Season{SeasonNumber: 2, Title: "Shippuden"}.DisplayTitle())
}

func TestSubscriptionActive(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	assert.True(t, Subscription{Status: "active", EndDate: future}.Active())
	assert.False(t, Subscription{Status: "active", EndDate: past}.Active())
	assert.False(t, Subscription{Status: "cancelled", EndDate: future}.Active())
}

func TestSessionAuthenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.True(t, Session{Token: "abc"}.Authenticated())
}
