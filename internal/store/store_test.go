package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flicker/internal/domain"
)

func testItems() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "a1", Title: "First", Rating: 8.2},
		{ID: "a2", Title: "Second", Seasons: []domain.Season{{SeasonNumber: 1}}},
	}
}

func TestSlotRoundTrip(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir(), "http://backend:3000")
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.Slot(SlotAll)
	assert.False(t, ok, "unsaved slot reads as absent")

	require.NoError(t, s.SaveSlot(SlotAll, testItems()))

	items, ok := s.Slot(SlotAll)
	require.True(t, ok)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)
	assert.Len(t, items[1].Seasons, 1)
}

func TestSlotsAreIndependent(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir(), "http://backend:3000")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSlot(SlotTrending, testItems()[:1]))

	_, ok := s.Slot(SlotPopular)
	assert.False(t, ok)

	trending, ok := s.Slot(SlotTrending)
	require.True(t, ok)
	assert.Len(t, trending, 1)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewSnapshotStore(dir, "http://backend:3000")
	require.NoError(t, err)
	require.NoError(t, s.SaveSlot(SlotAll, testItems()))
	require.NoError(t, s.Close())

	reopened, err := NewSnapshotStore(dir, "http://backend:3000")
	require.NoError(t, err)
	defer reopened.Close()

	items, ok := reopened.Slot(SlotAll)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestMemoryOnlyMode(t *testing.T) {
	s, err := NewSnapshotStore("", "")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSlot(SlotNew, testItems()))
	items, ok := s.Slot(SlotNew)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestClearUserData(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir(), "http://backend:3000")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveSlot(SlotAll, testItems()))
	require.NoError(t, s.SaveHistory([]domain.WatchHistoryEntry{
		{ItemID: "a1", EpisodeNumber: 1, Progress: 42, LastWatched: time.Now()},
	}))

	require.NoError(t, s.ClearUserData())

	_, ok := s.History()
	assert.False(t, ok, "history cleared on logout")

	_, ok = s.Slot(SlotAll)
	assert.True(t, ok, "public catalog data survives logout")
}

func TestCategoriesRoundTrip(t *testing.T) {
	s, err := NewSnapshotStore(t.TempDir(), "http://backend:3000")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveCategories([]domain.Category{{ID: "c1", Name: "Action"}}))
	categories, ok := s.Categories()
	require.True(t, ok)
	assert.Equal(t, "Action", categories[0].Name)
}
