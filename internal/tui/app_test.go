package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flicker/internal/domain"
	"flicker/internal/log"
	"flicker/internal/service"
	"flicker/internal/session"
	"flicker/internal/store"
)

// fakeBackend stands in for the api client across all service interfaces
type fakeBackend struct {
	mu           sync.Mutex
	items        []domain.CatalogItem
	user         domain.User
	loginErr     error
	historyCalls int
}

func (b *fakeBackend) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	return b.items, nil
}
func (b *fakeBackend) Trending(ctx context.Context) ([]domain.CatalogItem, error) {
	return b.items, nil
}
func (b *fakeBackend) Popular(ctx context.Context) ([]domain.CatalogItem, error) {
	return b.items, nil
}
func (b *fakeBackend) NewReleases(ctx context.Context) ([]domain.CatalogItem, error) {
	return b.items, nil
}
func (b *fakeBackend) Categories(ctx context.Context) ([]domain.Category, error) {
	return nil, nil
}
func (b *fakeBackend) GetItem(ctx context.Context, id string) (domain.CatalogItem, error) {
	for _, item := range b.items {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.CatalogItem{}, domain.ErrNotFound
}
func (b *fakeBackend) Search(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	return b.items, nil
}

func (b *fakeBackend) Login(ctx context.Context, email, password string) (domain.Session, error) {
	if b.loginErr != nil {
		return domain.Session{}, b.loginErr
	}
	return domain.Session{Token: "tok", User: b.user}, nil
}
func (b *fakeBackend) Register(ctx context.Context, username, email, password string) (domain.Session, error) {
	return domain.Session{Token: "tok", User: b.user}, nil
}
func (b *fakeBackend) Profile(ctx context.Context) (domain.User, error) {
	return b.user, nil
}

func (b *fakeBackend) History(ctx context.Context) ([]domain.WatchHistoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.historyCalls++
	return []domain.WatchHistoryEntry{{ItemID: "a1", SeasonNumber: 1, EpisodeNumber: 1}}, nil
}
func (b *fakeBackend) Favorites(ctx context.Context) ([]string, error) { return nil, nil }
func (b *fakeBackend) ToggleFavorite(ctx context.Context, itemID string) error {
	return nil
}
func (b *fakeBackend) Subscription(ctx context.Context) (domain.Subscription, error) {
	return domain.Subscription{Name: "premium", Status: "active"}, nil
}
func (b *fakeBackend) Preferences(ctx context.Context) (domain.Preferences, error) {
	return domain.Preferences{}, nil
}

func (b *fakeBackend) historyCallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.historyCalls
}

// fakePlayer records every media spec handed to it
type fakePlayer struct {
	mu     sync.Mutex
	opened []domain.MediaSpec
	closed int
}

func (p *fakePlayer) Open(ctx context.Context, spec domain.MediaSpec) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opened = append(p.opened, spec)
	return nil
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

func (p *fakePlayer) openCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.opened)
}

func (p *fakePlayer) lastSpec() domain.MediaSpec {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opened[len(p.opened)-1]
}

// fakeRecorder captures watch-history appends
type fakeRecorder struct {
	mu      sync.Mutex
	entries []domain.WatchHistoryEntry
}

func (r *fakeRecorder) AddHistory(ctx context.Context, itemID string, seasonNumber, episodeNumber int, progress float64) (domain.WatchHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := domain.WatchHistoryEntry{ItemID: itemID, SeasonNumber: seasonNumber, EpisodeNumber: episodeNumber, Progress: progress}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *fakeRecorder) all() []domain.WatchHistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.WatchHistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

type fixture struct {
	model    Model
	backend  *fakeBackend
	player   *fakePlayer
	recorder *fakeRecorder
	sessions *service.SessionService
	playback *service.PlaybackService
}

func newFixture(t *testing.T, items []domain.CatalogItem) *fixture {
	t.Helper()

	backend := &fakeBackend{
		items: items,
		user:  domain.User{ID: "u1", Username: "dana", Email: "dana@example.com"},
	}
	player := &fakePlayer{}
	recorder := &fakeRecorder{}
	logger := log.NullLogger()

	sessionStore, err := session.NewStore(t.TempDir())
	require.NoError(t, err)
	snapshots, err := store.NewSnapshotStore("", "")
	require.NoError(t, err)

	catalog := service.NewCatalogService(backend, snapshots, logger)
	sessions := service.NewSessionService(backend, sessionStore, snapshots, logger)
	playback := service.NewPlaybackService(player, recorder, sessions, logger)
	searcher := service.NewSearchService(backend, catalog, logger)

	model := NewModel(catalog, sessions, playback, searcher, backend, true)
	model.Ready = true
	model.Width = 120
	model.Height = 40

	return &fixture{
		model:    model,
		backend:  backend,
		player:   player,
		recorder: recorder,
		sessions: sessions,
		playback: playback,
	}
}

// runCmd executes a command and feeds the resulting message back
func (f *fixture) runCmd(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	updated, _ := f.model.Update(msg)
	f.model = updated.(Model)
}

func (f *fixture) press(key tea.KeyMsg) tea.Cmd {
	updated, cmd := f.model.Update(key)
	f.model = updated.(Model)
	return cmd
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.sessions.Logout())
	_, err := f.sessions.Login(context.Background(), "dana@example.com", "pw")
	require.NoError(t, err)
}

var twoSeasonItem = domain.CatalogItem{
	ID:          "a1",
	Title:       "Aurora Drift",
	Trailer:     "https://cdn.example.com/trailer.mp4",
	ReleaseYear: 2023,
	Seasons: []domain.Season{
		{
			SeasonNumber: 1,
			Episodes: []domain.Episode{
				{EpisodeNumber: 1, Title: "Pilot", Video: "https://cdn.example.com/s1e1.m3u8"},
			},
		},
		{
			SeasonNumber: 2,
			Episodes: []domain.Episode{
				{EpisodeNumber: 1, Title: "Return", Video: "https://cdn.example.com/s2e1.m3u8"},
				{EpisodeNumber: 2, Title: "Descent", Video: "https://cdn.example.com/s2e2.m3u8"},
				{EpisodeNumber: 3, Title: "Breach", Video: "X"},
			},
		},
	},
}

func TestSelectItemOpensDetailOnFirstSeason(t *testing.T) {
	f := newFixture(t, []domain.CatalogItem{twoSeasonItem})

	f.model.selectItem(twoSeasonItem)
	require.True(t, f.model.Detail.IsVisible())
	assert.Equal(t, 0, f.model.Detail.SeasonIndex())

	// A later season stays picked until another item is selected
	f.model.Detail.ChooseSeason(1)
	assert.Equal(t, 1, f.model.Detail.SeasonIndex())

	// Re-selecting always lands back on the first season
	f.model.selectItem(twoSeasonItem)
	assert.Equal(t, 0, f.model.Detail.SeasonIndex())
}

func TestSelectItemWithoutSeasons(t *testing.T) {
	bare := domain.CatalogItem{ID: "m1", Title: "Standalone"}
	f := newFixture(t, []domain.CatalogItem{bare})

	f.model.selectItem(bare)
	require.True(t, f.model.Detail.IsVisible())

	_, ok := f.model.Detail.SelectedSeason()
	assert.False(t, ok)

	// Play with no seasons reports an error and touches nothing
	cmd := f.model.requestPlayEpisode()
	assert.Nil(t, cmd)
	assert.True(t, f.model.StatusIsErr)
	assert.True(t, f.model.Detail.IsVisible())
	assert.False(t, f.model.PlayerOpen)
	assert.Equal(t, 0, f.player.openCount())
}

func TestPlayEpisodeFullFlow(t *testing.T) {
	f := newFixture(t, []domain.CatalogItem{twoSeasonItem})
	f.signIn(t)

	f.model.selectItem(twoSeasonItem)
	f.model.Detail.ChooseSeason(1)
	f.model.Detail, _ = f.model.Detail.Update(tea.KeyMsg{Type: tea.KeyDown})
	f.model.Detail, _ = f.model.Detail.Update(tea.KeyMsg{Type: tea.KeyDown})

	episode, ok := f.model.Detail.SelectedEpisode()
	require.True(t, ok)
	require.Equal(t, 3, episode.EpisodeNumber)

	f.runCmd(t, f.model.requestPlayEpisode())

	// Player got the episode's locator, detail closed, player flagged live
	require.Equal(t, 1, f.player.openCount())
	assert.Equal(t, "X", f.player.lastSpec().Locator)
	assert.False(t, f.model.Detail.IsVisible())
	assert.True(t, f.model.PlayerOpen)

	// Exactly one history append for (item, season 2, episode 3)
	select {
	case <-f.playback.HistoryRecorded():
	case <-time.After(2 * time.Second):
		t.Fatal("history append never finished")
	}
	entries := f.recorder.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "a1", entries[0].ItemID)
	assert.Equal(t, 2, entries[0].SeasonNumber)
	assert.Equal(t, 3, entries[0].EpisodeNumber)
}

func TestPlayUnstreamableEpisodeChangesNothing(t *testing.T) {
	item := domain.CatalogItem{
		ID:    "a2",
		Title: "Gap Season",
		Seasons: []domain.Season{
			{SeasonNumber: 1, Episodes: []domain.Episode{
				{EpisodeNumber: 1, Title: "Missing", Video: ""},
			}},
		},
	}
	f := newFixture(t, []domain.CatalogItem{item})

	f.model.selectItem(item)
	cmd := f.model.requestPlayEpisode()

	assert.Nil(t, cmd, "no playback command for an unstreamable episode")
	assert.Equal(t, 0, f.player.openCount(), "player never constructed")
	assert.True(t, f.model.Detail.IsVisible(), "modal stays open")
	assert.False(t, f.model.PlayerOpen)
	assert.True(t, f.model.StatusIsErr)
	assert.Empty(t, f.recorder.all())
}

func TestTrailerAbsentNeverOpensPlayer(t *testing.T) {
	item := domain.CatalogItem{ID: "a3", Title: "No Trailer"}
	f := newFixture(t, []domain.CatalogItem{item})

	cmd := f.model.requestPlayTrailer(item)

	assert.Nil(t, cmd)
	assert.Equal(t, 0, f.player.openCount())
	assert.False(t, f.model.PlayerOpen)
	assert.True(t, f.model.StatusIsErr)
}

func TestTrailerPlays(t *testing.T) {
	f := newFixture(t, []domain.CatalogItem{twoSeasonItem})

	f.runCmd(t, f.model.requestPlayTrailer(twoSeasonItem))

	require.Equal(t, 1, f.player.openCount())
	assert.Equal(t, twoSeasonItem.Trailer, f.player.lastSpec().Locator)
	assert.True(t, f.model.PlayerOpen)
	assert.Empty(t, f.recorder.all(), "trailers never touch history")
}

func TestPlaybackFailureKeepsModalOpen(t *testing.T) {
	f := newFixture(t, []domain.CatalogItem{twoSeasonItem})
	f.model.selectItem(twoSeasonItem)

	// A failed playback command yields an ErrMsg; feeding it back must
	// not close the modal or flag the player
	updated, _ := f.model.Update(ErrMsg{Err: domain.ErrPlayerInit, Context: "starting playback"})
	f.model = updated.(Model)

	assert.True(t, f.model.Detail.IsVisible())
	assert.False(t, f.model.PlayerOpen)
	assert.True(t, f.model.StatusIsErr)
}

func TestClosePlayerIdempotent(t *testing.T) {
	f := newFixture(t, []domain.CatalogItem{twoSeasonItem})

	f.runCmd(t, f.model.requestPlayTrailer(twoSeasonItem))
	require.True(t, f.model.PlayerOpen)

	f.runCmd(t, f.model.closePlayer())
	assert.False(t, f.model.PlayerOpen)
	assert.Equal(t, 1, f.player.closed)

	// Second close is a no-op, not a second teardown
	assert.Nil(t, f.model.closePlayer())
	assert.Equal(t, 1, f.player.closed)
}

func TestLogoutClearsUserState(t *testing.T) {
	f := newFixture(t, []domain.CatalogItem{twoSeasonItem})
	f.signIn(t)
	require.True(t, f.sessions.IsAuthenticated())

	// Seed history as if the profile had been opened
	f.runCmd(t, LoadHistoryCmd(f.backend))
	require.NotEmpty(t, f.model.History)
	callsBefore := f.backend.historyCallCount()

	f.runCmd(t, f.press(keyRune('O')))

	assert.False(t, f.sessions.IsAuthenticated())
	assert.Empty(t, f.model.History, "history empties without a backend request")
	assert.Empty(t, f.model.Favorites)
	assert.Equal(t, callsBefore, f.backend.historyCallCount())
}

func TestRailsLoadIndependently(t *testing.T) {
	f := newFixture(t, []domain.CatalogItem{twoSeasonItem})

	// New releases lands before trending; each fills only its own rail
	updated, _ := f.model.Update(SlotLoadedMsg{Slot: store.SlotNew, Items: []domain.CatalogItem{twoSeasonItem}})
	f.model = updated.(Model)

	assert.Equal(t, 1, f.model.Rails[2].Len(), "new releases rail filled")
	assert.Equal(t, 0, f.model.Rails[0].Len(), "trending rail untouched")

	updated, _ = f.model.Update(SlotLoadedMsg{Slot: store.SlotTrending, Items: []domain.CatalogItem{twoSeasonItem, twoSeasonItem}})
	f.model = updated.(Model)
	assert.Equal(t, 2, f.model.Rails[0].Len())
	assert.Equal(t, 1, f.model.Rails[2].Len())
}

func TestLoginFailureKeepsModalWithError(t *testing.T) {
	f := newFixture(t, nil)
	f.backend.loginErr = domain.ErrAuthFailed

	f.model.Login.Show()
	f.runCmd(t, LoginCmd(f.sessions, "dana@example.com", "bad"))

	assert.True(t, f.model.Login.IsVisible(), "failed login keeps the form open")
	assert.False(t, f.sessions.IsAuthenticated())
}

func TestLoginSuccessClosesModal(t *testing.T) {
	f := newFixture(t, nil)

	f.model.Login.Show()
	f.runCmd(t, LoginCmd(f.sessions, "dana@example.com", "pw"))

	assert.False(t, f.model.Login.IsVisible())
	assert.True(t, f.sessions.IsAuthenticated())
}
