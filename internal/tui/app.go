package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"flicker/internal/domain"
	"flicker/internal/service"
	"flicker/internal/store"
	"flicker/internal/tui/components"
)

// railSlots maps display order to catalog slots
var railSlots = []struct {
	Slot  string
	Title string
}{
	{store.SlotTrending, "Trending Now"},
	{store.SlotPopular, "Popular"},
	{store.SlotNew, "New Releases"},
	{store.SlotAll, "All Titles"},
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready bool

	// Services
	Catalog  *service.CatalogService
	Sessions *service.SessionService
	Playback *service.PlaybackService
	Searcher *service.SearchService
	Users    userGateway

	// Catalog rails
	Rails   []components.Rail
	railIdx int

	// Overlays
	Detail       components.DetailModal
	Login        components.LoginModal
	Profile      components.ProfileModal
	Subscription components.SubscriptionModal
	Search       components.SearchOverlay

	// Player state. The player itself is an external process; this flag
	// only tracks whether one is supposed to be live.
	PlayerOpen bool
	NowPlaying string

	// ExclusivePlayer closes overlays when playback starts
	ExclusivePlayer bool

	// User-scoped data, cleared on logout
	History   []domain.WatchHistoryEntry
	Favorites map[string]bool

	Categories []domain.Category

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusText   string
	StatusIsErr  bool
	SpinnerFrame int
	ShowHelp     bool
}

// NewModel creates the application model and primes rails from the
// on-disk snapshot so the UI is never empty on startup.
func NewModel(
	catalog *service.CatalogService,
	sessions *service.SessionService,
	playback *service.PlaybackService,
	searcher *service.SearchService,
	users userGateway,
	exclusivePlayer bool,
) Model {
	catalog.LoadSnapshot()

	rails := make([]components.Rail, len(railSlots))
	for i, rs := range railSlots {
		rails[i] = components.NewRail(rs.Title)
		if cached := catalog.Slot(rs.Slot); len(cached) > 0 {
			rails[i].SetItems(cached)
		}
	}

	return Model{
		Catalog:         catalog,
		Sessions:        sessions,
		Playback:        playback,
		Searcher:        searcher,
		Users:           users,
		Rails:           rails,
		Detail:          components.NewDetailModal(),
		Login:           components.NewLoginModal(),
		Profile:         components.NewProfileModal(),
		Subscription:    components.NewSubscriptionModal(),
		Search:          components.NewSearchOverlay(),
		ExclusivePlayer: exclusivePlayer,
		Favorites:       make(map[string]bool),
	}
}

// Init kicks off one refresh per rail. The refreshes are independent;
// they may complete in any order and each lands in its own rail.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(100 * time.Millisecond)}
	for _, rs := range railSlots {
		cmds = append(cmds, RefreshSlotCmd(m.Catalog, rs.Slot))
	}
	cmds = append(cmds, RefreshCategoriesCmd(m.Catalog))
	if m.Sessions.IsAuthenticated() {
		cmds = append(cmds, LoadHistoryCmd(m.Users), LoadFavoritesCmd(m.Users))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Detail.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case SlotLoadedMsg:
		for i, rs := range railSlots {
			if rs.Slot == msg.Slot {
				m.Rails[i].SetItems(msg.Items)
			}
		}
		return m, nil

	case CategoriesLoadedMsg:
		m.Categories = msg.Categories
		return m, nil

	case ErrMsg:
		// Failures report to the status bar; they never open or close
		// anything.
		m.setStatus(msg.Error(), true)
		return m, ClearStatusCmd(5 * time.Second)

	case PlaybackStartedMsg:
		m.NowPlaying = msg.Item.Title + " " + msg.Episode.Code(msg.Season.SeasonNumber)
		return m.playerOpened()

	case TrailerStartedMsg:
		m.NowPlaying = msg.Item.Title + " (trailer)"
		return m.playerOpened()

	case PlayerClosedMsg:
		m.PlayerOpen = false
		m.NowPlaying = ""
		return m, nil

	case LoginResultMsg:
		if msg.Err != nil {
			m.Login.SetError(msg.Err.Error())
			return m, nil
		}
		m.Login.Hide()
		m.setStatus("Signed in as "+msg.Session.User.Username, false)
		return m, tea.Batch(
			LoadHistoryCmd(m.Users),
			LoadFavoritesCmd(m.Users),
			ClearStatusCmd(5*time.Second),
		)

	case LogoutDoneMsg:
		m.History = nil
		m.Favorites = make(map[string]bool)
		m.Profile.Hide()
		m.Subscription.Hide()
		if msg.Err != nil {
			m.setStatus("sign out: "+msg.Err.Error(), true)
		} else {
			m.setStatus("Signed out", false)
		}
		return m, ClearStatusCmd(5 * time.Second)

	case HistoryLoadedMsg:
		m.History = msg.Entries
		m.Profile.SetHistory(msg.Entries)
		return m, nil

	case FavoritesLoadedMsg:
		m.Favorites = make(map[string]bool, len(msg.IDs))
		for _, id := range msg.IDs {
			m.Favorites[id] = true
		}
		if m.Detail.IsVisible() {
			m.Detail.SetFavorite(m.Favorites[m.Detail.Item().ID])
		}
		return m, nil

	case FavoriteToggledMsg:
		m.Favorites[msg.ItemID] = !m.Favorites[msg.ItemID]
		if m.Detail.IsVisible() && m.Detail.Item().ID == msg.ItemID {
			m.Detail.SetFavorite(m.Favorites[msg.ItemID])
		}
		return m, nil

	case SubscriptionLoadedMsg:
		m.Subscription.Show(msg.Subscription, msg.Missing)
		return m, nil

	case PreferencesLoadedMsg:
		m.Profile.SetPreferences(msg.Preferences)
		return m, nil

	case SearchResultsMsg:
		if m.Search.IsVisible() && msg.Query == m.Search.Query() {
			m.Search.SetResults(msg.Results)
		}
		return m, nil

	case StatusMsg:
		m.setStatus(msg.Message, msg.IsError)
		return m, ClearStatusCmd(5 * time.Second)

	case ClearStatusMsg:
		m.StatusText = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// handleKey routes keys to whichever surface currently owns input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Overlays own the keyboard while visible, top-most first
	if m.Login.IsVisible() {
		var cmd tea.Cmd
		var creds components.Credentials
		var submitted bool
		m.Login, cmd, creds, submitted = m.Login.Update(msg)
		if submitted {
			if creds.Mode == components.ModeSignUp {
				return m, RegisterCmd(m.Sessions, creds.Username, creds.Email, creds.Password)
			}
			return m, LoginCmd(m.Sessions, creds.Email, creds.Password)
		}
		return m, cmd
	}

	if m.Search.IsVisible() {
		var cmd tea.Cmd
		var ev components.SearchEvent
		m.Search, cmd, ev = m.Search.Update(msg)
		switch ev.Kind {
		case components.SearchQueryChanged:
			m.Search.SetResults(m.Searcher.FilterLocal(ev.Query))
		case components.SearchSubmitted:
			return m, SearchCmd(m.Searcher, ev.Query)
		case components.SearchPicked:
			m.Search.Hide()
			m.selectItem(ev.Result.Item)
		}
		return m, cmd
	}

	if m.Profile.IsVisible() {
		m.Profile, _ = m.Profile.Update(msg)
		return m, nil
	}

	if m.Subscription.IsVisible() {
		m.Subscription, _ = m.Subscription.Update(msg)
		return m, nil
	}

	if m.Detail.IsVisible() {
		var action components.DetailAction
		m.Detail, action = m.Detail.Update(msg)
		switch action {
		case components.DetailClose:
			m.Detail.Hide()
		case components.DetailPlay:
			return m, m.requestPlayEpisode()
		case components.DetailTrailer:
			return m, m.requestPlayTrailer(m.Detail.Item())
		case components.DetailFavorite:
			return m, m.requestToggleFavorite(m.Detail.Item())
		}
		return m, nil
	}

	// Browsing
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Help):
		m.ShowHelp = !m.ShowHelp
		return m, nil
	case key.Matches(msg, Keys.Escape):
		if m.ShowHelp {
			m.ShowHelp = false
			return m, nil
		}
		return m, m.closePlayer()
	case key.Matches(msg, Keys.Up):
		if m.railIdx > 0 {
			m.railIdx--
		}
		return m, nil
	case key.Matches(msg, Keys.Down), key.Matches(msg, Keys.Tab):
		if m.railIdx < len(m.Rails)-1 {
			m.railIdx++
		}
		return m, nil
	case key.Matches(msg, Keys.Left):
		m.Rails[m.railIdx].Move(-1)
		return m, nil
	case key.Matches(msg, Keys.Right):
		m.Rails[m.railIdx].Move(1)
		return m, nil
	case key.Matches(msg, Keys.Enter), key.Matches(msg, Keys.Play):
		if item, ok := m.Rails[m.railIdx].Selected(); ok {
			m.selectItem(item)
		}
		return m, nil
	case key.Matches(msg, Keys.Trailer):
		if item, ok := m.Rails[m.railIdx].Selected(); ok {
			return m, m.requestPlayTrailer(item)
		}
		return m, nil
	case key.Matches(msg, Keys.Favorite):
		if item, ok := m.Rails[m.railIdx].Selected(); ok {
			return m, m.requestToggleFavorite(item)
		}
		return m, nil
	case key.Matches(msg, Keys.Search):
		m.Search.Show()
		return m, nil
	case key.Matches(msg, Keys.Refresh):
		cmds := make([]tea.Cmd, 0, len(railSlots)+1)
		for _, rs := range railSlots {
			cmds = append(cmds, RefreshSlotCmd(m.Catalog, rs.Slot))
		}
		cmds = append(cmds, RefreshCategoriesCmd(m.Catalog))
		return m, tea.Batch(cmds...)
	case key.Matches(msg, Keys.Login):
		if !m.Sessions.IsAuthenticated() {
			m.Login.Show()
		}
		return m, nil
	case key.Matches(msg, Keys.Logout):
		if m.Sessions.IsAuthenticated() {
			return m, LogoutCmd(m.Sessions)
		}
		return m, nil
	case key.Matches(msg, Keys.Profile):
		if user, ok := m.Sessions.CurrentUser(); ok {
			m.Profile.Show(user)
			return m, tea.Batch(LoadHistoryCmd(m.Users), LoadPreferencesCmd(m.Users))
		}
		m.Login.Show()
		return m, nil
	case key.Matches(msg, Keys.Subscription):
		if m.Sessions.IsAuthenticated() {
			return m, LoadSubscriptionCmd(m.Users)
		}
		m.Login.Show()
		return m, nil
	}
	return m, nil
}

// selectItem opens the detail modal for an item. The season cursor
// always starts on the first season, whatever was selected before.
func (m *Model) selectItem(item domain.CatalogItem) {
	m.Detail.Show(item, m.Favorites[item.ID])
}

// requestPlayEpisode validates the current detail selection and, only if
// the episode is streamable, hands it to the playback service. Nothing
// is opened or closed here; visibility flips when playback actually
// starts.
func (m *Model) requestPlayEpisode() tea.Cmd {
	season, ok := m.Detail.SelectedSeason()
	if !ok {
		m.setStatus("no episodes available", true)
		return nil
	}
	episode, ok := m.Detail.SelectedEpisode()
	if !ok {
		m.setStatus("no episode selected", true)
		return nil
	}
	if !episode.Streamable() {
		m.setStatus("episode is not available for streaming", true)
		return nil
	}
	return PlayEpisodeCmd(m.Playback, m.Detail.Item(), season, episode)
}

// requestPlayTrailer validates trailer presence before touching the
// playback service. Items without trailers are a status line, not an
// error dialog.
func (m *Model) requestPlayTrailer(item domain.CatalogItem) tea.Cmd {
	if !item.HasTrailer() {
		m.setStatus("no trailer available", true)
		return nil
	}
	return PlayTrailerCmd(m.Playback, item)
}

func (m *Model) requestToggleFavorite(item domain.CatalogItem) tea.Cmd {
	if !m.Sessions.IsAuthenticated() {
		m.Login.Show()
		return nil
	}
	return ToggleFavoriteCmd(m.Users, item.ID)
}

// playerOpened flips the player flag. With an exclusive player every
// overlay closes so the terminal is quiet behind the external window.
func (m Model) playerOpened() (tea.Model, tea.Cmd) {
	m.PlayerOpen = true
	if m.ExclusivePlayer {
		m.Detail.Hide()
		m.Profile.Hide()
		m.Subscription.Hide()
		m.Search.Hide()
	}
	m.setStatus("Playing "+m.NowPlaying, false)
	return m, ClearStatusCmd(5 * time.Second)
}

// closePlayer tears down the live player. With nothing playing it does
// nothing, so a second esc is harmless.
func (m *Model) closePlayer() tea.Cmd {
	if !m.PlayerOpen {
		return nil
	}
	return ClosePlayerCmd(m.Playback)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.StatusText = text
	m.StatusIsErr = isErr
}
