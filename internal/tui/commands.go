package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"flicker/internal/api"
	"flicker/internal/domain"
	"flicker/internal/service"
)

// userGateway is the slice of the backend client the TUI needs for
// account-scoped data.
type userGateway interface {
	History(ctx context.Context) ([]domain.WatchHistoryEntry, error)
	Favorites(ctx context.Context) ([]string, error)
	ToggleFavorite(ctx context.Context, itemID string) error
	Subscription(ctx context.Context) (domain.Subscription, error)
	Preferences(ctx context.Context) (domain.Preferences, error)
}

// Command factories for async operations

// RefreshSlotCmd refreshes one catalog rail from the backend
func RefreshSlotCmd(svc *service.CatalogService, slot string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		items, err := svc.RefreshSlot(ctx, slot)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading " + slot}
		}
		return SlotLoadedMsg{Slot: slot, Items: items}
	}
}

// RefreshCategoriesCmd refreshes the category list
func RefreshCategoriesCmd(svc *service.CatalogService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		categories, err := svc.RefreshCategories(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading categories"}
		}
		return CategoriesLoadedMsg{Categories: categories}
	}
}

// SearchCmd runs a catalog search
func SearchCmd(svc *service.SearchService, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		results, err := svc.Search(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return SearchResultsMsg{Results: results, Query: query}
	}
}

// PlayEpisodeCmd starts playback of an episode
func PlayEpisodeCmd(svc *service.PlaybackService, item domain.CatalogItem, season domain.Season, episode domain.Episode) tea.Cmd {
	return func() tea.Msg {
		if err := svc.PlayEpisode(context.Background(), item, season, episode); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return PlaybackStartedMsg{Item: item, Season: season, Episode: episode}
	}
}

// PlayTrailerCmd starts playback of an item's trailer
func PlayTrailerCmd(svc *service.PlaybackService, item domain.CatalogItem) tea.Cmd {
	return func() tea.Msg {
		if err := svc.PlayTrailer(context.Background(), item); err != nil {
			return ErrMsg{Err: err, Context: "starting trailer"}
		}
		return TrailerStartedMsg{Item: item}
	}
}

// ClosePlayerCmd tears down the active player
func ClosePlayerCmd(svc *service.PlaybackService) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Stop(); err != nil {
			return ErrMsg{Err: err, Context: "closing player"}
		}
		return PlayerClosedMsg{}
	}
}

// LoginCmd signs the user in
func LoginCmd(svc *service.SessionService, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess, err := svc.Login(ctx, email, password)
		return LoginResultMsg{Session: sess, Err: err}
	}
}

// RegisterCmd creates an account and signs the user in
func RegisterCmd(svc *service.SessionService, username, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sess, err := svc.Register(ctx, username, email, password)
		return LoginResultMsg{Session: sess, Err: err}
	}
}

// LogoutCmd clears the session and all user-scoped caches
func LogoutCmd(svc *service.SessionService) tea.Cmd {
	return func() tea.Msg {
		return LogoutDoneMsg{Err: svc.Logout()}
	}
}

// LoadHistoryCmd loads watch history for the signed-in user
func LoadHistoryCmd(users userGateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, err := users.History(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading history"}
		}
		return HistoryLoadedMsg{Entries: entries}
	}
}

// LoadFavoritesCmd loads the favorite set for the signed-in user
func LoadFavoritesCmd(users userGateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		ids, err := users.Favorites(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading favorites"}
		}
		return FavoritesLoadedMsg{IDs: ids}
	}
}

// ToggleFavoriteCmd flips an item's favorite state
func ToggleFavoriteCmd(users userGateway, itemID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := users.ToggleFavorite(ctx, itemID); err != nil {
			return ErrMsg{Err: err, Context: "updating favorites"}
		}
		return FavoriteToggledMsg{ItemID: itemID}
	}
}

// LoadSubscriptionCmd loads subscription details for the signed-in user
func LoadSubscriptionCmd(users userGateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		sub, err := users.Subscription(ctx)
		if err != nil {
			if api.IsMissingSubscription(err) {
				return SubscriptionLoadedMsg{Missing: true}
			}
			return ErrMsg{Err: err, Context: "loading subscription"}
		}
		return SubscriptionLoadedMsg{Subscription: sub}
	}
}

// LoadPreferencesCmd loads user preferences
func LoadPreferencesCmd(users userGateway) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		prefs, err := users.Preferences(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading preferences"}
		}
		return PreferencesLoadedMsg{Preferences: prefs}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
