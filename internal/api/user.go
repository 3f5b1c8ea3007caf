package api

import (
	"context"
	"errors"

	"flicker/internal/domain"
)

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var dto userDTO
	if err := c.get(ctx, "/users/profile", nil, &dto); err != nil {
		return domain.User{}, err
	}
	return mapUser(dto)
}

// UpdateProfile updates profile fields and returns the stored record.
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]any) (domain.User, error) {
	var dto userDTO
	if err := c.put(ctx, "/users/profile", fields, &dto); err != nil {
		return domain.User{}, err
	}
	return mapUser(dto)
}

// History returns the user's watch history, newest first.
func (c *Client) History(ctx context.Context) ([]domain.WatchHistoryEntry, error) {
	var dtos []historyDTO
	if err := c.get(ctx, "/users/history", nil, &dtos); err != nil {
		return nil, err
	}
	return mapHistory(dtos), nil
}

// AddHistory appends a watch-history entry for a confirmed play action.
func (c *Client) AddHistory(ctx context.Context, itemID string, seasonNumber, episodeNumber int, progress float64) (domain.WatchHistoryEntry, error) {
	payload := map[string]any{
		"animeId":       itemID,
		"seasonNumber":  seasonNumber,
		"episodeNumber": episodeNumber,
		"progress":      progress,
	}
	var dto historyDTO
	if err := c.post(ctx, "/users/history", payload, &dto); err != nil {
		return domain.WatchHistoryEntry{}, err
	}
	return domain.WatchHistoryEntry(dto), nil
}

// Subscription returns the user's subscription, or ErrNotFound when the
// user has none.
func (c *Client) Subscription(ctx context.Context) (domain.Subscription, error) {
	var dto subscriptionDTO
	if err := c.get(ctx, "/users/subscription", nil, &dto); err != nil {
		return domain.Subscription{}, err
	}
	return mapSubscription(dto), nil
}

// UpdateSubscription switches the user to the given plan.
func (c *Client) UpdateSubscription(ctx context.Context, subscriptionID string) (domain.Subscription, error) {
	var dto subscriptionDTO
	payload := map[string]any{"subscriptionId": subscriptionID}
	if err := c.post(ctx, "/users/subscription", payload, &dto); err != nil {
		return domain.Subscription{}, err
	}
	return mapSubscription(dto), nil
}

// Preferences returns the user's preferences.
func (c *Client) Preferences(ctx context.Context) (domain.Preferences, error) {
	var dto preferencesDTO
	if err := c.get(ctx, "/users/preferences", nil, &dto); err != nil {
		return domain.Preferences{}, err
	}
	return domain.Preferences(dto), nil
}

// UpdatePreferences updates preference fields and returns the stored record.
func (c *Client) UpdatePreferences(ctx context.Context, fields map[string]any) (domain.Preferences, error) {
	var dto preferencesDTO
	if err := c.put(ctx, "/users/preferences", fields, &dto); err != nil {
		return domain.Preferences{}, err
	}
	return domain.Preferences(dto), nil
}

// Favorites returns the IDs of the user's favorited items.
func (c *Client) Favorites(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.get(ctx, "/users/favorites", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// ToggleFavorite adds or removes an item from the user's favorites.
func (c *Client) ToggleFavorite(ctx context.Context, itemID string) error {
	var resp struct {
		Message string `json:"message"`
	}
	return c.post(ctx, "/users/favorites", map[string]any{"animeId": itemID}, &resp)
}

// IsMissingSubscription reports whether err means "no subscription" rather
// than a real failure.
func IsMissingSubscription(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
