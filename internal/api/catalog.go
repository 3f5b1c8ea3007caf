package api

import (
	"context"
	"fmt"
	"net/url"

	"flicker/internal/domain"
)

// ListItems returns the full catalog.
func (c *Client) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	return c.listItems(ctx, nil)
}

// Trending returns the trending subset of the catalog.
func (c *Client) Trending(ctx context.Context) ([]domain.CatalogItem, error) {
	return c.listItems(ctx, url.Values{"trending": {"true"}})
}

// Popular returns the popular subset of the catalog.
func (c *Client) Popular(ctx context.Context) ([]domain.CatalogItem, error) {
	return c.listItems(ctx, url.Values{"popular": {"true"}})
}

// NewReleases returns recently released items.
func (c *Client) NewReleases(ctx context.Context) ([]domain.CatalogItem, error) {
	return c.listItems(ctx, url.Values{"new": {"true"}})
}

// ByCategory returns items in a genre/category.
func (c *Client) ByCategory(ctx context.Context, category string) ([]domain.CatalogItem, error) {
	return c.listItems(ctx, url.Values{"category": {category}})
}

func (c *Client) listItems(ctx context.Context, query url.Values) ([]domain.CatalogItem, error) {
	var dtos []catalogItemDTO
	if err := c.get(ctx, "/anime", query, &dtos); err != nil {
		return nil, err
	}
	return mapCatalogItems(dtos)
}

// GetItem fetches a single catalog item with its seasons and episodes.
func (c *Client) GetItem(ctx context.Context, id string) (domain.CatalogItem, error) {
	var dto catalogItemDTO
	if err := c.get(ctx, "/anime/"+url.PathEscape(id), nil, &dto); err != nil {
		return domain.CatalogItem{}, err
	}
	return mapCatalogItem(dto)
}

// Search queries the backend full-text search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	var dtos []catalogItemDTO
	if err := c.get(ctx, "/anime/search", url.Values{"q": {query}}, &dtos); err != nil {
		return nil, err
	}
	return mapCatalogItems(dtos)
}

// Categories returns all catalog categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var dtos []categoryDTO
	if err := c.get(ctx, "/anime/categories", nil, &dtos); err != nil {
		return nil, err
	}
	return mapCategories(dtos), nil
}

// Seasons returns the ordered seasons of an item.
func (c *Client) Seasons(ctx context.Context, itemID string) ([]domain.Season, error) {
	var dtos []seasonDTO
	if err := c.get(ctx, fmt.Sprintf("/anime/%s/seasons", url.PathEscape(itemID)), nil, &dtos); err != nil {
		return nil, err
	}
	seasons := make([]domain.Season, 0, len(dtos))
	for _, d := range dtos {
		seasons = append(seasons, mapSeason(d))
	}
	return seasons, nil
}

// GetSeason returns one season of an item by season number.
func (c *Client) GetSeason(ctx context.Context, itemID string, seasonNumber int) (domain.Season, error) {
	var dto seasonDTO
	path := fmt.Sprintf("/anime/%s/seasons/%d", url.PathEscape(itemID), seasonNumber)
	if err := c.get(ctx, path, nil, &dto); err != nil {
		return domain.Season{}, err
	}
	return mapSeason(dto), nil
}

// GetEpisode returns one episode by season and episode number.
func (c *Client) GetEpisode(ctx context.Context, itemID string, seasonNumber, episodeNumber int) (domain.Episode, error) {
	var dto episodeDTO
	path := fmt.Sprintf("/anime/%s/seasons/%d/episodes/%d", url.PathEscape(itemID), seasonNumber, episodeNumber)
	if err := c.get(ctx, path, nil, &dto); err != nil {
		return domain.Episode{}, err
	}
	return domain.Episode(dto), nil
}
