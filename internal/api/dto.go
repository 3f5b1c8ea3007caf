package api

import (
	"fmt"
	"time"

	"flicker/internal/domain"
)

// Wire DTOs for the backend's loosely-typed Mongo-style responses. Mapping
// into domain records validates required fields; a record missing its id or
// title is a validation failure, not a silent zero value.

type catalogItemDTO struct {
	ID          string      `json:"_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Trailer     string      `json:"trailer"`
	Categories  []string    `json:"categories"`
	Status      string      `json:"status"`
	ReleaseYear int         `json:"releaseYear"`
	Rating      float64     `json:"rating"`
	Seasons     []seasonDTO `json:"seasons"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type seasonDTO struct {
	SeasonNumber int          `json:"seasonNumber"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ReleaseDate  time.Time    `json:"releaseDate"`
	Poster       string       `json:"poster"`
	Episodes     []episodeDTO `json:"episodes"`
}

type episodeDTO struct {
	EpisodeNumber int       `json:"episodeNumber"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Video         string    `json:"video"`
	Duration      string    `json:"duration"`
	Thumbnail     string    `json:"thumbnail"`
	ReleaseDate   time.Time `json:"releaseDate"`
}

type categoryDTO struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type userDTO struct {
	ID          string          `json:"_id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Role        string          `json:"role"`
	Status      string          `json:"status"`
	Preferences *preferencesDTO `json:"preferences"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type preferencesDTO struct {
	Language  string `json:"language"`
	Quality   string `json:"quality"`
	Theme     string `json:"theme"`
	Subtitles bool   `json:"subtitles"`
	AutoPlay  bool   `json:"autoPlay"`
}

type subscriptionDTO struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Duration  int       `json:"duration"`
	Features  []string  `json:"features"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

type historyDTO struct {
	ItemID        string    `json:"animeId"`
	ItemTitle     string    `json:"animeTitle"`
	SeasonNumber  int       `json:"seasonNumber"`
	EpisodeNumber int       `json:"episodeNumber"`
	Progress      float64   `json:"progress"`
	LastWatched   time.Time `json:"lastWatched"`
}

type loginResponseDTO struct {
	AccessToken string  `json:"access_token"`
	User        userDTO `json:"user"`
}

// === Mappers ===

func mapCatalogItem(d catalogItemDTO) (domain.CatalogItem, error) {
	if d.ID == "" || d.Title == "" {
		return domain.CatalogItem{}, fmt.Errorf("%w: catalog item missing id or title", domain.ErrValidation)
	}
	item := domain.CatalogItem{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Image:       d.Image,
		Trailer:     d.Trailer,
		Categories:  d.Categories,
		Status:      d.Status,
		ReleaseYear: d.ReleaseYear,
		Rating:      d.Rating,
		CreatedAt:   d.CreatedAt,
	}
	for _, s := range d.Seasons {
		item.Seasons = append(item.Seasons, mapSeason(s))
	}
	return item, nil
}

func mapCatalogItems(dtos []catalogItemDTO) ([]domain.CatalogItem, error) {
	items := make([]domain.CatalogItem, 0, len(dtos))
	for _, d := range dtos {
		item, err := mapCatalogItem(d)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func mapSeason(d seasonDTO) domain.Season {
	s := domain.Season{
		SeasonNumber: d.SeasonNumber,
		Title:        d.Title,
		Description:  d.Description,
		ReleaseDate:  d.ReleaseDate,
		Poster:       d.Poster,
	}
	for _, e := range d.Episodes {
		s.Episodes = append(s.Episodes, domain.Episode(e))
	}
	return s
}

func mapCategories(dtos []categoryDTO) []domain.Category {
	categories := make([]domain.Category, 0, len(dtos))
	for _, d := range dtos {
		categories = append(categories, domain.Category(d))
	}
	return categories
}

func mapUser(d userDTO) (domain.User, error) {
	if d.ID == "" {
		return domain.User{}, fmt.Errorf("%w: user record missing id", domain.ErrValidation)
	}
	u := domain.User{
		ID:        d.ID,
		Username:  d.Username,
		Email:     d.Email,
		Role:      d.Role,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
	}
	if d.Preferences != nil {
		u.Preferences = domain.Preferences(*d.Preferences)
	}
	return u, nil
}

func mapSubscription(d subscriptionDTO) domain.Subscription {
	return domain.Subscription(d)
}

func mapHistory(dtos []historyDTO) []domain.WatchHistoryEntry {
	entries := make([]domain.WatchHistoryEntry, 0, len(dtos))
	for _, d := range dtos {
		entries = append(entries, domain.WatchHistoryEntry(d))
	}
	return entries
}
