package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"flicker/internal/domain"
	"flicker/internal/store"
)

// searchClient provides the backend full-text search.
type searchClient interface {
	Search(ctx context.Context, query string) ([]domain.CatalogItem, error)
}

// SearchService ranks catalog items against a query. Cached items are
// matched locally; when the local cache is empty the backend search is
// used and its results re-ranked the same way.
type SearchService struct {
	client  searchClient
	catalog *CatalogService
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(client searchClient, catalog *CatalogService, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		client:  client,
		catalog: catalog,
		logger:  logger,
	}
}

// SearchResult pairs an item with its match rank (lower = better).
type SearchResult struct {
	Item domain.CatalogItem
	Rank int
}

// Search matches query against the cached catalog, falling back to the
// backend when nothing is cached yet.
func (s *SearchService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	items := s.catalog.Slot(store.SlotAll)
	if len(items) == 0 {
		remote, err := s.client.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		items = remote
	}

	return rankItems(query, items), nil
}

// FilterLocal matches query against the cached catalog only.
func (s *SearchService) FilterLocal(query string) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return rankItems(query, s.catalog.Slot(store.SlotAll))
}

// rankItems applies fuzzy ranking over item titles.
func rankItems(query string, items []domain.CatalogItem) []SearchResult {
	if len(items) == 0 {
		return nil
	}

	titles := make([]string, len(items))
	byTitle := make(map[string][]int, len(items))
	for i, item := range items {
		titles[i] = item.Title
		byTitle[item.Title] = append(byTitle[item.Title], i)
	}

	matches := fuzzy.RankFindFold(query, titles)
	sort.Sort(matches)

	seen := make(map[int]bool, len(matches))
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		for _, idx := range byTitle[m.Target] {
			if seen[idx] {
				continue
			}
			seen[idx] = true
			results = append(results, SearchResult{Item: items[idx], Rank: m.Distance})
		}
	}
	return results
}
