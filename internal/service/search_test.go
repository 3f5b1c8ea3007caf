package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flicker/internal/domain"
	"flicker/internal/log"
	"flicker/internal/store"
)

type fakeSearchClient struct {
	results []domain.CatalogItem
	queries []string
}

func (f *fakeSearchClient) Search(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	f.queries = append(f.queries, query)
	return f.results, nil
}

func catalogWithItems(t *testing.T, titles ...string) *CatalogService {
	t.Helper()
	items := make([]domain.CatalogItem, 0, len(titles))
	for i, title := range titles {
		items = append(items, domain.CatalogItem{ID: string(rune('a' + i)), Title: title})
	}
	client := &fakeCatalogClient{all: items}
	svc := newCatalogService(client)
	_, err := svc.RefreshSlot(context.Background(), store.SlotAll)
	require.NoError(t, err)
	return svc
}

func TestSearchPrefersLocalCache(t *testing.T) {
	catalog := catalogWithItems(t, "Steel Alchemist", "Space Cowboys", "Steel Rain")
	remote := &fakeSearchClient{}
	svc := NewSearchService(remote, catalog, log.NullLogger())

	results, err := svc.Search(context.Background(), "steel")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Empty(t, remote.queries, "cached catalog means no backend call")
}

func TestSearchFallsBackToBackend(t *testing.T) {
	empty := newCatalogService(&fakeCatalogClient{})
	remote := &fakeSearchClient{results: []domain.CatalogItem{{ID: "r1", Title: "Remote Steel"}}}
	svc := NewSearchService(remote, empty, log.NullLogger())

	results, err := svc.Search(context.Background(), "steel")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"steel"}, remote.queries)
}

func TestSearchEmptyQuery(t *testing.T) {
	catalog := catalogWithItems(t, "Anything")
	svc := NewSearchService(&fakeSearchClient{}, catalog, log.NullLogger())

	results, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestFilterLocalRanksCloserMatchesFirst(t *testing.T) {
	catalog := catalogWithItems(t, "Steel Rain Returns", "Steel")
	svc := NewSearchService(&fakeSearchClient{}, catalog, log.NullLogger())

	results := svc.FilterLocal("steel")
	require.Len(t, results, 2)
	assert.Equal(t, "Steel", results[0].Item.Title, "exact-length match ranks first")
}

func TestFilterLocalNoMatch(t *testing.T) {
	catalog := catalogWithItems(t, "Space Cowboys")
	svc := NewSearchService(&fakeSearchClient{}, catalog, log.NullLogger())

	assert.Empty(t, svc.FilterLocal("zzzzzz"))
}
