package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flicker/internal/domain"
	"flicker/internal/log"
	"flicker/internal/store"
)

// fakeCatalogClient serves canned lists and lets tests gate completion
// order of concurrent fetches.
type fakeCatalogClient struct {
	mu       sync.Mutex
	all      []domain.CatalogItem
	trending []domain.CatalogItem
	popular  []domain.CatalogItem
	fresh    []domain.CatalogItem
	cats     []domain.Category
	err      error

	// When set, a fetch for the named slot blocks until released.
	gates map[string]chan struct{}
}

func (f *fakeCatalogClient) wait(slot string) {
	f.mu.Lock()
	gate := f.gates[slot]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func (f *fakeCatalogClient) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	f.wait(store.SlotAll)
	return f.all, f.err
}
func (f *fakeCatalogClient) Trending(ctx context.Context) ([]domain.CatalogItem, error) {
	f.wait(store.SlotTrending)
	return f.trending, f.err
}
func (f *fakeCatalogClient) Popular(ctx context.Context) ([]domain.CatalogItem, error) {
	f.wait(store.SlotPopular)
	return f.popular, f.err
}
func (f *fakeCatalogClient) NewReleases(ctx context.Context) ([]domain.CatalogItem, error) {
	f.wait(store.SlotNew)
	return f.fresh, f.err
}
func (f *fakeCatalogClient) Categories(ctx context.Context) ([]domain.Category, error) {
	return f.cats, f.err
}
func (f *fakeCatalogClient) GetItem(ctx context.Context, id string) (domain.CatalogItem, error) {
	for _, item := range f.all {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.CatalogItem{}, domain.ErrNotFound
}

func items(ids ...string) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.CatalogItem{ID: id, Title: "Title " + id})
	}
	return out
}

func newCatalogService(client *fakeCatalogClient) *CatalogService {
	return NewCatalogService(client, nil, log.NullLogger())
}

func TestRefreshSlotReplacesOnlyItsSlot(t *testing.T) {
	client := &fakeCatalogClient{
		all:      items("a1", "a2"),
		trending: items("t1"),
	}
	svc := newCatalogService(client)

	_, err := svc.RefreshSlot(context.Background(), store.SlotAll)
	require.NoError(t, err)

	assert.Len(t, svc.Slot(store.SlotAll), 2)
	assert.Empty(t, svc.Slot(store.SlotTrending), "trending untouched by all refresh")
}

func TestOutOfOrderCompletion(t *testing.T) {
	// Trending and popular are gated so "new" finishes first; the final
	// state must have all three regardless of completion order.
	client := &fakeCatalogClient{
		trending: items("t1"),
		popular:  items("p1", "p2"),
		fresh:    items("n1"),
		gates: map[string]chan struct{}{
			store.SlotTrending: make(chan struct{}),
			store.SlotPopular:  make(chan struct{}),
		},
	}
	svc := newCatalogService(client)

	var wg sync.WaitGroup
	for _, slot := range []string{store.SlotTrending, store.SlotPopular, store.SlotNew} {
		wg.Add(1)
		go func(slot string) {
			defer wg.Done()
			_, err := svc.RefreshSlot(context.Background(), slot)
			assert.NoError(t, err)
		}(slot)
	}

	// Release the slow fetches in reverse order
	close(client.gates[store.SlotPopular])
	close(client.gates[store.SlotTrending])
	wg.Wait()

	assert.Len(t, svc.Slot(store.SlotTrending), 1)
	assert.Len(t, svc.Slot(store.SlotPopular), 2)
	assert.Len(t, svc.Slot(store.SlotNew), 1)
}

func TestFeaturedDefaultsToFirstOfAll(t *testing.T) {
	client := &fakeCatalogClient{all: items("a1", "a2")}
	svc := newCatalogService(client)

	_, ok := svc.Featured()
	assert.False(t, ok, "no featured item before any fetch")

	_, err := svc.RefreshSlot(context.Background(), store.SlotAll)
	require.NoError(t, err)

	featured, ok := svc.Featured()
	require.True(t, ok)
	assert.Equal(t, "a1", featured.ID)
}

func TestFeaturedAbsentWhenAllEmpty(t *testing.T) {
	client := &fakeCatalogClient{all: nil}
	svc := newCatalogService(client)

	_, err := svc.RefreshSlot(context.Background(), store.SlotAll)
	require.NoError(t, err)

	_, ok := svc.Featured()
	assert.False(t, ok)
}

func TestSlotErrorLeavesOldContents(t *testing.T) {
	client := &fakeCatalogClient{all: items("a1")}
	svc := newCatalogService(client)

	_, err := svc.RefreshSlot(context.Background(), store.SlotAll)
	require.NoError(t, err)

	client.err = domain.ErrNetwork
	_, err = svc.RefreshSlot(context.Background(), store.SlotAll)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Len(t, svc.Slot(store.SlotAll), 1, "failed refresh keeps previous data")
}

func TestSnapshotPrimesSlots(t *testing.T) {
	snapshots, err := store.NewSnapshotStore(t.TempDir(), "http://backend:3000")
	require.NoError(t, err)
	defer snapshots.Close()

	require.NoError(t, snapshots.SaveSlot(store.SlotAll, items("a1")))

	svc := NewCatalogService(&fakeCatalogClient{}, snapshots, log.NullLogger())
	svc.LoadSnapshot()

	assert.Len(t, svc.Slot(store.SlotAll), 1)
	featured, ok := svc.Featured()
	require.True(t, ok)
	assert.Equal(t, "a1", featured.ID)
}

func TestRefreshCategories(t *testing.T) {
	client := &fakeCatalogClient{cats: []domain.Category{{ID: "c1", Name: "Action"}}}
	svc := newCatalogService(client)

	_, err := svc.RefreshCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, svc.Categories(), 1)
	assert.Equal(t, "Action", svc.Categories()[0].Name)
}
