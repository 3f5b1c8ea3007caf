package service

import (
	"context"
	"log/slog"
	"sync"

	"flicker/internal/domain"
	"flicker/internal/store"
)

// catalogClient provides the catalog read operations this service needs
// (consumer-defined interface, implemented by the api client).
type catalogClient interface {
	ListItems(ctx context.Context) ([]domain.CatalogItem, error)
	Trending(ctx context.Context) ([]domain.CatalogItem, error)
	Popular(ctx context.Context) ([]domain.CatalogItem, error)
	NewReleases(ctx context.Context) ([]domain.CatalogItem, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	GetItem(ctx context.Context, id string) (domain.CatalogItem, error)
}

// CatalogService holds the last-fetched catalog lists. Each slot is
// replaced independently and atomically when its fetch resolves; a slow
// trending fetch never blocks the all list from rendering. Slots are also
// snapshotted to disk so a restart renders instantly.
type CatalogService struct {
	client    catalogClient
	snapshots *store.SnapshotStore
	logger    *slog.Logger

	mu         sync.RWMutex
	slots      map[string][]domain.CatalogItem
	categories []domain.Category
}

// NewCatalogService creates a catalog service backed by client and snapshots.
func NewCatalogService(client catalogClient, snapshots *store.SnapshotStore, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		client:    client,
		snapshots: snapshots,
		logger:    logger,
		slots:     make(map[string][]domain.CatalogItem),
	}
}

// LoadSnapshot primes the in-memory slots from the on-disk snapshot.
func (s *CatalogService) LoadSnapshot() {
	if s.snapshots == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range []string{store.SlotAll, store.SlotTrending, store.SlotPopular, store.SlotNew} {
		if items, ok := s.snapshots.Slot(slot); ok {
			s.slots[slot] = items
		}
	}
	if categories, ok := s.snapshots.Categories(); ok {
		s.categories = categories
	}
}

// RefreshSlot fetches one catalog list and replaces its slot. Callers run
// one RefreshSlot per slot concurrently; completion order is immaterial
// because each write touches only its own slot.
func (s *CatalogService) RefreshSlot(ctx context.Context, slot string) ([]domain.CatalogItem, error) {
	var (
		items []domain.CatalogItem
		err   error
	)
	switch slot {
	case store.SlotAll:
		items, err = s.client.ListItems(ctx)
	case store.SlotTrending:
		items, err = s.client.Trending(ctx)
	case store.SlotPopular:
		items, err = s.client.Popular(ctx)
	case store.SlotNew:
		items, err = s.client.NewReleases(ctx)
	default:
		s.logger.Warn("unknown catalog slot", "slot", slot)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.slots[slot] = items
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.SaveSlot(slot, items); err != nil {
			s.logger.Warn("failed to snapshot catalog slot", "slot", slot, "error", err)
		}
	}
	return items, nil
}

// RefreshCategories fetches and replaces the category list.
func (s *CatalogService) RefreshCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.client.Categories(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.SaveCategories(categories); err != nil {
			s.logger.Warn("failed to snapshot categories", "error", err)
		}
	}
	return categories, nil
}

// Slot returns the current contents of one catalog list.
func (s *CatalogService) Slot(slot string) []domain.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[slot]
}

// Categories returns the current category list.
func (s *CatalogService) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// Featured returns the deterministic default featured item: the first
// entry of the all list. ok is false while that list is empty.
func (s *CatalogService) Featured() (domain.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.slots[store.SlotAll]
	if len(all) == 0 {
		return domain.CatalogItem{}, false
	}
	return all[0], true
}

// Item fetches one item with full season/episode detail.
func (s *CatalogService) Item(ctx context.Context, id string) (domain.CatalogItem, error) {
	return s.client.GetItem(ctx, id)
}
