package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore là in-memory Store cho tests và local dev không cần
// Postgres. Ordering semantics giống PostgresStore: reverse theo
// (EntitySK, PK).
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]Item{}}
}

func memKey(pk, sk string) string { return pk + "\x00" + sk }

func (m *MemoryStore) Get(_ context.Context, pk, sk string) (*Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[memKey(pk, sk)]
	if !ok {
		return nil, nil
	}
	cp := it
	return &cp, nil
}

func (m *MemoryStore) Put(_ context.Context, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[memKey(item.PK, item.SK)] = item
	return nil
}

func (m *MemoryStore) PutIfAbsent(_ context.Context, item Item) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memKey(item.PK, item.SK)
	if _, exists := m.items[key]; exists {
		return false, nil
	}
	m.items[key] = item
	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, pk, sk string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, memKey(pk, sk))
	return nil
}

func (m *MemoryStore) QueryByType(_ context.Context, entityType string, filters map[string]interface{}) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []Item{}
	for _, it := range m.items {
		if it.EntityType == entityType && matchesFilters(it, filters) {
			matched = append(matched, it)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].EntitySK != matched[j].EntitySK {
			return matched[i].EntitySK > matched[j].EntitySK
		}
		return matched[i].PK > matched[j].PK
	})
	return matched, nil
}

func (m *MemoryStore) QueryPrefix(_ context.Context, pk, skPrefix string) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []Item{}
	for _, it := range m.items {
		if it.PK == pk && strings.HasPrefix(it.SK, skPrefix) {
			matched = append(matched, it)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].SK < matched[j].SK })
	return matched, nil
}
