package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/hwtrack/internal/domain"
)

// MemoryIndex holds the live asset collection in insertion order, with an
// id lookup table. Returned assets are copies; callers cannot mutate the
// index through them.
type MemoryIndex struct {
	mu         sync.RWMutex
	assets     []domain.Asset
	positions  map[string]int // ID -> index in assets
	lastReload time.Time
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		positions: make(map[string]int),
	}
}

// Replace swaps the whole collection, keeping the given order.
func (idx *MemoryIndex) Replace(assets []domain.Asset) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.assets = make([]domain.Asset, 0, len(assets))
	idx.positions = make(map[string]int, len(assets))
	for _, a := range assets {
		idx.positions[a.ID] = len(idx.assets)
		idx.assets = append(idx.assets, a.Clone())
	}
	idx.lastReload = time.Now()
}

// All returns a snapshot of every asset, in order.
func (idx *MemoryIndex) All() []domain.Asset {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]domain.Asset, 0, len(idx.assets))
	for _, a := range idx.assets {
		out = append(out, a.Clone())
	}
	return out
}

// Get retrieves an asset by ID.
func (idx *MemoryIndex) Get(id string) (domain.Asset, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	pos, ok := idx.positions[id]
	if !ok {
		return domain.Asset{}, false
	}
	return idx.assets[pos].Clone(), true
}

// Append adds an asset at the end of the collection. An asset whose ID is
// already present replaces the existing entry in place instead.
func (idx *MemoryIndex) Append(a domain.Asset) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if pos, ok := idx.positions[a.ID]; ok {
		idx.assets[pos] = a.Clone()
		return
	}
	idx.positions[a.ID] = len(idx.assets)
	idx.assets = append(idx.assets, a.Clone())
}

// Set replaces an existing asset, keeping its position.
// It reports false when the ID is unknown.
func (idx *MemoryIndex) Set(a domain.Asset) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.positions[a.ID]
	if !ok {
		return false
	}
	idx.assets[pos] = a.Clone()
	return true
}

// Delete removes an asset and reports whether it was present.
func (idx *MemoryIndex) Delete(id string) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.positions[id]
	if !ok {
		return false
	}
	idx.assets = append(idx.assets[:pos], idx.assets[pos+1:]...)
	delete(idx.positions, id)
	for i := pos; i < len(idx.assets); i++ {
		idx.positions[idx.assets[i].ID] = i
	}
	return true
}

// Count returns the number of assets in the index.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.assets)
}

// GetLastReload returns when the collection was last replaced wholesale.
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
