package item

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu       sync.RWMutex
	items    map[string]Item
	order    []string // insertion order
	comments []Comment
}

// NewMemoryRepository creates a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{items: make(map[string]Item)}
}

func (r *memoryRepository) Create(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	it.ID = uuid.NewString()
	it.CreatedAt = time.Now().UTC()
	r.items[it.ID] = *it
	r.order = append(r.order, it.ID)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	it, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &it, nil
}

func (r *memoryRepository) Update(_ context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[it.ID]; !ok {
		return ErrNotFound
	}
	r.items[it.ID] = *it
	return nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*Item, error) {
	return r.filter(func(it Item) bool { return it.OwnerID == ownerID }), nil
}

func (r *memoryRepository) Search(_ context.Context, text string) ([]*Item, error) {
	needle := strings.ToLower(text)
	return r.filter(func(it Item) bool {
		return it.Available && (strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle))
	}), nil
}

func (r *memoryRepository) ListByRequestIDs(_ context.Context, requestIDs []string) ([]*Item, error) {
	wanted := make(map[string]bool, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = true
	}
	return r.filter(func(it Item) bool { return it.RequestID != nil && wanted[*it.RequestID] }), nil
}

func (r *memoryRepository) filter(keep func(Item) bool) []*Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Item
	for _, id := range r.order {
		it := r.items[id]
		if keep(it) {
			out = append(out, &it)
		}
	}
	return out
}

func (r *memoryRepository) CreateComment(_ context.Context, cm *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cm.ID = uuid.NewString()
	cm.CreatedAt = time.Now().UTC()
	r.comments = append(r.comments, *cm)
	return nil
}

func (r *memoryRepository) ListComments(_ context.Context, itemIDs []string) ([]*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	var out []*Comment
	for _, cm := range r.comments {
		if wanted[cm.ItemID] {
			cm := cm
			out = append(out, &cm)
		}
	}
	return out, nil
}
