package itemrequest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu       sync.RWMutex
	requests map[string]ItemRequest
	order    []string // insertion order
}

// NewMemoryRepository creates a Repository kept in process memory.
func NewMemoryRepository() Repository {
	return &memoryRepository{requests: make(map[string]ItemRequest)}
}

func (r *memoryRepository) Create(_ context.Context, req *ItemRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req.ID = uuid.NewString()
	req.CreatedAt = time.Now().UTC()
	r.requests[req.ID] = *req
	r.order = append(r.order, req.ID)
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*ItemRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &req, nil
}

func (r *memoryRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.requests[id]
	return ok, nil
}

func (r *memoryRepository) ListByRequestor(_ context.Context, requestorID string) ([]*ItemRequest, error) {
	return r.filter(func(req ItemRequest) bool { return req.RequestorID == requestorID }), nil
}

func (r *memoryRepository) ListExcept(_ context.Context, userID string) ([]*ItemRequest, error) {
	return r.filter(func(req ItemRequest) bool { return req.RequestorID != userID }), nil
}

func (r *memoryRepository) filter(keep func(ItemRequest) bool) []*ItemRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*ItemRequest
	for i := len(r.order) - 1; i >= 0; i-- {
		req := r.requests[r.order[i]]
		if keep(req) {
			out = append(out, &req)
		}
	}
	return out
}
