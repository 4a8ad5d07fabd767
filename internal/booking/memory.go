package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// ItemSource and UserSource refresh the item and booker names of stored bookings.
type ItemSource interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

type UserSource interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type memoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]Booking
	items    ItemSource
	users    UserSource
}

// NewMemoryRepository creates a Repository kept in process memory.
// Locking methods are no-ops; pair it with db.LocalTransactor.
func NewMemoryRepository(items ItemSource, users UserSource) Repository {
	return &memoryRepository{
		bookings: make(map[string]Booking),
		items:    items,
		users:    users,
	}
}

func (r *memoryRepository) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b.ID = uuid.NewString()
	b.CreatedAt = time.Now().UTC()
	r.bookings[b.ID] = *b
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	b, ok := r.bookings[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	r.refresh(ctx, &b)
	return &b, nil
}

func (r *memoryRepository) GetByIDForUpdate(ctx context.Context, id string) (*Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.Status = status
	r.bookings[id] = b
	return nil
}

func (r *memoryRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	return r.collect(ctx, filter.Matches), nil
}

func (r *memoryRepository) LockItem(context.Context, string) error {
	return nil
}

func (r *memoryRepository) FindOverlapping(ctx context.Context, itemID string, start, end time.Time) ([]*Booking, error) {
	return r.collect(ctx, func(b *Booking) bool {
		return b.ItemID == itemID && b.Overlaps(start, end)
	}), nil
}

func (r *memoryRepository) AdjacentApproved(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, *item.BookingRef, error) {
	var last, next *Booking
	for _, b := range r.collect(ctx, func(b *Booking) bool {
		return b.ItemID == itemID && b.Status == StatusApproved
	}) {
		if b.End.Before(now) && (last == nil || b.End.After(last.End)) {
			last = b
		}
		if b.Start.After(now) && (next == nil || b.Start.Before(next.Start)) {
			next = b
		}
	}
	return toRef(last), toRef(next), nil
}

func (r *memoryRepository) HasFinishedApproved(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	found := r.collect(ctx, func(b *Booking) bool {
		return b.BookerID == bookerID && b.ItemID == itemID && b.Status == StatusApproved && b.End.Before(now)
	})
	return len(found) > 0, nil
}

// collect returns matching bookings ordered by start.
func (r *memoryRepository) collect(ctx context.Context, keep func(*Booking) bool) []*Booking {
	r.mu.RLock()
	var out []*Booking
	for _, b := range r.bookings {
		b := b
		if keep(&b) {
			out = append(out, &b)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	for _, b := range out {
		r.refresh(ctx, b)
	}
	return out
}

// refresh reloads display names. The stored copy is kept when a lookup fails.
func (r *memoryRepository) refresh(ctx context.Context, b *Booking) {
	if it, err := r.items.GetByID(ctx, b.ItemID); err == nil {
		b.ItemName = it.Name
	}
	if u, err := r.users.GetByID(ctx, b.BookerID); err == nil {
		b.BookerName = u.Name
	}
}

func toRef(b *Booking) *item.BookingRef {
	if b == nil {
		return nil
	}
	return &item.BookingRef{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}
