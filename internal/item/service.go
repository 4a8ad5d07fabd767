package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserLookup resolves users referenced by items and comments.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequestLookup reports whether an item request exists.
type RequestLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// BookingHistory exposes the approved bookings of an item.
// It is implemented by the booking store.
type BookingHistory interface {
	// AdjacentApproved returns the approved booking that ended last before now
	// and the one that starts first after now. Either may be nil.
	AdjacentApproved(ctx context.Context, itemID string, now time.Time) (last, next *BookingRef, err error)
	// HasFinishedApproved reports whether bookerID holds an approved booking of
	// itemID that ended before now.
	HasFinishedApproved(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error)
}

// CreateRequest holds the fields of a new item.
type CreateRequest struct {
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

// UpdateRequest carries a partial update; nil fields are left unchanged.
type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

// Service defines business logic related to items and comments.
type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error)
	Update(ctx context.Context, ownerID, itemID string, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, viewerID, itemID string) (*View, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*View, error)
	Search(ctx context.Context, text string) ([]*Item, error)
	AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error)
}

type service struct {
	repo     Repository
	users    UserLookup
	requests RequestLookup
	bookings BookingHistory
	now      func() time.Time
	log      zerolog.Logger
}

// NewService creates a new item Service.
func NewService(
	repo Repository,
	users UserLookup,
	requests RequestLookup,
	bookings BookingHistory,
	log zerolog.Logger,
) Service {
	return &service{
		repo:     repo,
		users:    users,
		requests: requests,
		bookings: bookings,
		now:      time.Now,
		log:      log.With().Str("component", "item").Logger(),
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	if req.RequestID != nil {
		ok, err := s.requests.Exists(ctx, *req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("failed to check item request: %w", err)
		}
		if !ok {
			return nil, requestNotFound(*req.RequestID)
		}
	}

	it := &Item{
		Name:        name,
		Description: description,
		Available:   req.Available,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	s.log.Info().Str("item_id", it.ID).Str("owner_id", ownerID).Msg("item created")
	return it, nil
}

func (s *service) Update(ctx context.Context, ownerID, itemID string, req UpdateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	it, err := s.get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	// A foreign item is reported as missing for this owner.
	if it.OwnerID != ownerID {
		return nil, NotFoundError(itemID)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		it.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		it.Description = description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, viewerID, itemID string) (*View, error) {
	it, err := s.get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	views, err := s.views(ctx, viewerID, []*Item{it})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string) ([]*View, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, ownerID, items)
}

func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text)
}

func (s *service) AddComment(ctx context.Context, authorID, itemID, text string) (*Comment, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, itemID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}

	ok, err := s.bookings.HasFinishedApproved(ctx, authorID, itemID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to check booking history: %w", err)
	}
	if !ok {
		s.log.Warn().Str("item_id", itemID).Str("author_id", authorID).Msg("comment rejected")
		return nil, ErrCommentNotAllowed
	}

	cm := &Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   authorID,
		AuthorName: author.Name,
	}
	if err := s.repo.CreateComment(ctx, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

func (s *service) get(ctx context.Context, itemID string) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError(itemID)
		}
		return nil, err
	}
	return it, nil
}

// views attaches comments to every item and, for items owned by viewerID,
// the adjacent approved bookings.
func (s *service) views(ctx context.Context, viewerID string, items []*Item) ([]*View, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	comments, err := s.repo.ListComments(ctx, ids)
	if err != nil {
		return nil, err
	}
	byItem := make(map[string][]*Comment, len(items))
	for _, cm := range comments {
		byItem[cm.ItemID] = append(byItem[cm.ItemID], cm)
	}

	now := s.now()
	views := make([]*View, 0, len(items))
	for _, it := range items {
		v := &View{Item: it, Comments: byItem[it.ID]}
		if viewerID != "" && it.OwnerID == viewerID {
			v.LastBooking, v.NextBooking, err = s.bookings.AdjacentApproved(ctx, it.ID, now)
			if err != nil {
				return nil, fmt.Errorf("failed to load bookings of item %s: %w", it.ID, err)
			}
		}
		views = append(views, v)
	}
	return views, nil
}
