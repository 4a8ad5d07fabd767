package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserLookup resolves bookers, owners and viewers.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// ItemLookup resolves the item a booking is made for.
type ItemLookup interface {
	GetByID(ctx context.Context, id string) (*item.Item, error)
}

type CreateRequest struct {
	ItemID string
	Start  time.Time
	End    time.Time
}

type Service interface {
	Create(ctx context.Context, bookerID string, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, ownerID, bookingID string, approved bool) (*Booking, error)
	GetByID(ctx context.Context, userID, bookingID string) (*Booking, error)
	ListByBooker(ctx context.Context, bookerID, state string) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID, state string) ([]*Booking, error)
}

type service struct {
	repo  Repository
	tx    db.Transactor
	users UserLookup
	items ItemLookup
	now   func() time.Time
	log   zerolog.Logger
}

func NewService(repo Repository, tx db.Transactor, users UserLookup, items ItemLookup, log zerolog.Logger) Service {
	return &service{
		repo:  repo,
		tx:    tx,
		users: users,
		items: items,
		now:   time.Now,
		log:   log.With().Str("component", "booking").Logger(),
	}
}

func (s *service) Create(ctx context.Context, bookerID string, req CreateRequest) (*Booking, error) {
	// 1. Booker and item must exist
	booker, err := s.user(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, item.NotFoundError(req.ItemID)
		}
		return nil, err
	}

	// 2. Item rules
	if !it.Available {
		return nil, s.reject("item_unavailable", apperror.Detail(ErrItemUnavailable, "item with ID %s is not available for booking", it.ID))
	}
	if it.OwnerID == booker.ID {
		return nil, s.reject("own_item", apperror.Detail(ErrOwnItem, "user %s owns item %s and cannot book it", booker.ID, it.ID))
	}

	// 3. Time range
	if !req.End.After(req.Start) {
		return nil, s.reject("invalid_range", apperror.Detail(ErrInvalidTimeRange,
			"end %s must be after start %s", req.End.Format(time.RFC3339), req.Start.Format(time.RFC3339)))
	}

	b := &Booking{
		ItemID:     it.ID,
		ItemName:   it.Name,
		OwnerID:    it.OwnerID,
		BookerID:   booker.ID,
		BookerName: booker.Name,
		Start:      req.Start,
		End:        req.End,
		Status:     StatusWaiting,
	}

	// 4. Overlap check and insert under the item lock
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.LockItem(ctx, it.ID); err != nil {
			return err
		}

		overlapping, err := s.repo.FindOverlapping(ctx, it.ID, req.Start, req.End)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return s.reject("overlap", apperror.Detail(ErrTimeConflict,
				"time slot occupied: item %s is already booked by booking %s", it.ID, overlapping[0].ID))
		}

		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCreated()
	s.log.Info().Str("booking_id", b.ID).Str("item_id", b.ItemID).Str("booker_id", b.BookerID).Msg("booking created")
	return b, nil
}

func (s *service) Approve(ctx context.Context, ownerID, bookingID string, approved bool) (*Booking, error) {
	var b *Booking
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.repo.GetByIDForUpdate(ctx, bookingID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return NotFoundError(bookingID)
			}
			return err
		}

		if b.OwnerID != ownerID {
			return s.reject("not_owner", apperror.Detail(ErrNotItemOwner,
				"user %s is not the owner of item %s", ownerID, b.ItemID))
		}
		if b.Status != StatusWaiting {
			return s.reject("already_decided", apperror.Detail(ErrAlreadyDecided,
				"booking %s is already %s", b.ID, b.Status))
		}

		status := StatusRejected
		if approved {
			status = StatusApproved
		}
		if err := s.repo.UpdateStatus(ctx, b.ID, status); err != nil {
			return err
		}
		b.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingDecision(string(b.Status))
	s.log.Info().Str("booking_id", b.ID).Str("status", string(b.Status)).Msg("booking decided")
	return b, nil
}

func (s *service) GetByID(ctx context.Context, userID, bookingID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError(bookingID)
		}
		return nil, err
	}

	if userID != b.BookerID && userID != b.OwnerID {
		return nil, apperror.Detail(ErrAccessDenied, "user %s may not view booking %s", userID, b.ID)
	}
	return b, nil
}

func (s *service) ListByBooker(ctx context.Context, bookerID, state string) ([]*Booking, error) {
	return s.list(ctx, RoleBooker, bookerID, state)
}

func (s *service) ListByOwner(ctx context.Context, ownerID, state string) ([]*Booking, error) {
	return s.list(ctx, RoleOwner, ownerID, state)
}

func (s *service) list(ctx context.Context, role Role, personID, state string) ([]*Booking, error) {
	if _, err := s.user(ctx, personID); err != nil {
		return nil, err
	}

	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}

	bookings, err := s.repo.List(ctx, st.filter(role, personID, s.now()))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Start.Before(bookings[j].Start)
	})
	if bookings == nil {
		bookings = []*Booking{}
	}
	return bookings, nil
}

func (s *service) user(ctx context.Context, id string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.NotFoundError(id)
		}
		return nil, err
	}
	return u, nil
}

// reject records a business-rule refusal and returns err.
func (s *service) reject(reason string, err error) error {
	metrics.RecordBookingRejection(reason)
	s.log.Warn().Str("reason", reason).Msg(err.Error())
	return err
}
