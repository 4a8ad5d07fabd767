package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
)

type Repository interface {
	item.BookingHistory

	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// GetByIDForUpdate is GetByID holding a row lock until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	List(ctx context.Context, filter Filter) ([]*Booking, error)

	// LockItem serializes booking writes on itemID until the transaction ends.
	LockItem(ctx context.Context, itemID string) error
	// FindOverlapping returns every booking of itemID, in any status,
	// whose interval intersects [start, end] with both ends inclusive.
	FindOverlapping(ctx context.Context, itemID string, start, end time.Time) ([]*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func selectBookings() squirrel.SelectBuilder {
	return psql.Select(
		"b.id", "b.item_id", "i.name", "i.owner_id", "b.booker_id", "u.name",
		"b.start_time", "b.end_time", "b.status", "b.created_at",
	).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.OwnerID, &b.BookerID, &b.BookerName,
		&b.Start, &b.End, &b.Status, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return r.get(ctx, selectBookings().Where(squirrel.Eq{"b.id": id}))
}

func (r *pgxRepository) GetByIDForUpdate(ctx context.Context, id string) (*Booking, error) {
	return r.get(ctx, selectBookings().Where(squirrel.Eq{"b.id": id}).Suffix("FOR UPDATE OF b"))
}

func (r *pgxRepository) get(ctx context.Context, b squirrel.SelectBuilder) (*Booking, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	booking, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return booking, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	query := selectBookings()

	switch filter.Role {
	case RoleBooker:
		query = query.Where(squirrel.Eq{"b.booker_id": filter.PersonID})
	case RoleOwner:
		query = query.Where(squirrel.Eq{"i.owner_id": filter.PersonID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}

	switch filter.Window {
	case WindowCurrent:
		query = query.
			Where(squirrel.LtOrEq{"b.start_time": filter.Now}).
			Where(squirrel.GtOrEq{"b.end_time": filter.Now})
	case WindowPast:
		query = query.Where(squirrel.Lt{"b.end_time": filter.Now})
	case WindowFuture:
		query = query.Where(squirrel.Gt{"b.start_time": filter.Now})
	}

	return r.list(ctx, query.OrderBy("b.start_time ASC"))
}

func (r *pgxRepository) list(ctx context.Context, b squirrel.SelectBuilder) ([]*Booking, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) LockItem(ctx context.Context, itemID string) error {
	if _, err := db.Conn(ctx, r.pool).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, itemID); err != nil {
		return fmt.Errorf("lock item bookings failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) FindOverlapping(ctx context.Context, itemID string, start, end time.Time) ([]*Booking, error) {
	// Closed intervals: existing.start <= end AND existing.end >= start.
	return r.list(ctx, selectBookings().
		Where(squirrel.Eq{"b.item_id": itemID}).
		Where(squirrel.LtOrEq{"b.start_time": end}).
		Where(squirrel.GtOrEq{"b.end_time": start}).
		OrderBy("b.start_time ASC"))
}

func (r *pgxRepository) AdjacentApproved(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, *item.BookingRef, error) {
	const lastQuery = `
		SELECT id, booker_id, start_time, end_time
		FROM public.bookings
		WHERE item_id = $1 AND status = 'APPROVED' AND end_time < $2
		ORDER BY end_time DESC
		LIMIT 1
	`
	const nextQuery = `
		SELECT id, booker_id, start_time, end_time
		FROM public.bookings
		WHERE item_id = $1 AND status = 'APPROVED' AND start_time > $2
		ORDER BY start_time ASC
		LIMIT 1
	`

	last, err := r.bookingRef(ctx, lastQuery, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	next, err := r.bookingRef(ctx, nextQuery, itemID, now)
	if err != nil {
		return nil, nil, err
	}
	return last, next, nil
}

// bookingRef returns nil without error when the query matches nothing.
func (r *pgxRepository) bookingRef(ctx context.Context, query string, args ...any) (*item.BookingRef, error) {
	var ref item.BookingRef
	err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&ref.ID, &ref.BookerID, &ref.Start, &ref.End)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjacent booking failed: %w", err)
	}
	return &ref, nil
}

func (r *pgxRepository) HasFinishedApproved(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM public.bookings
			WHERE booker_id = $1 AND item_id = $2 AND status = 'APPROVED' AND end_time < $3
		)
	`

	var exists bool
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, bookerID, itemID, now).Scan(&exists); err != nil {
		return false, fmt.Errorf("check finished booking failed: %w", err)
	}
	return exists, nil
}
