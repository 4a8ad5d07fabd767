package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/shareit-backend/internal/db"
)

// Repository defines methods for accessing item requests.
type Repository interface {
	Create(ctx context.Context, r *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	Exists(ctx context.Context, id string) (bool, error)
	// ListByRequestor returns requests of requestorID, newest first.
	ListByRequestor(ctx context.Context, requestorID string) ([]*ItemRequest, error)
	// ListExcept returns requests of everybody but userID, newest first.
	ListExcept(ctx context.Context, userID string) ([]*ItemRequest, error)
}

type pgxRequestRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRequestRepository{
		pool: pool,
	}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRequestRepository) Create(ctx context.Context, req *ItemRequest) error {
	const query = `
		INSERT INTO public.item_requests (description, requestor_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, req.Description, req.RequestorID).
		Scan(&req.ID, &req.CreatedAt); err != nil {
		return fmt.Errorf("create item request failed: %w", err)
	}
	return nil
}

func (r *pgxRequestRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	const query = `
		SELECT id, description, requestor_id, created_at
		FROM public.item_requests
		WHERE id = $1
	`

	var req ItemRequest
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).
		Scan(&req.ID, &req.Description, &req.RequestorID, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRequestRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := db.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM public.item_requests WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item request failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRequestRepository) ListByRequestor(ctx context.Context, requestorID string) ([]*ItemRequest, error) {
	return r.list(ctx, squirrel.Eq{"requestor_id": requestorID})
}

func (r *pgxRequestRepository) ListExcept(ctx context.Context, userID string) ([]*ItemRequest, error) {
	return r.list(ctx, squirrel.NotEq{"requestor_id": userID})
}

func (r *pgxRequestRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*ItemRequest, error) {
	query, args, err := psql.Select("id", "description", "requestor_id", "created_at").
		From("public.item_requests").
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item requests query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item requests failed: %w", err)
	}
	defer rows.Close()

	var out []*ItemRequest
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item request failed: %w", err)
		}
		out = append(out, &req)
	}
	return out, rows.Err()
}
