package itemrequest

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// UserLookup resolves the users that own or read requests.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// AnswerLister finds the items that answer a set of requests.
// item.Repository satisfies it.
type AnswerLister interface {
	ListByRequestIDs(ctx context.Context, requestIDs []string) ([]*item.Item, error)
}

// Service defines business logic related to item requests.
type Service interface {
	Create(ctx context.Context, requestorID, description string) (*ItemRequest, error)
	ListOwn(ctx context.Context, requestorID string) ([]*View, error)
	ListOthers(ctx context.Context, userID string) ([]*View, error)
	GetByID(ctx context.Context, userID, requestID string) (*View, error)
}

type service struct {
	repo    Repository
	users   UserLookup
	answers AnswerLister
	log     zerolog.Logger
}

// NewService creates a new item request Service.
func NewService(repo Repository, users UserLookup, answers AnswerLister, log zerolog.Logger) Service {
	return &service{
		repo:    repo,
		users:   users,
		answers: answers,
		log:     log.With().Str("component", "itemrequest").Logger(),
	}
}

func (s *service) Create(ctx context.Context, requestorID, description string) (*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, requestorID); err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	req := &ItemRequest{
		Description: description,
		RequestorID: requestorID,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.log.Info().Str("request_id", req.ID).Str("requestor_id", requestorID).Msg("item request created")
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, requestorID string) ([]*View, error) {
	if _, err := s.users.GetByID(ctx, requestorID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

func (s *service) ListOthers(ctx context.Context, userID string) ([]*View, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	reqs, err := s.repo.ListExcept(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs)
}

func (s *service) GetByID(ctx context.Context, userID, requestID string) (*View, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, NotFoundError(requestID)
		}
		return nil, err
	}

	views, err := s.views(ctx, []*ItemRequest{req})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *service) views(ctx context.Context, reqs []*ItemRequest) ([]*View, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}

	items, err := s.answers.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byRequest := make(map[string][]*item.Item, len(reqs))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}

	views := make([]*View, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, &View{Request: r, Answers: byRequest[r.ID]})
	}
	return views, nil
}
