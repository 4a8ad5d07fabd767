package itemrequest

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type fixture struct {
	svc       Service
	items     item.Repository
	requestor *user.User
	other     *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := user.NewService(user.NewMemoryRepository(), zerolog.Nop())
	requestor, err := users.Create(ctx, "Requestor", "requestor@example.com")
	require.NoError(t, err)
	other, err := users.Create(ctx, "Other", "other@example.com")
	require.NoError(t, err)

	items := item.NewMemoryRepository()
	return &fixture{
		svc:       NewService(NewMemoryRepository(), users, items, zerolog.Nop()),
		items:     items,
		requestor: requestor,
		other:     other,
	}
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "3b0d0c8e-5f0e-4c31-9a0e-7f6b1d2c3e44", "a ladder")
	assert.ErrorIs(t, err, user.ErrNotFound)

	_, err = f.svc.Create(ctx, f.requestor.ID, "  ")
	assert.ErrorIs(t, err, ErrDescriptionRequired)

	req, err := f.svc.Create(ctx, f.requestor.ID, "a ladder")
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, f.requestor.ID, req.RequestorID)
}

func TestListsAreNewestFirstWithAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.requestor.ID, "a ladder")
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.requestor.ID, "a tent")
	require.NoError(t, err)

	answer := &item.Item{Name: "Ladder", Description: "3m", Available: true, OwnerID: f.other.ID, RequestID: &first.ID}
	require.NoError(t, f.items.Create(ctx, answer))

	own, err := f.svc.ListOwn(ctx, f.requestor.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, second.ID, own[0].Request.ID)
	assert.Equal(t, first.ID, own[1].Request.ID)
	assert.Empty(t, own[0].Answers)
	require.Len(t, own[1].Answers, 1)
	assert.Equal(t, answer.ID, own[1].Answers[0].ID)

	others, err := f.svc.ListOthers(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Len(t, others, 2)

	others, err = f.svc.ListOthers(ctx, f.requestor.ID)
	require.NoError(t, err)
	assert.Empty(t, others)
}

func TestGetByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req, err := f.svc.Create(ctx, f.requestor.ID, "a ladder")
	require.NoError(t, err)

	v, err := f.svc.GetByID(ctx, f.other.ID, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "a ladder", v.Request.Description)

	_, err = f.svc.GetByID(ctx, f.other.ID, "0d4b9a51-6c0f-4d3a-8b1e-2f3a4b5c6d77")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "0d4b9a51-6c0f-4d3a-8b1e-2f3a4b5c6d77")
}
