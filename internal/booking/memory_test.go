package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAdjacentApproved(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	repo := f.svc.repo

	older := f.book(t, testNow.Add(-10*time.Hour), testNow.Add(-9*time.Hour))
	newer := f.book(t, testNow.Add(-5*time.Hour), testNow.Add(-4*time.Hour))
	soon := f.book(t, testNow.Add(2*time.Hour), testNow.Add(3*time.Hour))
	later := f.book(t, testNow.Add(5*time.Hour), testNow.Add(6*time.Hour))
	waiting := f.book(t, testNow.Add(time.Hour), testNow.Add(90*time.Minute))

	for _, b := range []*Booking{older, newer, soon, later} {
		_, err := f.svc.Approve(ctx, f.owner.ID, b.ID, true)
		require.NoError(t, err)
	}

	last, next, err := repo.AdjacentApproved(ctx, f.item.ID, testNow)
	require.NoError(t, err)
	require.NotNil(t, last)
	require.NotNil(t, next)
	assert.Equal(t, newer.ID, last.ID)
	assert.Equal(t, soon.ID, next.ID)
	assert.NotEqual(t, waiting.ID, next.ID)

	ok, err := repo.HasFinishedApproved(ctx, f.booker.ID, f.item.ID, testNow)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasFinishedApproved(ctx, f.other.ID, f.item.ID, testNow)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRefreshesNames(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.book(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	f.item.Name = "Hammer drill"
	require.NoError(t, f.items.Update(ctx, f.item))

	got, err := f.svc.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", got.ItemName)
}
