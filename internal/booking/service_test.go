package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/shareit-backend/internal/db"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetByIDForUpdate(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	args := m.Called(ctx, filter)
	bookings, _ := args.Get(0).([]*Booking)
	return bookings, args.Error(1)
}

func (m *MockRepository) LockItem(ctx context.Context, itemID string) error {
	return m.Called(ctx, itemID).Error(0)
}

func (m *MockRepository) FindOverlapping(ctx context.Context, itemID string, start, end time.Time) ([]*Booking, error) {
	args := m.Called(ctx, itemID, start, end)
	bookings, _ := args.Get(0).([]*Booking)
	return bookings, args.Error(1)
}

func (m *MockRepository) AdjacentApproved(ctx context.Context, itemID string, now time.Time) (*item.BookingRef, *item.BookingRef, error) {
	args := m.Called(ctx, itemID, now)
	last, _ := args.Get(0).(*item.BookingRef)
	next, _ := args.Get(1).(*item.BookingRef)
	return last, next, args.Error(2)
}

func (m *MockRepository) HasFinishedApproved(ctx context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	args := m.Called(ctx, bookerID, itemID, now)
	return args.Bool(0), args.Error(1)
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc    *service
	users  user.Repository
	items  item.Repository
	owner  *user.User
	booker *user.User
	other  *user.User
	item   *item.Item
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	users := user.NewMemoryRepository()
	items := item.NewMemoryRepository()

	f := &fixture{users: users, items: items}
	f.owner = f.addUser(t, "Owner", "owner@example.com")
	f.booker = f.addUser(t, "Booker", "booker@example.com")
	f.other = f.addUser(t, "Other", "other@example.com")

	f.item = &item.Item{Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: f.owner.ID}
	require.NoError(t, items.Create(ctx, f.item))

	repo := NewMemoryRepository(items, users)
	f.svc = newService(repo, db.NewLocalTransactor(), users, items)
	return f
}

func newService(repo Repository, tx db.Transactor, users UserLookup, items ItemLookup) *service {
	svc := NewService(repo, tx, users, items, zerolog.Nop()).(*service)
	svc.now = func() time.Time { return testNow }
	return svc
}

func (f *fixture) addUser(t *testing.T, name, email string) *user.User {
	t.Helper()
	u := &user.User{Name: name, Email: email}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) book(t *testing.T, start, end time.Time) *Booking {
	t.Helper()
	b, err := f.svc.Create(context.Background(), f.booker.ID, CreateRequest{ItemID: f.item.ID, Start: start, End: end})
	require.NoError(t, err)
	return b
}

func requireKind(t *testing.T, want apperror.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, want, apperror.KindOf(err), "error: %v", err)
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	start := testNow.Add(time.Hour)
	end := testNow.Add(2 * time.Hour)

	t.Run("created as waiting", func(t *testing.T) {
		f := newFixture(t)

		b, err := f.svc.Create(ctx, f.booker.ID, CreateRequest{ItemID: f.item.ID, Start: start, End: end})
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, StatusWaiting, b.Status)
		assert.Equal(t, f.item.ID, b.ItemID)
		assert.Equal(t, "Drill", b.ItemName)
		assert.Equal(t, f.booker.ID, b.BookerID)
		assert.Equal(t, "Booker", b.BookerName)
	})

	t.Run("unknown booker", func(t *testing.T) {
		f := newFixture(t)
		missing := "c0ffee00-0000-4000-8000-000000000001"

		_, err := f.svc.Create(ctx, missing, CreateRequest{ItemID: f.item.ID, Start: start, End: end})
		requireKind(t, apperror.KindNotFound, err)
		assert.ErrorIs(t, err, user.ErrNotFound)
		assert.Contains(t, err.Error(), missing)
	})

	t.Run("unknown item", func(t *testing.T) {
		f := newFixture(t)
		missing := "c0ffee00-0000-4000-8000-000000000002"

		_, err := f.svc.Create(ctx, f.booker.ID, CreateRequest{ItemID: missing, Start: start, End: end})
		requireKind(t, apperror.KindNotFound, err)
		assert.ErrorIs(t, err, item.ErrNotFound)
		assert.Contains(t, err.Error(), missing)
	})

	t.Run("owner books own item", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, f.owner.ID, CreateRequest{ItemID: f.item.ID, Start: start, End: end})
		requireKind(t, apperror.KindValidation, err)
		assert.ErrorIs(t, err, ErrOwnItem)
	})
}

func TestCreateUnavailableItemNeverTouchesStore(t *testing.T) {
	f := newFixture(t)
	f.item.Available = false
	require.NoError(t, f.items.Update(context.Background(), f.item))

	repo := &MockRepository{}
	svc := newService(repo, db.NewLocalTransactor(), f.users, f.items)

	_, err := svc.Create(context.Background(), f.booker.ID, CreateRequest{
		ItemID: f.item.ID,
		Start:  testNow.Add(time.Hour),
		End:    testNow.Add(2 * time.Hour),
	})
	requireKind(t, apperror.KindValidation, err)
	assert.ErrorIs(t, err, ErrItemUnavailable)
	repo.AssertNotCalled(t, "LockItem", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "FindOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateRejectsNonChronologicalRange(t *testing.T) {
	start := testNow.Add(time.Hour)

	cases := []struct {
		name string
		end  time.Time
	}{
		{name: "end equals start", end: start},
		{name: "end before start", end: start.Add(-time.Minute)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.Create(context.Background(), f.booker.ID, CreateRequest{ItemID: f.item.ID, Start: start, End: tc.end})
			requireKind(t, apperror.KindValidation, err)
			assert.ErrorIs(t, err, ErrInvalidTimeRange)
		})
	}
}

func TestCreateOverlap(t *testing.T) {
	ctx := context.Background()
	s1 := testNow.Add(time.Hour)
	e1 := testNow.Add(3 * time.Hour)

	cases := []struct {
		name     string
		start    time.Time
		end      time.Time
		occupied bool
	}{
		{name: "same interval", start: s1, end: e1, occupied: true},
		{name: "inside", start: s1.Add(time.Minute), end: e1.Add(-time.Minute), occupied: true},
		{name: "covers", start: s1.Add(-time.Hour), end: e1.Add(time.Hour), occupied: true},
		{name: "overlaps start", start: s1.Add(-time.Hour), end: s1.Add(time.Minute), occupied: true},
		{name: "starts exactly at existing end", start: e1, end: e1.Add(time.Hour), occupied: true},
		{name: "ends exactly at existing start", start: s1.Add(-time.Hour), end: s1, occupied: true},
		{name: "strictly after", start: e1.Add(time.Nanosecond), end: e1.Add(time.Hour), occupied: false},
		{name: "strictly before", start: s1.Add(-2 * time.Hour), end: s1.Add(-time.Nanosecond), occupied: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.book(t, s1, e1)

			_, err := f.svc.Create(ctx, f.other.ID, CreateRequest{ItemID: f.item.ID, Start: tc.start, End: tc.end})
			if tc.occupied {
				requireKind(t, apperror.KindValidation, err)
				assert.ErrorIs(t, err, ErrTimeConflict)
				assert.Contains(t, err.Error(), "occupied")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateOverlapIgnoresStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	start := testNow.Add(time.Hour)
	end := testNow.Add(2 * time.Hour)

	b := f.book(t, start, end)
	_, err := f.svc.Approve(ctx, f.owner.ID, b.ID, false)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.other.ID, CreateRequest{ItemID: f.item.ID, Start: start, End: end})
	assert.ErrorIs(t, err, ErrTimeConflict)
}

func TestCreateConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	start := testNow.Add(time.Hour)
	end := testNow.Add(2 * time.Hour)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(context.Background(), f.booker.ID, CreateRequest{ItemID: f.item.ID, Start: start, End: end})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approve", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

		got, err := f.svc.Approve(ctx, f.owner.ID, b.ID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)

		stored, err := f.svc.GetByID(ctx, f.booker.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, stored.Status)
	})

	t.Run("reject", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

		got, err := f.svc.Approve(ctx, f.owner.ID, b.ID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, got.Status)
	})

	t.Run("only owner decides", func(t *testing.T) {
		f := newFixture(t)
		b := f.book(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

		for _, caller := range []string{f.booker.ID, f.other.ID} {
			_, err := f.svc.Approve(ctx, caller, b.ID, true)
			requireKind(t, apperror.KindValidation, err)
			assert.ErrorIs(t, err, ErrNotItemOwner)
		}

		stored, err := f.svc.GetByID(ctx, f.owner.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusWaiting, stored.Status)
	})

	t.Run("decided bookings are terminal", func(t *testing.T) {
		for _, first := range []bool{true, false} {
			f := newFixture(t)
			b := f.book(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

			_, err := f.svc.Approve(ctx, f.owner.ID, b.ID, first)
			require.NoError(t, err)

			for _, second := range []bool{true, false} {
				_, err := f.svc.Approve(ctx, f.owner.ID, b.ID, second)
				requireKind(t, apperror.KindValidation, err)
				assert.ErrorIs(t, err, ErrAlreadyDecided)
			}
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		missing := "c0ffee00-0000-4000-8000-000000000003"

		_, err := f.svc.Approve(ctx, f.owner.ID, missing, true)
		requireKind(t, apperror.KindNotFound, err)
		assert.Contains(t, err.Error(), missing)
	})
}

func TestGetByIDVisibility(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b := f.book(t, testNow.Add(time.Hour), testNow.Add(2*time.Hour))

	_, err := f.svc.GetByID(ctx, f.booker.ID, b.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, f.owner.ID, b.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, f.other.ID, b.ID)
	requireKind(t, apperror.KindValidation, err)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, f.booker.ID, "c0ffee00-0000-4000-8000-000000000004")
	requireKind(t, apperror.KindNotFound, err)
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	f := newFixture(t)
	start := testNow.Add(24 * time.Hour)
	end := testNow.Add(26 * time.Hour)

	created := f.book(t, start, end)
	got, err := f.svc.GetByID(context.Background(), f.booker.ID, created.ID)
	require.NoError(t, err)

	assert.True(t, start.Equal(got.Start))
	assert.True(t, end.Equal(got.End))
	assert.Equal(t, f.item.ID, got.ItemID)
	assert.Equal(t, f.booker.ID, got.BookerID)
	assert.Equal(t, StatusWaiting, got.Status)
}

func TestListUnknownState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, state := range []string{"BOGUS", "all", "Waiting", ""} {
		_, err := f.svc.ListByBooker(ctx, f.booker.ID, state)
		requireKind(t, apperror.KindInvalidArgument, err)

		_, err = f.svc.ListByOwner(ctx, f.owner.ID, state)
		requireKind(t, apperror.KindInvalidArgument, err)
	}

	_, err := f.svc.ListByBooker(ctx, f.booker.ID, "BOGUS")
	assert.EqualError(t, err, "Unknown state: BOGUS")
}

func TestListUnknownPerson(t *testing.T) {
	f := newFixture(t)
	missing := "c0ffee00-0000-4000-8000-000000000005"

	_, err := f.svc.ListByBooker(context.Background(), missing, "ALL")
	requireKind(t, apperror.KindNotFound, err)

	_, err = f.svc.ListByOwner(context.Background(), missing, "BOGUS")
	requireKind(t, apperror.KindNotFound, err)
}

func TestApproveScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	b, err := f.svc.Create(ctx, f.booker.ID, CreateRequest{
		ItemID: f.item.ID,
		Start:  testNow.Add(time.Hour),
		End:    testNow.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusWaiting, b.Status)

	waiting, err := f.svc.ListByOwner(ctx, f.owner.ID, "WAITING")
	require.NoError(t, err)
	require.Len(t, waiting, 1)

	approved, err := f.svc.Approve(ctx, f.owner.ID, b.ID, true)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = f.svc.Approve(ctx, f.booker.ID, b.ID, true)
	requireKind(t, apperror.KindValidation, err)

	waiting, err = f.svc.ListByOwner(ctx, f.owner.ID, "WAITING")
	require.NoError(t, err)
	assert.Empty(t, waiting)

	all, err := f.svc.ListByOwner(ctx, f.owner.ID, "ALL")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, b.ID, all[0].ID)
}

func TestListTimeStates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// Created out of order so sorting is observable.
	future := f.book(t, testNow.Add(2*time.Hour), testNow.Add(3*time.Hour))
	past := f.book(t, testNow.Add(-3*time.Hour), testNow.Add(-2*time.Hour))
	current := f.book(t, testNow.Add(-time.Hour), testNow.Add(time.Hour))

	ids := func(bs []*Booking) []string {
		out := make([]string, 0, len(bs))
		for _, b := range bs {
			out = append(out, b.ID)
		}
		return out
	}

	lists := map[string]func(state string) ([]*Booking, error){
		"booker": func(state string) ([]*Booking, error) { return f.svc.ListByBooker(ctx, f.booker.ID, state) },
		"owner":  func(state string) ([]*Booking, error) { return f.svc.ListByOwner(ctx, f.owner.ID, state) },
	}

	for name, list := range lists {
		t.Run(name, func(t *testing.T) {
			got, err := list("PAST")
			require.NoError(t, err)
			assert.Equal(t, []string{past.ID}, ids(got))

			got, err = list("CURRENT")
			require.NoError(t, err)
			assert.Equal(t, []string{current.ID}, ids(got))

			got, err = list("FUTURE")
			require.NoError(t, err)
			assert.Equal(t, []string{future.ID}, ids(got))

			got, err = list("ALL")
			require.NoError(t, err)
			assert.Equal(t, []string{past.ID, current.ID, future.ID}, ids(got))

			got, err = list("REJECTED")
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}

	// The other side of each booking sees nothing.
	got, err := f.svc.ListByBooker(ctx, f.owner.ID, "ALL")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = f.svc.ListByOwner(ctx, f.booker.ID, "ALL")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListSortsStoreOutput(t *testing.T) {
	f := newFixture(t)
	repo := &MockRepository{}
	svc := newService(repo, db.NewLocalTransactor(), f.users, f.items)

	late := &Booking{ID: "late", Start: testNow.Add(5 * time.Hour)}
	early := &Booking{ID: "early", Start: testNow.Add(time.Hour)}
	repo.On("List", mock.Anything, Filter{Role: RoleOwner, PersonID: f.owner.ID, Status: StatusWaiting, Now: testNow}).
		Return([]*Booking{late, early}, nil).Once()

	got, err := svc.ListByOwner(context.Background(), f.owner.ID, "WAITING")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].ID)
	assert.Equal(t, "late", got[1].ID)
	repo.AssertExpectations(t)
}
