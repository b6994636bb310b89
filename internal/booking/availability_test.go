package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

type fakeStore struct {
	rows map[uint64][]model.Booking
	err  error
}

func (f *fakeStore) ListActiveByRoom(_ context.Context, roomID uint64) ([]model.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows[roomID], nil
}

func stayRow(roomID uint64, y, m, d, nights int) model.Booking {
	return model.Booking{
		RoomID:       roomID,
		Status:       model.StatusNotCanceled,
		ArrivalYear:  y,
		ArrivalMonth: m,
		ArrivalDay:   d,
		WeekNights:   nights,
	}
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	a1, a2 := day(2025, 3, 10), day(2025, 3, 13)
	cases := []struct {
		name   string
		b1, b2 time.Time
		want   bool
	}{
		{"identical", a1, a2, true},
		{"contained", day(2025, 3, 11), day(2025, 3, 12), true},
		{"straddles start", day(2025, 3, 8), day(2025, 3, 11), true},
		{"straddles end", day(2025, 3, 12), day(2025, 3, 15), true},
		{"touches end", a2, day(2025, 3, 16), false},
		{"touches start", day(2025, 3, 7), a1, false},
		{"disjoint after", day(2025, 3, 20), day(2025, 3, 22), false},
		{"disjoint before", day(2025, 3, 1), day(2025, 3, 4), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(a1, a2, tc.b1, tc.b2))
			assert.Equal(t, tc.want, Overlaps(tc.b1, tc.b2, a1, a2), "must be symmetric")
		})
	}
}

func TestIsAvailable(t *testing.T) {
	store := &fakeStore{rows: map[uint64][]model.Booking{
		7: {stayRow(7, 2025, 3, 10, 3)}, // occupies [Mar 10, Mar 13)
	}}
	c := NewChecker(store)

	ok, err := c.IsAvailable(context.Background(), 7, day(2025, 3, 11), day(2025, 3, 12))
	require.NoError(t, err)
	assert.False(t, ok)

	// Arrival on the existing stay's checkout day is allowed.
	ok, err = c.IsAvailable(context.Background(), 7, day(2025, 3, 13), day(2025, 3, 15))
	require.NoError(t, err)
	assert.True(t, ok)

	// Different room is unaffected.
	ok, err = c.IsAvailable(context.Background(), 8, day(2025, 3, 11), day(2025, 3, 12))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailableSkipsUnparsableRows(t *testing.T) {
	bad := stayRow(7, 2025, 2, 31, 2) // not a real date
	zero := stayRow(7, 2025, 3, 10, 0)
	store := &fakeStore{rows: map[uint64][]model.Booking{7: {bad, zero}}}
	c := NewChecker(store)

	ok, err := c.IsAvailable(context.Background(), 7, day(2025, 3, 10), day(2025, 3, 12))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAvailableStoreError(t *testing.T) {
	boom := errors.New("db down")
	c := NewChecker(&fakeStore{err: boom})
	_, err := c.IsAvailable(context.Background(), 1, day(2025, 3, 10), day(2025, 3, 12))
	assert.ErrorIs(t, err, boom)
}

func TestUnavailableRanges(t *testing.T) {
	store := &fakeStore{rows: map[uint64][]model.Booking{
		7: {
			stayRow(7, 2025, 3, 10, 3),
			stayRow(7, 2025, 2, 31, 2), // skipped
			stayRow(7, 2025, 4, 1, 1),
		},
	}}
	c := NewChecker(store)

	ranges, err := c.UnavailableRanges(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	assert.Equal(t, day(2025, 3, 10), ranges[0].CheckIn)
	assert.Equal(t, day(2025, 3, 13), ranges[0].CheckOut)
	assert.Equal(t, day(2025, 4, 1), ranges[1].CheckIn)
	assert.Equal(t, day(2025, 4, 2), ranges[1].CheckOut)
}
