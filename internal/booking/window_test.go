package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowRoundTrip(t *testing.T) {
	s := Stay{ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 10, WeekendNights: 1, WeekNights: 2}

	checkIn, checkOut, nights, err := s.Window()
	require.NoError(t, err)
	assert.Equal(t, 3, nights)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), checkIn)
	assert.Equal(t, time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), checkOut)

	// The checkout day itself must be free for a new arrival.
	next := Stay{ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 13, WeekNights: 2}
	nIn, nOut, _, err := next.Window()
	require.NoError(t, err)
	assert.False(t, Overlaps(checkIn, checkOut, nIn, nOut))
}

func TestWindowPrefersCachedTotal(t *testing.T) {
	s := Stay{ArrivalYear: 2025, ArrivalMonth: 6, ArrivalDay: 1, TotalNights: 5, WeekendNights: 1, WeekNights: 1}
	_, checkOut, nights, err := s.Window()
	require.NoError(t, err)
	assert.Equal(t, 5, nights)
	assert.Equal(t, time.Date(2025, 6, 6, 0, 0, 0, 0, time.UTC), checkOut)
}

func TestWindowInvalidDates(t *testing.T) {
	cases := []Stay{
		{ArrivalYear: 2025, ArrivalMonth: 2, ArrivalDay: 31, WeekNights: 1}, // normalizes to March
		{ArrivalYear: 2025, ArrivalMonth: 13, ArrivalDay: 1, WeekNights: 1},
		{ArrivalYear: 2025, ArrivalMonth: 0, ArrivalDay: 1, WeekNights: 1},
		{ArrivalYear: 2025, ArrivalMonth: 4, ArrivalDay: 0, WeekNights: 1},
		{ArrivalYear: 0, ArrivalMonth: 4, ArrivalDay: 10, WeekNights: 1},
		{ArrivalYear: 2023, ArrivalMonth: 2, ArrivalDay: 29, WeekNights: 1}, // not a leap year
	}
	for _, s := range cases {
		_, _, _, err := s.Window()
		assert.ErrorIs(t, err, ErrInvalidDate, "stay %+v", s)
	}

	// Feb 29 on a leap year is a real date.
	leap := Stay{ArrivalYear: 2024, ArrivalMonth: 2, ArrivalDay: 29, WeekNights: 1}
	_, _, _, err := leap.Window()
	assert.NoError(t, err)
}

func TestWindowZeroNightsIsNotAnError(t *testing.T) {
	s := Stay{ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 10}
	checkIn, checkOut, nights, err := s.Window()
	require.NoError(t, err)
	assert.Equal(t, 0, nights)
	assert.True(t, checkIn.Equal(checkOut))
}

func TestNightsNegativeComponentsTreatedAsZero(t *testing.T) {
	s := Stay{ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 10, WeekendNights: -2, WeekNights: 3}
	assert.Equal(t, 3, s.Nights())
}
