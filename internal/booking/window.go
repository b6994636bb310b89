package booking

import (
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// Stay is the raw stay shape as submitted by a client or read back from
// a persisted booking: an arrival calendar triple plus night counts.
// TotalNights is a hint that may be zero when the caller did not supply
// or persist it; the effective count then falls back to the sum of
// weekend and week nights.
type Stay struct {
	ArrivalYear   int
	ArrivalMonth  int
	ArrivalDay    int
	TotalNights   int
	WeekendNights int
	WeekNights    int
}

// StayFromBooking builds a Stay from a persisted booking record so the
// same window math applies to pending payloads and stored rows alike.
func StayFromBooking(b model.Booking) Stay {
	return Stay{
		ArrivalYear:   b.ArrivalYear,
		ArrivalMonth:  b.ArrivalMonth,
		ArrivalDay:    b.ArrivalDay,
		TotalNights:   b.TotalNights,
		WeekendNights: b.WeekendNights,
		WeekNights:    b.WeekNights,
	}
}

// Nights returns the effective night count for the stay: the stored
// total when positive, otherwise weekend nights plus week nights.
// Negative component values are treated as zero.
func (s Stay) Nights() int {
	if s.TotalNights > 0 {
		return s.TotalNights
	}
	n := 0
	if s.WeekendNights > 0 {
		n += s.WeekendNights
	}
	if s.WeekNights > 0 {
		n += s.WeekNights
	}
	return n
}

// Window derives the half-open [checkIn, checkOut) interval for the
// stay together with the effective night count. checkOut is checkIn
// plus the night count in days, so the checkout day itself stays free
// for a new arrival. It returns ErrInvalidDate when the arrival triple
// is not a real calendar date. A zero-night stay is NOT an error here;
// callers that require a bookable stay must reject Nights() <= 0
// themselves (display paths legitimately skip such rows instead).
func (s Stay) Window() (checkIn, checkOut time.Time, nights int, err error) {
	if s.ArrivalMonth < 1 || s.ArrivalMonth > 12 || s.ArrivalDay < 1 || s.ArrivalDay > 31 || s.ArrivalYear < 1 {
		return time.Time{}, time.Time{}, 0, ErrInvalidDate
	}
	checkIn = time.Date(s.ArrivalYear, time.Month(s.ArrivalMonth), s.ArrivalDay, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range days (Feb 31 -> Mar 2/3); a
	// round-trip mismatch means the triple was not a real date.
	y, m, d := checkIn.Date()
	if y != s.ArrivalYear || int(m) != s.ArrivalMonth || d != s.ArrivalDay {
		return time.Time{}, time.Time{}, 0, ErrInvalidDate
	}
	nights = s.Nights()
	checkOut = checkIn.AddDate(0, 0, nights)
	return checkIn, checkOut, nights, nil
}
