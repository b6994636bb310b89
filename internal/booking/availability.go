package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// Store is the slice of the persistence layer the availability checker
// needs: all non-canceled bookings for one room. Canceled bookings are
// excluded at the query level and never influence availability again.
type Store interface {
	ListActiveByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error)
}

// Checker answers whether a candidate date window collides with any
// existing non-canceled booking for a room. It is a pure function of
// the store's state at call time; results are never cached because a
// concurrent booking can change the answer between calls. The final,
// authoritative overlap check happens again inside the commit
// transaction; this checker exists to reject doomed attempts before
// any external side effect.
type Checker struct {
	store Store
}

// NewChecker returns a Checker bound to the given store.
func NewChecker(store Store) *Checker {
	if store == nil {
		panic("nil store passed to NewChecker")
	}
	return &Checker{store: store}
}

// Overlaps reports whether two half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap: a stay
// may begin on another stay's checkout day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// IsAvailable reports whether the room is free for the whole candidate
// window. Existing rows whose stored fields cannot produce a valid
// window (bad date triple or zero nights) occupy no dates and are
// skipped.
func (c *Checker) IsAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	existing, err := c.store.ListActiveByRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	for _, b := range existing {
		in, out, nights, err := StayFromBooking(b).Window()
		if err != nil || nights <= 0 {
			continue
		}
		if Overlaps(checkIn, checkOut, in, out) {
			return false, nil
		}
	}
	return true, nil
}

// DateRange is an occupied [CheckIn, CheckOut) interval returned to
// clients so booking forms can grey out taken dates.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// UnavailableRanges lists the occupied windows of a room for display.
// Rows with invalid or zero-night stays are silently skipped here:
// they block nothing, so showing them would only confuse clients.
func (c *Checker) UnavailableRanges(ctx context.Context, roomID uint64) ([]DateRange, error) {
	existing, err := c.store.ListActiveByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	ranges := make([]DateRange, 0, len(existing))
	for _, b := range existing {
		in, out, nights, err := StayFromBooking(b).Window()
		if err != nil || nights <= 0 {
			continue
		}
		ranges = append(ranges, DateRange{CheckIn: in, CheckOut: out})
	}
	return ranges, nil
}
