// Package booking implements the stay-window calculator and the room
// availability checker. These sentinel values let higher layers such as
// handlers and the payment coordinator distinguish between different
// failure scenarios without string matching.
package booking

import "errors"

// ErrInvalidDate is returned when an arrival year/month/day triple does
// not form a real calendar date (month 13, February 31, ...). Handlers
// should translate this into an HTTP 400 response.
var ErrInvalidDate = errors.New("invalid arrival date")

// ErrInvalidStay is returned when a stay resolves to zero or negative
// nights. Such a stay can never be booked or paid for, although it is
// tolerated (skipped) when merely listing occupied ranges for display.
var ErrInvalidStay = errors.New("stay must cover at least one night")

// ErrRoomUnavailable is returned when the requested window overlaps an
// existing non-canceled booking for the same room. It is shared by the
// availability checker, the commit-time check in the repository and the
// payment coordinator.
var ErrRoomUnavailable = errors.New("room unavailable for the requested dates")
