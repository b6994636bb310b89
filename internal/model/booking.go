package model

import "time"

// Booking status values as stored in the bookings.status column.  A
// booking is created as Not_Canceled and may transition to Canceled
// exactly once; Canceled is terminal and there is no reactivation path.
const (
	StatusNotCanceled = "Not_Canceled"
	StatusCanceled    = "Canceled"
)

// Booking mirrors a row of the `bookings` table.  The stay shape is
// stored as an arrival calendar triple plus night counts; the derived
// [check_in, check_out) window is computed by the booking package.
//
// TotalNights and TotalGuests are cached sums written at insert time.
// Readers must not trust them blindly: when missing or non-positive
// they are recomputed from the component fields.
type Booking struct {
	ID              uint64    // bookings.id
	CustomerID      uint64    // bookings.customer_id
	RoomID          uint64    // bookings.room_id
	MealPlanID      uint64    // bookings.meal_plan_id
	MarketSegmentID uint64    // bookings.market_segment_id
	Status          string    // bookings.status (Not_Canceled | Canceled)
	Adults          int       // bookings.no_of_adults
	Children        int       // bookings.no_of_children
	WeekendNights   int       // bookings.no_of_weekend_nights
	WeekNights      int       // bookings.no_of_week_nights
	CarParking      int       // bookings.required_car_parking_space (0/1)
	LeadTime        int       // bookings.lead_time (days between booking and arrival)
	ArrivalYear     int       // bookings.arrival_year
	ArrivalMonth    int       // bookings.arrival_month
	ArrivalDay      int       // bookings.arrival_day
	RepeatedGuest   int       // bookings.repeated_guest (0/1)
	PrevCanceled    int       // bookings.no_of_previous_cancellations
	PrevNotCanceled int       // bookings.no_of_previous_bookings_not_canceled
	AvgPricePerRoom float64   // bookings.avg_price_per_room (per night, major units)
	SpecialRequests int       // bookings.no_of_special_requests
	TotalNights     int       // bookings.total_nights (cached, may be 0)
	TotalGuests     int       // bookings.total_guests (cached, may be 0)
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}

// Nights returns the effective night count: the cached total when
// positive, otherwise the sum of weekend and week nights.
func (b Booking) Nights() int {
	if b.TotalNights > 0 {
		return b.TotalNights
	}
	return b.WeekendNights + b.WeekNights
}

// Guests returns the effective guest count: the cached total when
// positive, otherwise adults plus children.
func (b Booking) Guests() int {
	if b.TotalGuests > 0 {
		return b.TotalGuests
	}
	return b.Adults + b.Children
}
