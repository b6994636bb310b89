package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings. The write path
// enforces the room non-overlap invariant at commit time: Create locks
// the room row and re-checks existing windows inside the same
// transaction, so two concurrent committers for the same room are
// serialized by the database rather than by application-level hope.
// All timestamp columns are assumed to be stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to open their
// own transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, customer_id, room_id, meal_plan_id, market_segment_id, status,
	no_of_adults, no_of_children, no_of_weekend_nights, no_of_week_nights,
	required_car_parking_space, lead_time, arrival_year, arrival_month, arrival_day,
	repeated_guest, no_of_previous_cancellations, no_of_previous_bookings_not_canceled,
	avg_price_per_room, no_of_special_requests, total_nights, total_guests,
	created_at, updated_at`

// scanBooking reads one row selected with bookingColumns.
func scanBooking(sc interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var b model.Booking
	err := sc.Scan(
		&b.ID, &b.CustomerID, &b.RoomID, &b.MealPlanID, &b.MarketSegmentID, &b.Status,
		&b.Adults, &b.Children, &b.WeekendNights, &b.WeekNights,
		&b.CarParking, &b.LeadTime, &b.ArrivalYear, &b.ArrivalMonth, &b.ArrivalDay,
		&b.RepeatedGuest, &b.PrevCanceled, &b.PrevNotCanceled,
		&b.AvgPricePerRoom, &b.SpecialRequests, &b.TotalNights, &b.TotalGuests,
		&b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create finalizes a booking in a single all-or-nothing transaction:
// validate the stay window, lock the room row, re-check overlap against
// every non-canceled booking for the room, then insert. It returns
// booking.ErrInvalidStay / booking.ErrInvalidDate for unbookable stays,
// ErrRoomNotFound when the room vanished, booking.ErrRoomUnavailable
// when the slot was consumed, and the bare database error otherwise.
// The caller must not consider the booking placed unless a non-zero id
// is returned. Cached totals are recomputed here so the stored row is
// internally consistent regardless of what the client sent.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) (uint64, error) {
	checkIn, checkOut, nights, err := booking.StayFromBooking(*b).Window()
	if err != nil {
		return 0, err
	}
	if nights <= 0 {
		return 0, booking.ErrInvalidStay
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the room row so concurrent committers for this room queue up
	// behind the overlap check instead of racing past it.
	var roomID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, b.RoomID).Scan(&roomID)
	if err == sql.ErrNoRows {
		return 0, ErrRoomNotFound
	}
	if err != nil {
		return 0, err
	}

	existing, err := r.listActiveByRoomTx(ctx, tx, b.RoomID)
	if err != nil {
		return 0, err
	}
	for _, e := range existing {
		in, out, n, werr := booking.StayFromBooking(e).Window()
		if werr != nil || n <= 0 {
			continue
		}
		if booking.Overlaps(checkIn, checkOut, in, out) {
			return 0, booking.ErrRoomUnavailable
		}
	}

	const ins = `INSERT INTO bookings (
		customer_id, room_id, meal_plan_id, market_segment_id, status,
		no_of_adults, no_of_children, no_of_weekend_nights, no_of_week_nights,
		required_car_parking_space, lead_time, arrival_year, arrival_month, arrival_day,
		repeated_guest, no_of_previous_cancellations, no_of_previous_bookings_not_canceled,
		avg_price_per_room, no_of_special_requests, total_nights, total_guests
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := tx.ExecContext(ctx, ins,
		b.CustomerID, b.RoomID, b.MealPlanID, b.MarketSegmentID, model.StatusNotCanceled,
		b.Adults, b.Children, b.WeekendNights, b.WeekNights,
		b.CarParking, b.LeadTime, b.ArrivalYear, b.ArrivalMonth, b.ArrivalDay,
		b.RepeatedGuest, b.PrevCanceled, b.PrevNotCanceled,
		b.AvgPricePerRoom, b.SpecialRequests, nights, b.Adults+b.Children,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true

	b.ID = uint64(id)
	b.Status = model.StatusNotCanceled
	b.TotalNights = nights
	b.TotalGuests = b.Adults + b.Children
	return b.ID, nil
}

// ListActiveByRoom returns every non-canceled booking for a room. It
// implements booking.Store for the availability checker; canceled rows
// are excluded at the query level and never affect availability again.
func (r *BookingRepo) ListActiveByRoom(ctx context.Context, roomID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE room_id = ? AND status = ?`
	rows, err := r.db.QueryContext(ctx, q, roomID, model.StatusNotCanceled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// listActiveByRoomTx is ListActiveByRoom inside an existing transaction,
// used by the commit-time overlap check.
func (r *BookingRepo) listActiveByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE room_id = ? AND status = ?`
	rows, err := tx.QueryContext(ctx, q, roomID, model.StatusNotCanceled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDForCustomer returns a single booking scoped to its owning
// customer. sql.ErrNoRows means the booking does not exist or belongs
// to someone else; ownership is enforced in the query itself.
func (r *BookingRepo) GetByIDForCustomer(ctx context.Context, bookingID, customerID uint64) (model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND customer_id = ?`
	return scanBooking(r.db.QueryRowContext(ctx, q, bookingID, customerID))
}

// Cancel marks a booking as Canceled with a server-side update
// timestamp. Canceling an already-canceled booking is a no-op that
// succeeds without touching the row, so updated_at keeps the time of
// the first cancellation. sql.ErrNoRows means the booking does not
// exist for this customer.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID, customerID uint64) error {
	var status string
	err := r.db.QueryRowContext(ctx,
		`SELECT status FROM bookings WHERE id = ? AND customer_id = ?`,
		bookingID, customerID).Scan(&status)
	if err != nil {
		return err
	}
	if status == model.StatusCanceled {
		return nil
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`,
		model.StatusCanceled, bookingID, model.StatusNotCanceled)
	return err
}

// HistoryForCustomer summarizes a customer's booking history for the
// risk features written into new bookings: whether they booked before,
// how many stays they canceled and how many they kept.
func (r *BookingRepo) HistoryForCustomer(ctx context.Context, customerID uint64) (repeated, canceled, notCanceled int, err error) {
	const q = `SELECT
		COALESCE(SUM(status = ?), 0),
		COALESCE(SUM(status = ?), 0)
	FROM bookings WHERE customer_id = ?`
	err = r.db.QueryRowContext(ctx, q, model.StatusCanceled, model.StatusNotCanceled, customerID).
		Scan(&canceled, &notCanceled)
	if err != nil {
		return 0, 0, 0, err
	}
	if canceled+notCanceled > 0 {
		repeated = 1
	}
	return repeated, canceled, notCanceled, nil
}

// BookingDetail joins a booking with the display names of its room,
// room type, meal plan and market segment. Deleted rooms degrade to
// placeholder names instead of dropping the booking from listings.
type BookingDetail struct {
	model.Booking
	CustomerName string `json:"customer_name,omitempty"`
	RoomNumber   string `json:"room_number"`
	RoomTypeName string `json:"room_type_name"`
	MealPlanName string `json:"meal_plan_name"`
	SegmentName  string `json:"segment_name"`
}

const bookingDetailQuery = `SELECT b.id, b.customer_id, b.room_id, b.meal_plan_id, b.market_segment_id, b.status,
		b.no_of_adults, b.no_of_children, b.no_of_weekend_nights, b.no_of_week_nights,
		b.required_car_parking_space, b.lead_time, b.arrival_year, b.arrival_month, b.arrival_day,
		b.repeated_guest, b.no_of_previous_cancellations, b.no_of_previous_bookings_not_canceled,
		b.avg_price_per_room, b.no_of_special_requests, b.total_nights, b.total_guests,
		b.created_at, b.updated_at,
		u.full_name,
		COALESCE(r.room_number, 'Deleted Room'),
		COALESCE(t.name, 'Unknown Room Type'),
		m.name, s.name
	FROM bookings b
	JOIN users u ON u.id = b.customer_id
	LEFT JOIN rooms r ON r.id = b.room_id
	LEFT JOIN room_types t ON t.id = r.room_type_id
	JOIN meal_plans m ON m.id = b.meal_plan_id
	JOIN market_segments s ON s.id = b.market_segment_id`

func scanBookingDetail(sc interface{ Scan(...interface{}) error }) (BookingDetail, error) {
	var d BookingDetail
	err := sc.Scan(
		&d.ID, &d.CustomerID, &d.RoomID, &d.MealPlanID, &d.MarketSegmentID, &d.Status,
		&d.Adults, &d.Children, &d.WeekendNights, &d.WeekNights,
		&d.CarParking, &d.LeadTime, &d.ArrivalYear, &d.ArrivalMonth, &d.ArrivalDay,
		&d.RepeatedGuest, &d.PrevCanceled, &d.PrevNotCanceled,
		&d.AvgPricePerRoom, &d.SpecialRequests, &d.TotalNights, &d.TotalGuests,
		&d.CreatedAt, &d.UpdatedAt,
		&d.CustomerName, &d.RoomNumber, &d.RoomTypeName, &d.MealPlanName, &d.SegmentName,
	)
	return d, err
}

// ListByCustomer returns the customer's bookings with display names,
// newest first.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.customer_id = ? ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingDetails(rows)
}

// ListAllDetailed returns every booking with display names, newest
// first. Used by the admin review screen that attaches risk scores.
func (r *BookingRepo) ListAllDetailed(ctx context.Context) ([]BookingDetail, error) {
	q := bookingDetailQuery + ` ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingDetails(rows)
}

// RecentDetailed returns the newest bookings with display names for the
// admin dashboard.
func (r *BookingRepo) RecentDetailed(ctx context.Context, limit int) ([]BookingDetail, error) {
	if limit <= 0 {
		limit = 5
	}
	q := bookingDetailQuery + ` ORDER BY b.created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookingDetails(rows)
}

// GetDetailedByID returns one booking with display names, for the admin
// feature-vector view. sql.ErrNoRows when absent.
func (r *BookingRepo) GetDetailedByID(ctx context.Context, bookingID uint64) (BookingDetail, error) {
	q := bookingDetailQuery + ` WHERE b.id = ?`
	return scanBookingDetail(r.db.QueryRowContext(ctx, q, bookingID))
}

func collectBookingDetails(rows *sql.Rows) ([]BookingDetail, error) {
	out := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of bookings for the dashboard.
func (r *BookingRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&n)
	return n, err
}
