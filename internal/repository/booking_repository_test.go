package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/booking"
	"github.com/iliyamo/hotel-room-booking/internal/model"
)

func newBookingRepoMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

var bookingRowColumns = []string{
	"id", "customer_id", "room_id", "meal_plan_id", "market_segment_id", "status",
	"no_of_adults", "no_of_children", "no_of_weekend_nights", "no_of_week_nights",
	"required_car_parking_space", "lead_time", "arrival_year", "arrival_month", "arrival_day",
	"repeated_guest", "no_of_previous_cancellations", "no_of_previous_bookings_not_canceled",
	"avg_price_per_room", "no_of_special_requests", "total_nights", "total_guests",
	"created_at", "updated_at",
}

// addBookingRow appends b to rows in bookingColumns order.
func addBookingRow(rows *sqlmock.Rows, b model.Booking) *sqlmock.Rows {
	return rows.AddRow(
		b.ID, b.CustomerID, b.RoomID, b.MealPlanID, b.MarketSegmentID, b.Status,
		b.Adults, b.Children, b.WeekendNights, b.WeekNights,
		b.CarParking, b.LeadTime, b.ArrivalYear, b.ArrivalMonth, b.ArrivalDay,
		b.RepeatedGuest, b.PrevCanceled, b.PrevNotCanceled,
		b.AvgPricePerRoom, b.SpecialRequests, b.TotalNights, b.TotalGuests,
		b.CreatedAt, b.UpdatedAt,
	)
}

func storedBooking(roomID uint64, year, month, day, weekend, week int) model.Booking {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return model.Booking{
		ID: 1, CustomerID: 9, RoomID: roomID, MealPlanID: 1, MarketSegmentID: 1,
		Status:        model.StatusNotCanceled,
		Adults:        2,
		WeekendNights: weekend, WeekNights: week,
		ArrivalYear: year, ArrivalMonth: month, ArrivalDay: day,
		AvgPricePerRoom: 100,
		TotalNights:     weekend + week, TotalGuests: 2,
		CreatedAt: ts, UpdatedAt: ts,
	}
}

func newBookingPayload(roomID uint64, year, month, day, weekend, week int) model.Booking {
	return model.Booking{
		CustomerID: 42, RoomID: roomID, MealPlanID: 1, MarketSegmentID: 1,
		Adults:        2,
		WeekendNights: weekend, WeekNights: week,
		ArrivalYear: year, ArrivalMonth: month, ArrivalDay: day,
		AvgPricePerRoom: 120.50,
	}
}

const (
	lockRoomQuery   = `SELECT id FROM rooms WHERE id = \? FOR UPDATE`
	activeByRoomSQL = `FROM bookings WHERE room_id = \? AND status = \?`
)

func TestCreateRejectsOverlappingStay(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	// Room 3 already holds Mar 11 for one night; a Mar 10 three-night
	// stay covers it and must be refused inside the transaction.
	existing := addBookingRow(sqlmock.NewRows(bookingRowColumns),
		storedBooking(3, 2025, 3, 11, 0, 1))

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomQuery).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(activeByRoomSQL).WithArgs(uint64(3), model.StatusNotCanceled).
		WillReturnRows(existing)
	mock.ExpectRollback()

	b := newBookingPayload(3, 2025, 3, 10, 1, 2)
	id, err := repo.Create(context.Background(), &b)
	assert.ErrorIs(t, err, booking.ErrRoomUnavailable)
	assert.Zero(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAllowsBackToBackStays(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	// Existing stay checks out Mar 10; arriving Mar 10 is allowed, the
	// windows are half-open.
	existing := addBookingRow(sqlmock.NewRows(bookingRowColumns),
		storedBooking(3, 2025, 3, 7, 1, 2))

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomQuery).WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(activeByRoomSQL).WithArgs(uint64(3), model.StatusNotCanceled).
		WillReturnRows(existing)
	mock.ExpectExec(`INSERT INTO bookings`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	b := newBookingPayload(3, 2025, 3, 10, 1, 2)
	id, err := repo.Create(context.Background(), &b)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), id)
	assert.Equal(t, model.StatusNotCanceled, b.Status)
	assert.Equal(t, 3, b.TotalNights)
	assert.Equal(t, 2, b.TotalGuests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomVanished(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockRoomQuery).WithArgs(uint64(3)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	b := newBookingPayload(3, 2025, 3, 10, 1, 2)
	_, err := repo.Create(context.Background(), &b)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsInvalidStayBeforeTouchingDatabase(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	bad := newBookingPayload(3, 2025, 2, 31, 1, 2)
	_, err := repo.Create(context.Background(), &bad)
	assert.ErrorIs(t, err, booking.ErrInvalidDate)

	zero := newBookingPayload(3, 2025, 3, 10, 0, 0)
	_, err = repo.Create(context.Background(), &zero)
	assert.ErrorIs(t, err, booking.ErrInvalidStay)

	assert.NoError(t, mock.ExpectationsWereMet())
}

const selectStatusQuery = `SELECT status FROM bookings WHERE id = \? AND customer_id = \?`

func TestCancelMarksBookingCanceled(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	mock.ExpectQuery(selectStatusQuery).WithArgs(uint64(7), uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.StatusNotCanceled))
	mock.ExpectExec(`UPDATE bookings SET status = \?, updated_at = NOW\(\)`).
		WithArgs(model.StatusCanceled, uint64(7), model.StatusNotCanceled).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 7, 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelSecondCallIsNoOp(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	// Already canceled: Cancel succeeds without issuing an UPDATE, so
	// updated_at keeps the time of the first cancellation.
	mock.ExpectQuery(selectStatusQuery).WithArgs(uint64(7), uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.StatusCanceled))

	err := repo.Cancel(context.Background(), 7, 42)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelUnknownBooking(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	mock.ExpectQuery(selectStatusQuery).WithArgs(uint64(7), uint64(42)).
		WillReturnError(sql.ErrNoRows)

	err := repo.Cancel(context.Background(), 7, 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListActiveByRoomExcludesCanceled(t *testing.T) {
	repo, mock := newBookingRepoMock(t)

	// The canceled filter lives in the query itself; the mock asserts the
	// status argument so a regression that drops it fails here.
	rows := addBookingRow(sqlmock.NewRows(bookingRowColumns),
		storedBooking(3, 2025, 3, 11, 0, 1))
	mock.ExpectQuery(activeByRoomSQL).WithArgs(uint64(3), model.StatusNotCanceled).
		WillReturnRows(rows)

	got, err := repo.ListActiveByRoom(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.StatusNotCanceled, got[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
