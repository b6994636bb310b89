package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// RoomRepo manages physical rooms.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// RoomDetail is a room joined with its type for listings.
type RoomDetail struct {
	model.Room
	RoomTypeName  string  `json:"room_type_name"`
	TypeBasePrice float64 `json:"type_base_price"`
	ImagePath     string  `json:"image_path,omitempty"`
}

// Create inserts a room. A zero price falls back to the room type's
// base price so every room always carries a bookable rate. Returns
// ErrRoomTypeNotFound when the type does not exist and
// ErrRoomNumberExists on a duplicate room number.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) (uint64, error) {
	if room.PricePerNight <= 0 {
		err := r.db.QueryRowContext(ctx,
			`SELECT price_per_night FROM room_types WHERE id = ?`,
			room.RoomTypeID).Scan(&room.PricePerNight)
		if err == sql.ErrNoRows {
			return 0, ErrRoomTypeNotFound
		}
		if err != nil {
			return 0, err
		}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (room_number, room_type_id, price_per_night) VALUES (?,?,?)`,
		room.RoomNumber, room.RoomTypeID, room.PricePerNight)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrRoomNumberExists
		}
		if strings.Contains(err.Error(), "1452") {
			return 0, ErrRoomTypeNotFound
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	room.ID = uint64(id)
	return room.ID, nil
}

// List returns all rooms with their type names, ordered by room number.
func (r *RoomRepo) List(ctx context.Context) ([]RoomDetail, error) {
	const q = `SELECT r.id, r.room_number, r.room_type_id, r.price_per_night, r.created_at,
		t.name, t.price_per_night, COALESCE(t.image_path, '')
	FROM rooms r JOIN room_types t ON t.id = r.room_type_id
	ORDER BY r.room_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RoomDetail, 0)
	for rows.Next() {
		var d RoomDetail
		if err := rows.Scan(&d.ID, &d.RoomNumber, &d.RoomTypeID, &d.PricePerNight, &d.CreatedAt,
			&d.RoomTypeName, &d.TypeBasePrice, &d.ImagePath); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDetail returns one room with its type. sql.ErrNoRows when absent.
func (r *RoomRepo) GetDetail(ctx context.Context, roomID uint64) (RoomDetail, error) {
	const q = `SELECT r.id, r.room_number, r.room_type_id, r.price_per_night, r.created_at,
		t.name, t.price_per_night, COALESCE(t.image_path, '')
	FROM rooms r JOIN room_types t ON t.id = r.room_type_id
	WHERE r.id = ?`
	var d RoomDetail
	err := r.db.QueryRowContext(ctx, q, roomID).Scan(
		&d.ID, &d.RoomNumber, &d.RoomTypeID, &d.PricePerNight, &d.CreatedAt,
		&d.RoomTypeName, &d.TypeBasePrice, &d.ImagePath)
	return d, err
}

// Delete removes a room. Bookings reference rooms without a foreign
// key, so historical bookings survive the delete and show up as
// "Deleted Room" in detail listings. sql.ErrNoRows when the room does
// not exist.
func (r *RoomRepo) Delete(ctx context.Context, roomID uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, roomID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of rooms for the dashboard.
func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&n)
	return n, err
}
