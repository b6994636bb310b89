package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// RoomTypeRepo manages the room type catalog.
type RoomTypeRepo struct {
	db *sql.DB
}

func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

// Create inserts a room type. Returns ErrNameExists on a duplicate name.
func (r *RoomTypeRepo) Create(ctx context.Context, t *model.RoomType) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO room_types (name, description, price_per_night, image_path) VALUES (?,?,?,?)`,
		t.Name, t.Description, t.PricePerNight, t.ImagePath)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrNameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	t.ID = uint64(id)
	return t.ID, nil
}

// List returns all room types ordered by name.
func (r *RoomTypeRepo) List(ctx context.Context) ([]model.RoomType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, price_per_night, COALESCE(image_path, ''), created_at
		FROM room_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RoomType, 0)
	for rows.Next() {
		var t model.RoomType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.PricePerNight, &t.ImagePath, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns one room type. sql.ErrNoRows when absent.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (model.RoomType, error) {
	var t model.RoomType
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, price_per_night, COALESCE(image_path, ''), created_at
		FROM room_types WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.PricePerNight, &t.ImagePath, &t.CreatedAt)
	return t, err
}

// Delete removes a room type. Returns ErrConflict while rooms of this
// type still exist (MySQL 1451) and sql.ErrNoRows when absent.
func (r *RoomTypeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM room_types WHERE id = ?`, id)
	if err != nil {
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
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
