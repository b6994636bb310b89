package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// MealPlanRepo manages the meal plan catalog. Plan names double as the
// categorical values fed to the cancellation scorer, so they should
// match the encoder classes shipped with the model artifacts.
type MealPlanRepo struct {
	db *sql.DB
}

func NewMealPlanRepo(db *sql.DB) *MealPlanRepo { return &MealPlanRepo{db: db} }

// Create inserts a meal plan. Returns ErrNameExists on a duplicate name.
func (r *MealPlanRepo) Create(ctx context.Context, m *model.MealPlan) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (name, image_path) VALUES (?,?)`,
		m.Name, m.ImagePath)
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
	m.ID = uint64(id)
	return m.ID, nil
}

// List returns all meal plans ordered by id, the same order they were
// seeded in.
func (r *MealPlanRepo) List(ctx context.Context) ([]model.MealPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, COALESCE(image_path, ''), created_at FROM meal_plans ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MealPlan, 0)
	for rows.Next() {
		var m model.MealPlan
		if err := rows.Scan(&m.ID, &m.Name, &m.ImagePath, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID returns one meal plan. sql.ErrNoRows when absent.
func (r *MealPlanRepo) GetByID(ctx context.Context, id uint64) (model.MealPlan, error) {
	var m model.MealPlan
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(image_path, ''), created_at FROM meal_plans WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.ImagePath, &m.CreatedAt)
	return m, err
}

// Delete removes a meal plan. Returns ErrConflict while bookings still
// reference it (MySQL 1451) and sql.ErrNoRows when absent.
func (r *MealPlanRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, id)
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
