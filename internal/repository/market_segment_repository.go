package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// MarketSegmentRepo manages the market segment catalog.
type MarketSegmentRepo struct {
	db *sql.DB
}

func NewMarketSegmentRepo(db *sql.DB) *MarketSegmentRepo { return &MarketSegmentRepo{db: db} }

// Create inserts a market segment. Returns ErrNameExists on a
// duplicate name.
func (r *MarketSegmentRepo) Create(ctx context.Context, s *model.MarketSegment) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO market_segments (name) VALUES (?)`, s.Name)
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
	s.ID = uint64(id)
	return s.ID, nil
}

// List returns all market segments ordered by id.
func (r *MarketSegmentRepo) List(ctx context.Context) ([]model.MarketSegment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM market_segments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MarketSegment, 0)
	for rows.Next() {
		var s model.MarketSegment
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetByID returns one market segment. sql.ErrNoRows when absent.
func (r *MarketSegmentRepo) GetByID(ctx context.Context, id uint64) (model.MarketSegment, error) {
	var s model.MarketSegment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM market_segments WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.CreatedAt)
	return s, err
}

// Delete removes a market segment. Returns ErrConflict while bookings
// still reference it (MySQL 1451) and sql.ErrNoRows when absent.
func (r *MarketSegmentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM market_segments WHERE id = ?`, id)
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
