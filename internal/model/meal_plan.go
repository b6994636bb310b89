package model

import "time"

// MealPlan mirrors the `meal_plans` table.  Plans are referenced by
// bookings and mapped onto model categories by the scoring package.
type MealPlan struct {
	ID        uint64    // meal_plans.id
	Name      string    // meal_plans.name (unique)
	ImagePath string    // meal_plans.image_path
	CreatedAt time.Time // meal_plans.created_at
}

// MarketSegment mirrors the `market_segments` table.  Segments classify
// the sales channel a booking arrived through (Online, Corporate, ...).
type MarketSegment struct {
	ID        uint64    // market_segments.id
	Name      string    // market_segments.name (unique)
	CreatedAt time.Time // market_segments.created_at
}
