package scoring

import "github.com/iliyamo/hotel-room-booking/internal/model"

// FeatureColumns is the fixed, ordered feature vector the model was
// trained on. The order matters: the weight vector is aligned to it.
var FeatureColumns = []string{
	"no_of_adults",
	"no_of_children",
	"no_of_weekend_nights",
	"no_of_week_nights",
	"required_car_parking_space",
	"lead_time",
	"arrival_year",
	"arrival_month",
	"arrival_date",
	"repeated_guest",
	"no_of_previous_cancellations",
	"no_of_previous_bookings_not_canceled",
	"avg_price_per_room",
	"no_of_special_requests",
	"type_of_meal_plan_encoded",
	"room_type_reserved_encoded",
	"market_segment_type_encoded",
	"total_nights",
	"total_guests",
}

// BuildFeatures assembles the named feature map for one booking. The
// cached totals are recomputed from components when missing, matching
// how the model was trained. Unknown categories arrive as -1 codes.
func BuildFeatures(b model.Booking, mealEnc, roomEnc, segEnc int) map[string]float64 {
	return map[string]float64{
		"no_of_adults":                         float64(b.Adults),
		"no_of_children":                       float64(b.Children),
		"no_of_weekend_nights":                 float64(b.WeekendNights),
		"no_of_week_nights":                    float64(b.WeekNights),
		"required_car_parking_space":           float64(b.CarParking),
		"lead_time":                            float64(b.LeadTime),
		"arrival_year":                         float64(b.ArrivalYear),
		"arrival_month":                        float64(b.ArrivalMonth),
		"arrival_date":                         float64(b.ArrivalDay),
		"repeated_guest":                       float64(b.RepeatedGuest),
		"no_of_previous_cancellations":         float64(b.PrevCanceled),
		"no_of_previous_bookings_not_canceled": float64(b.PrevNotCanceled),
		"avg_price_per_room":                   b.AvgPricePerRoom,
		"no_of_special_requests":               float64(b.SpecialRequests),
		"type_of_meal_plan_encoded":            float64(mealEnc),
		"room_type_reserved_encoded":           float64(roomEnc),
		"market_segment_type_encoded":          float64(segEnc),
		"total_nights":                         float64(b.Nights()),
		"total_guests":                         float64(b.Guests()),
	}
}
