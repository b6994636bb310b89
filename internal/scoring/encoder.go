// Package scoring exposes the cancellation-risk model as an opaque
// scoring boundary: booking fields go in, a probability in [0,1] comes
// out. The model and its category encoders are trained offline; this
// package only loads the exported artifacts and applies them.
package scoring

import "strings"

// CategoryMap translates human-friendly database names into the exact
// category strings the encoders were trained on (e.g. "Breakfast Only"
// -> "Meal Plan 1"). Lookups are direct first, then case-insensitive.
type CategoryMap map[string]string

// Lookup resolves a database value to its model category. The boolean
// is false when no mapping exists.
func (m CategoryMap) Lookup(dbValue string) (string, bool) {
	if v, ok := m[dbValue]; ok {
		return v, true
	}
	want := strings.ToLower(strings.TrimSpace(dbValue))
	for k, v := range m {
		if strings.ToLower(strings.TrimSpace(k)) == want {
			return v, true
		}
	}
	return "", false
}

// Default mappings between database names and trained categories.
// These mirror the catalog the model was trained against; new database
// values fall through to each caller's declared default category.
var (
	MealPlanMap = CategoryMap{
		"Breakfast Only": "Meal Plan 1",
		"Full Board":     "Meal Plan 2",
		"Half Board":     "Meal Plan 3",
		"No Meal":        "Not Selected",
	}
	RoomTypeMap = CategoryMap{
		"Standard":           "Room_Type 1",
		"Deluxe":             "Room_Type 2",
		"Executive":          "Room_Type 3",
		"Family Suite":       "Room_Type 4",
		"Presidential Suite": "Room_Type 5",
		"Single":             "Room_Type 6",
		"Double":             "Room_Type 7",
	}
	SegmentMap = CategoryMap{
		"Online":        "Online",
		"Offline":       "Offline",
		"Corporate":     "Corporate",
		"Airline Guest": "Aviation",
		"Complementary": "Complementary",
	}
)

// Declared default categories used when a database value has no
// mapping at all.
const (
	DefaultMealPlanCategory = "Not Selected"
	DefaultRoomTypeCategory = "Room_Type 1"
	DefaultSegmentCategory  = "Offline"
)

// LabelEncoder holds the ordered class list of one trained label
// encoder; a category's code is its index in Classes.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Encode returns the integer code for a model category, or -1 when the
// category is unknown. Exact match is tried first; the substring match
// is a last resort kept for drift between encoder classes and catalog
// values, and can misfire when class names overlap; prefer fixing the
// category maps over relying on it.
func (e LabelEncoder) Encode(category string) int {
	if category == "" {
		return -1
	}
	for i, c := range e.Classes {
		if c == category {
			return i
		}
	}
	want := strings.ToLower(category)
	for i, c := range e.Classes {
		have := strings.ToLower(c)
		if strings.Contains(have, want) || strings.Contains(want, have) {
			return i
		}
	}
	return -1
}

// MapAndEncode maps a database category value through a CategoryMap and
// encodes it with the given encoder, falling back to defaultCategory
// when no mapping exists. It returns -1 for unknown values or when the
// encoder has no classes loaded.
func MapAndEncode(dbValue string, m CategoryMap, enc LabelEncoder, defaultCategory string) int {
	if dbValue == "" {
		return -1
	}
	cat, ok := m.Lookup(dbValue)
	if !ok {
		cat = defaultCategory
	}
	return enc.Encode(cat)
}
