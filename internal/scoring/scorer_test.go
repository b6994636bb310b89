package scoring

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

func TestCategoryMapLookup(t *testing.T) {
	cat, ok := MealPlanMap.Lookup("Breakfast Only")
	require.True(t, ok)
	assert.Equal(t, "Meal Plan 1", cat)

	cat, ok = MealPlanMap.Lookup("  breakfast only ")
	require.True(t, ok)
	assert.Equal(t, "Meal Plan 1", cat)

	_, ok = MealPlanMap.Lookup("Brunch Special")
	assert.False(t, ok)
}

func TestLabelEncoderEncode(t *testing.T) {
	enc := LabelEncoder{Classes: []string{"Meal Plan 1", "Meal Plan 2", "Not Selected"}}

	assert.Equal(t, 1, enc.Encode("Meal Plan 2"))
	assert.Equal(t, -1, enc.Encode(""))
	assert.Equal(t, -1, enc.Encode("Something Else"))
	// Substring fallback covers drift between classes and catalog names.
	assert.Equal(t, 2, enc.Encode("not selected"))
}

func TestMapAndEncodeFallsBackToDefault(t *testing.T) {
	enc := LabelEncoder{Classes: []string{"Meal Plan 1", "Not Selected"}}

	assert.Equal(t, 0, MapAndEncode("Breakfast Only", MealPlanMap, enc, DefaultMealPlanCategory))
	// Unmapped catalog value uses the declared default category.
	assert.Equal(t, 1, MapAndEncode("Brunch Special", MealPlanMap, enc, DefaultMealPlanCategory))
	assert.Equal(t, -1, MapAndEncode("", MealPlanMap, enc, DefaultMealPlanCategory))
	// No classes loaded encodes everything as unknown.
	assert.Equal(t, -1, MapAndEncode("Breakfast Only", MealPlanMap, LabelEncoder{}, DefaultMealPlanCategory))
}

func TestScorerDefaultWithoutArtifacts(t *testing.T) {
	s := Load("")
	b := model.Booking{ID: 5, Adults: 2, WeekNights: 3, ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 10}

	a := s.Assess(b, "Breakfast Only", "Deluxe", "Online")
	assert.Equal(t, uint64(5), a.BookingID)
	assert.Equal(t, 0.0, a.Probability)
	assert.Equal(t, "Low", a.RiskLevel)
	assert.Equal(t, "Likely to NOT Cancel", a.Prediction)
}

func TestScorerLoadsArtifacts(t *testing.T) {
	dir := t.TempDir()
	writeJSON(t, filepath.Join(dir, "model.json"), Model{
		Bias: 4.0, // sigmoid(4) ~ 0.982 with zeroed features
		Weights: map[string]float64{
			"no_of_adults": 0.0,
		},
	})
	writeJSON(t, filepath.Join(dir, "encoders.json"), map[string]LabelEncoder{
		"type_of_meal_plan":   {Classes: []string{"Meal Plan 1", "Not Selected"}},
		"room_type_reserved":  {Classes: []string{"Room_Type 1", "Room_Type 2"}},
		"market_segment_type": {Classes: []string{"Offline", "Online"}},
	})

	s := Load(dir)
	b := model.Booking{ID: 1, Adults: 2, WeekNights: 2, ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 10}
	a := s.Assess(b, "Breakfast Only", "Standard", "Online")

	assert.InDelta(t, 0.982, a.Probability, 0.001)
	assert.Equal(t, "High", a.RiskLevel)
	assert.Equal(t, "Likely to Cancel", a.Prediction)
}

func TestScorerSurvivesBrokenArtifacts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.json"), []byte("{not json"), 0o644))

	s := Load(dir)
	assert.Equal(t, 0.0, s.Score(map[string]float64{"no_of_adults": 2}))
}

func TestRiskLevelBuckets(t *testing.T) {
	assert.Equal(t, "Low", RiskLevel(0.0))
	assert.Equal(t, "Low", RiskLevel(0.4))
	assert.Equal(t, "Medium", RiskLevel(0.41))
	assert.Equal(t, "Medium", RiskLevel(0.7))
	assert.Equal(t, "High", RiskLevel(0.71))
}

func TestBuildFeaturesRecomputesTotals(t *testing.T) {
	b := model.Booking{
		Adults: 2, Children: 1,
		WeekendNights: 1, WeekNights: 2,
		ArrivalYear: 2025, ArrivalMonth: 3, ArrivalDay: 10,
		AvgPricePerRoom: 120.5,
	}
	f := BuildFeatures(b, 0, 1, 2)

	assert.Equal(t, 3.0, f["total_nights"])
	assert.Equal(t, 3.0, f["total_guests"])
	assert.Equal(t, 10.0, f["arrival_date"])
	assert.Equal(t, 1.0, f["room_type_reserved_encoded"])
	for _, col := range FeatureColumns {
		_, ok := f[col]
		assert.True(t, ok, "missing feature %s", col)
	}
	assert.Len(t, f, len(FeatureColumns))
}

func writeJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	bs, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, bs, 0o644))
}
