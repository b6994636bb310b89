package scoring

import (
	"encoding/json"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/iliyamo/hotel-room-booking/internal/model"
)

// Risk bucket thresholds and the binary decision threshold applied to
// the model's probability output.
const (
	highRiskThreshold   = 0.7
	mediumRiskThreshold = 0.4
	labelThreshold      = 0.5
)

// Model is the exported form of the offline-trained classifier: a
// logistic model over the ordered feature vector. Weight keys are
// feature column names; missing features contribute nothing.
type Model struct {
	Bias    float64            `json:"bias"`
	Weights map[string]float64 `json:"weights"`
}

// Scorer scores bookings with the loaded artifacts. A Scorer with no
// model loaded is still fully usable and returns the defined default
// probability 0.0; absence of artifacts must never fail callers.
type Scorer struct {
	model       *Model
	encoders    map[string]LabelEncoder
	featureCols []string
}

// Load reads model.json and encoders.json from dir. Missing or broken
// artifacts are logged and skipped; the scorer degrades to the default
// score rather than erroring.
func Load(dir string) *Scorer {
	s := &Scorer{featureCols: FeatureColumns, encoders: map[string]LabelEncoder{}}
	if dir == "" {
		return s
	}
	var m Model
	if err := readJSON(filepath.Join(dir, "model.json"), &m); err != nil {
		log.Printf("scoring: model not loaded: %v", err)
	} else {
		s.model = &m
	}
	var enc map[string]LabelEncoder
	if err := readJSON(filepath.Join(dir, "encoders.json"), &enc); err != nil {
		log.Printf("scoring: encoders not loaded: %v", err)
	} else {
		s.encoders = enc
	}
	var cols []string
	if err := readJSON(filepath.Join(dir, "feature_cols.json"), &cols); err == nil && len(cols) > 0 {
		s.featureCols = cols
	}
	return s
}

func readJSON(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Encoder returns the named label encoder, or an empty one when the
// artifact was not loaded (empty encoders encode everything to -1).
func (s *Scorer) Encoder(name string) LabelEncoder {
	return s.encoders[name]
}

// Score maps a named feature vector to a cancellation probability in
// [0,1]. With no model loaded the defined default 0.0 is returned.
func (s *Scorer) Score(features map[string]float64) float64 {
	if s.model == nil {
		return 0.0
	}
	z := s.model.Bias
	for _, col := range s.featureCols {
		if w, ok := s.model.Weights[col]; ok {
			z += w * features[col]
		}
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// Assessment is the scored view of one booking as shown to admins.
type Assessment struct {
	BookingID   uint64  `json:"booking_id"`
	Probability float64 `json:"cancellation_probability"`
	Prediction  string  `json:"prediction"`
	RiskLevel   string  `json:"risk_level"`
}

// EncodeCategories maps the catalog display names onto the model's
// categorical vocabulary and returns the encoded indices.
func (s *Scorer) EncodeCategories(mealPlanName, roomTypeName, segmentName string) (mealEnc, roomEnc, segEnc int) {
	mealEnc = MapAndEncode(mealPlanName, MealPlanMap, s.Encoder("type_of_meal_plan"), DefaultMealPlanCategory)
	roomEnc = MapAndEncode(roomTypeName, RoomTypeMap, s.Encoder("room_type_reserved"), DefaultRoomTypeCategory)
	segEnc = MapAndEncode(segmentName, SegmentMap, s.Encoder("market_segment_type"), DefaultSegmentCategory)
	return mealEnc, roomEnc, segEnc
}

// Assess encodes the booking's categorical fields, scores the feature
// vector and buckets the probability.
func (s *Scorer) Assess(b model.Booking, mealPlanName, roomTypeName, segmentName string) Assessment {
	mealEnc, roomEnc, segEnc := s.EncodeCategories(mealPlanName, roomTypeName, segmentName)

	prob := s.Score(BuildFeatures(b, mealEnc, roomEnc, segEnc))
	return Assessment{
		BookingID:   b.ID,
		Probability: math.Round(prob*1000) / 1000,
		Prediction:  Label(prob),
		RiskLevel:   RiskLevel(prob),
	}
}

// RiskLevel buckets a probability: Low < 0.4, Medium 0.4–0.7, High > 0.7.
func RiskLevel(p float64) string {
	switch {
	case p > highRiskThreshold:
		return "High"
	case p > mediumRiskThreshold:
		return "Medium"
	default:
		return "Low"
	}
}

// Label is the binary decision at the 0.5 threshold.
func Label(p float64) string {
	if p > labelThreshold {
		return "Likely to Cancel"
	}
	return "Likely to NOT Cancel"
}
