// Package features turns a sensor sample into the fixed-schema vector
// the trained pipelines consume. Derivation is a pure function of the
// sample's timestamp and fields; it performs no I/O.
package features

import "time"

// Feature schema. Order mirrors the training-time column order and
// must not be changed independently of the model artifacts.
var (
	Order = []string{
		"brightness_raw", "humidity", "light_state", "occupancy",
		"temperature", "hour", "dayofweek", "month", "dayofyear",
	}
	Numeric     = []string{"brightness_raw", "humidity", "temperature", "hour", "dayofweek", "month", "dayofyear"}
	Categorical = []string{"light_state", "occupancy"}

	// Fields expected directly on a sensor sample; the remaining
	// numeric features are derived from its timestamp.
	SampleNumeric     = []string{"brightness_raw", "humidity", "temperature"}
	SampleCategorical = []string{"light_state", "occupancy"}
)

// Vector is the full feature set keyed by name. A nil entry is the
// explicit null marker for a missing or unparsable value; the fill
// policy for nulls lives at the predictor boundary, not here.
type Vector struct {
	Numeric     map[string]*float64
	Categorical map[string]*string
}

// Derive builds a Vector from a resolved sample timestamp and the
// sample's raw fields (numerics already coerced to *float64 by the
// sensor reader). Every name in the schema is present in the result,
// with nil marking gaps.
func Derive(ts time.Time, fields map[string]interface{}) Vector {
	v := Vector{
		Numeric:     make(map[string]*float64, len(Numeric)),
		Categorical: make(map[string]*string, len(Categorical)),
	}

	for _, name := range SampleNumeric {
		if f, ok := fields[name].(*float64); ok {
			v.Numeric[name] = f
		} else {
			v.Numeric[name] = nil
		}
	}
	for _, name := range SampleCategorical {
		if s, ok := fields[name].(string); ok {
			val := s
			v.Categorical[name] = &val
		} else {
			v.Categorical[name] = nil
		}
	}

	hour := float64(ts.Hour())
	dow := float64(DayOfWeekMonday0(ts))
	month := float64(int(ts.Month()))
	doy := float64(ts.YearDay())
	v.Numeric["hour"] = &hour
	v.Numeric["dayofweek"] = &dow
	v.Numeric["month"] = &month
	v.Numeric["dayofyear"] = &doy

	return v
}

// DayOfWeekMonday0 numbers weekdays Monday=0 .. Sunday=6, the
// convention the pipelines were trained with (pandas dayofweek).
// Go's time.Weekday is Sunday-based, hence the shift.
func DayOfWeekMonday0(ts time.Time) int {
	return (int(ts.Weekday()) + 6) % 7
}
