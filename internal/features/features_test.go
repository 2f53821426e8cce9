package features

import (
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

// TestDeriveCalendarFeatures pins the calendar derivation against a
// known date: 2024-03-01 10:00 UTC was a Friday, day 61 of a leap year.
func TestDeriveCalendarFeatures(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	v := Derive(ts, map[string]interface{}{
		"temperature": f64(22.5),
		"light_state": "off",
	})

	checks := map[string]float64{
		"hour":      10,
		"dayofweek": 4, // Friday with Monday=0
		"month":     3,
		"dayofyear": 61,
	}
	for name, want := range checks {
		got := v.Numeric[name]
		if got == nil {
			t.Fatalf("derived feature %q is nil", name)
		}
		if *got != want {
			t.Errorf("%s = %v, want %v", name, *got, want)
		}
	}
}

func TestDayOfWeekMonday0(t *testing.T) {
	// 2024-03-04 is a Monday, 2024-03-10 a Sunday.
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	if got := DayOfWeekMonday0(monday); got != 0 {
		t.Errorf("Monday = %d, want 0", got)
	}
	if got := DayOfWeekMonday0(sunday); got != 6 {
		t.Errorf("Sunday = %d, want 6", got)
	}
}

// TestDeriveFillsSchemaGaps verifies every schema field is present and
// missing sample fields carry the nil null marker.
func TestDeriveFillsSchemaGaps(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	v := Derive(ts, map[string]interface{}{
		"humidity": f64(40),
	})

	for _, name := range Numeric {
		if _, ok := v.Numeric[name]; !ok {
			t.Errorf("numeric feature %q absent from vector", name)
		}
	}
	for _, name := range Categorical {
		if _, ok := v.Categorical[name]; !ok {
			t.Errorf("categorical feature %q absent from vector", name)
		}
	}

	if v.Numeric["temperature"] != nil {
		t.Error("missing temperature should be the nil marker")
	}
	if v.Categorical["occupancy"] != nil {
		t.Error("missing occupancy should be the nil marker")
	}
	if v.Numeric["humidity"] == nil || *v.Numeric["humidity"] != 40 {
		t.Error("present humidity should survive derivation")
	}
}

// TestDeriveUnparsableNumericStaysNull: a numeric field the reader
// could not coerce arrives as a nil *float64 and must stay null.
func TestDeriveUnparsableNumericStaysNull(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	v := Derive(ts, map[string]interface{}{
		"temperature": (*float64)(nil),
	})
	if v.Numeric["temperature"] != nil {
		t.Error("null-numeric marker should propagate into the vector")
	}
}
