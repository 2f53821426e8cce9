package sensor

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/features"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/store"
)

// ErrNoSample is the explicit "none available" result: the store has
// no rows, or the latest row is unusable (missing or unparsable
// timestamp). Callers never see a Sample with a zero timestamp.
var ErrNoSample = errors.New("no sensor sample available")

// RowSource yields the most recent row of a measurement.
type RowSource interface {
	QueryLatest(measurement string) (map[string]interface{}, error)
}

// Reader fetches and normalizes the latest sensor sample.
type Reader struct {
	src         RowSource
	measurement string
}

func NewReader(src RowSource, measurement string) *Reader {
	return &Reader{src: src, measurement: measurement}
}

// Latest returns the most recent Sample or ErrNoSample. Store and
// parse failures are logged here and collapse into ErrNoSample; they
// never propagate past this boundary.
func (r *Reader) Latest() (*Sample, error) {
	row, err := r.src.QueryLatest(r.measurement)
	if err != nil {
		if !errors.Is(err, store.ErrNoRows) {
			log.Printf("sensor: query for latest %q row failed: %v", r.measurement, err)
		}
		return nil, ErrNoSample
	}

	ts, ok := parseRowTime(row["time"])
	if !ok || ts.IsZero() {
		log.Printf("sensor: missing or unparsable time in latest row: %v", row["time"])
		return nil, ErrNoSample
	}

	fields := make(map[string]interface{}, len(row))
	for col, val := range row {
		if col == "time" {
			continue
		}
		fields[col] = val
	}
	for _, name := range features.SampleNumeric {
		if raw, ok := fields[name]; ok {
			fields[name] = coerceFloat(raw)
		}
	}

	return &Sample{Time: ts, Fields: fields}, nil
}

// parseRowTime resolves the store's time column to an absolute
// instant. InfluxDB returns RFC3339 strings by default and epoch
// nanoseconds when a precision is requested.
func parseRowTime(raw interface{}) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, false
		}
		return ts.UTC(), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(0, n).UTC(), true
	default:
		return time.Time{}, false
	}
}

// coerceFloat converts a raw field value to *float64, with nil as the
// null-numeric marker for unparsable values. A bad value degrades that
// one field, never the whole row.
func coerceFloat(raw interface{}) *float64 {
	switch v := raw.(type) {
	case *float64:
		return v
	case float64:
		return &v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil
		}
		return &f
	case int64:
		f := float64(v)
		return &f
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
