// Package status assembles the aggregated status response: current
// times, latest sensor sample, model suggestions, and the weather
// report. Every sub-result degrades independently; a snapshot is
// always produced.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/features"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/predict"
	"github.com/wilson-cheng1110/Comp4436-GP/internal/sensor"
)

// SampleSource yields the latest sensor sample.
type SampleSource interface {
	Latest() (*sensor.Sample, error)
}

// Suggester produces device-state suggestions for a feature vector.
type Suggester interface {
	Suggest(v features.Vector) (predict.Pair, error)
}

// WeatherSource returns the current-conditions report or an embedded
// error payload.
type WeatherSource interface {
	Fetch(ctx context.Context) map[string]interface{}
}

// Suggestion carries the two suggested device states; "N/A" marks an
// unavailable prediction.
type Suggestion struct {
	LED     string `json:"led"`
	Curtain string `json:"curtain"`
}

// Response is the aggregated status payload. Assembled fresh per
// request; nothing here is cached.
type Response struct {
	CurrentTimeUTC   string                 `json:"currentTimeUTC"`
	CurrentTimeLocal string                 `json:"currentTimeLocal"`
	SensorData       map[string]interface{} `json:"sensorData"`
	AISuggestion     Suggestion             `json:"aiSuggestion"`
	HKOWeather       map[string]interface{} `json:"hkoWeather"`
}

const sampleTimeLayout = "2006-01-02 15:04:05"

// Aggregator orchestrates the sensor → features → predict chain plus
// the weather fetch.
type Aggregator struct {
	samples   SampleSource
	suggester Suggester
	weather   WeatherSource
	now       func() time.Time
}

func New(samples SampleSource, suggester Suggester, weather WeatherSource) *Aggregator {
	return &Aggregator{
		samples:   samples,
		suggester: suggester,
		weather:   weather,
		now:       time.Now,
	}
}

// Snapshot produces one Response. The sensor/prediction stage and the
// weather fetch fail independently of each other; neither aborts the
// snapshot.
func (a *Aggregator) Snapshot(ctx context.Context) Response {
	now := a.now()
	resp := Response{
		CurrentTimeUTC:   now.UTC().Format("2006-01-02 15:04:05 MST"),
		CurrentTimeLocal: now.Format("2006-01-02 15:04:05 (Monday)"),
	}
	resp.SensorData, resp.AISuggestion = a.sensorSection()
	resp.HKOWeather = a.weather.Fetch(ctx)
	return resp
}

// sensorSection runs the sensor/prediction stage. A missing sample
// degrades to the error marker; anything that panics mid-stage is
// recovered and surfaced as an error object in place of sensor data.
func (a *Aggregator) sensorSection() (data map[string]interface{}, sug Suggestion) {
	sug = Suggestion{LED: "N/A", Curtain: "N/A"}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("status: panic during sensor/prediction stage: %v", r)
			data = map[string]interface{}{"error": fmt.Sprintf("Error processing sensor data: %v", r)}
		}
	}()

	sample, err := a.samples.Latest()
	if err != nil {
		return map[string]interface{}{"error": "Could not retrieve sensor data"}, sug
	}

	vec := features.Derive(sample.Time, sample.Fields)
	if pair, err := a.suggester.Suggest(vec); err != nil {
		log.Printf("status: prediction failed: %v", err)
	} else {
		sug = Suggestion{LED: pair.LED, Curtain: pair.Curtain}
	}

	return jsonSafe(sample), sug
}

// jsonSafe converts the sample into a plain JSON shape: the timestamp
// as a fixed string pattern, null markers as JSON null, and store
// numerics as plain numbers.
func jsonSafe(s *sensor.Sample) map[string]interface{} {
	out := make(map[string]interface{}, len(s.Fields)+1)
	out["time"] = s.Time.Format(sampleTimeLayout)

	for name, raw := range s.Fields {
		switch v := raw.(type) {
		case *float64:
			if v == nil {
				out[name] = nil
			} else {
				out[name] = *v
			}
		case json.Number:
			if f, err := v.Float64(); err == nil {
				out[name] = f
			} else {
				out[name] = v.String()
			}
		default:
			out[name] = raw
		}
	}
	return out
}
