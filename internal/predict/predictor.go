package predict

import (
	"errors"
	"fmt"
	"log"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/features"
)

// Pair is the two suggested device states for the current conditions.
type Pair struct {
	LED     string
	Curtain string
}

// Predictor runs both pipelines over the same feature row.
type Predictor struct {
	bundle *Bundle
}

func New(bundle *Bundle) *Predictor {
	return &Predictor{bundle: bundle}
}

// Suggest fills remaining gaps in the vector, selects the training
// column order, runs both pipelines independently, and decodes the
// class indices. Any failure returns an error and the caller degrades
// to sentinel suggestions; a broken model never crashes a request.
func (p *Predictor) Suggest(v features.Vector) (Pair, error) {
	if p.bundle == nil ||
		p.bundle.LED.Pipeline == nil || p.bundle.LED.Encoder == nil ||
		p.bundle.Curtain.Pipeline == nil || p.bundle.Curtain.Encoder == nil {
		return Pair{}, errors.New("model bundle not loaded")
	}
	// The calendar features come from the deriver; a vector without
	// them did not go through derivation and is rejected.
	for _, name := range []string{"hour", "dayofweek", "month", "dayofyear"} {
		if v.Numeric[name] == nil {
			return Pair{}, fmt.Errorf("timestamp-derived feature %q not computed", name)
		}
	}

	row := fillRow(v)

	ledIdx, err := p.bundle.LED.Pipeline.Predict(row)
	if err != nil {
		return Pair{}, fmt.Errorf("led inference on row %+v: %w", row, err)
	}
	curtainIdx, err := p.bundle.Curtain.Pipeline.Predict(row)
	if err != nil {
		return Pair{}, fmt.Errorf("curtain inference on row %+v: %w", row, err)
	}

	led, err := p.bundle.LED.Encoder.Decode(ledIdx)
	if err != nil {
		return Pair{}, fmt.Errorf("decode led class: %w", err)
	}
	curtain, err := p.bundle.Curtain.Encoder.Decode(curtainIdx)
	if err != nil {
		return Pair{}, fmt.Errorf("decode curtain class: %w", err)
	}

	return Pair{LED: led, Curtain: curtain}, nil
}

// fillRow applies the null-fill policy: missing numerics become 0,
// missing categoricals become "Unknown". Each substitution is a
// data-quality event and is logged, never silent.
func fillRow(v features.Vector) Row {
	row := Row{
		Numeric:     make(map[string]float64, len(features.Numeric)),
		Categorical: make(map[string]string, len(features.Categorical)),
	}
	for _, name := range features.Numeric {
		if f := v.Numeric[name]; f != nil {
			row.Numeric[name] = *f
		} else {
			log.Printf("predict: numeric feature %q missing, filling with 0", name)
			row.Numeric[name] = 0
		}
	}
	for _, name := range features.Categorical {
		if s := v.Categorical[name]; s != nil {
			row.Categorical[name] = *s
		} else {
			log.Printf("predict: categorical feature %q missing, filling with \"Unknown\"", name)
			row.Categorical[name] = "Unknown"
		}
	}
	return row
}
