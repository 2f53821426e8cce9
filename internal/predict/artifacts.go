// Package predict runs the two trained classification pipelines (LED,
// curtain) over a feature vector. The pipelines and label encoders are
// opaque artifacts loaded from JSON files once at process start; the
// rest of the system only sees the Pipeline/Decoder contracts.
package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Pipeline maps a filled feature row to an encoded class index.
type Pipeline interface {
	Predict(row Row) (int, error)
}

// Decoder maps an encoded class index back to its original label.
type Decoder interface {
	Decode(idx int) (string, error)
}

// Row is a fully filled feature row: every schema field present, no
// null markers left.
type Row struct {
	Numeric     map[string]float64
	Categorical map[string]string
}

// LabelEncoder holds the class labels in encoder order, mirroring the
// encoder trained jointly with each pipeline.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

func LoadEncoder(path string) (*LabelEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read encoder file: %w", err)
	}
	var e LabelEncoder
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal encoder %s: %w", path, err)
	}
	if len(e.Classes) == 0 {
		return nil, fmt.Errorf("encoder %s has no classes", path)
	}
	return &e, nil
}

func (e *LabelEncoder) Decode(idx int) (string, error) {
	if idx < 0 || idx >= len(e.Classes) {
		return "", fmt.Errorf("class index %d out of range [0,%d)", idx, len(e.Classes))
	}
	return e.Classes[idx], nil
}

// treeNode is one node of an exported decision tree. Interior nodes
// carry either a numeric split (value <= threshold goes left) or a
// categorical split (value == equals goes left). Leaves carry a class.
type treeNode struct {
	Feature   string   `json:"feature,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	Equals    *string  `json:"equals,omitempty"`
	Left      int      `json:"left,omitempty"`
	Right     int      `json:"right,omitempty"`
	Class     *int     `json:"class,omitempty"`
}

// Tree is a decision-tree pipeline exported from training as a flat
// node array rooted at index 0.
type Tree struct {
	Nodes []treeNode `json:"nodes"`
}

func LoadTree(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal model %s: %w", path, err)
	}
	if len(t.Nodes) == 0 {
		return nil, fmt.Errorf("model %s has no nodes", path)
	}
	return &t, nil
}

// Predict walks the tree from the root. The step bound guards against
// malformed artifacts with cycles.
func (t *Tree) Predict(row Row) (int, error) {
	idx := 0
	for steps := 0; steps <= len(t.Nodes); steps++ {
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("node index %d out of range", idx)
		}
		n := t.Nodes[idx]

		if n.Class != nil {
			return *n.Class, nil
		}

		switch {
		case n.Threshold != nil:
			v, ok := row.Numeric[n.Feature]
			if !ok {
				return 0, fmt.Errorf("numeric feature %q missing from row", n.Feature)
			}
			if v <= *n.Threshold {
				idx = n.Left
			} else {
				idx = n.Right
			}
		case n.Equals != nil:
			v, ok := row.Categorical[n.Feature]
			if !ok {
				return 0, fmt.Errorf("categorical feature %q missing from row", n.Feature)
			}
			if v == *n.Equals {
				idx = n.Left
			} else {
				idx = n.Right
			}
		default:
			return 0, fmt.Errorf("node %d is neither split nor leaf", idx)
		}
	}
	return 0, errors.New("tree walk did not terminate")
}

// Model pairs a pipeline with the label encoder trained alongside it.
type Model struct {
	Pipeline Pipeline
	Encoder  Decoder
}

// Bundle holds both trained models. It is built once at process start
// and never mutated afterwards.
type Bundle struct {
	LED     Model
	Curtain Model
}

// BundlePaths names the four artifact files a Bundle is built from.
type BundlePaths struct {
	LEDModel       string
	CurtainModel   string
	LEDEncoder     string
	CurtainEncoder string
}

// LoadBundle loads all four artifacts, failing on the first problem so
// the process can refuse to start with a partial bundle.
func LoadBundle(paths BundlePaths) (*Bundle, error) {
	for _, p := range []string{paths.LEDModel, paths.CurtainModel, paths.LEDEncoder, paths.CurtainEncoder} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("required artifact %s: %w", p, err)
		}
	}

	ledTree, err := LoadTree(paths.LEDModel)
	if err != nil {
		return nil, err
	}
	curtainTree, err := LoadTree(paths.CurtainModel)
	if err != nil {
		return nil, err
	}
	ledEnc, err := LoadEncoder(paths.LEDEncoder)
	if err != nil {
		return nil, err
	}
	curtainEnc, err := LoadEncoder(paths.CurtainEncoder)
	if err != nil {
		return nil, err
	}

	return &Bundle{
		LED:     Model{Pipeline: ledTree, Encoder: ledEnc},
		Curtain: Model{Pipeline: curtainTree, Encoder: curtainEnc},
	}, nil
}
