package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformed reports a classifier artifact that cannot be used
	ErrMalformed = errors.New("malformed classifier artifact")

	// ErrSchemaMismatch reports a feature vector whose shape differs from
	// the schema the classifier was trained on
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)

// Supported model kinds
const (
	KindTreeEnsemble = "tree_ensemble"
	KindLogistic     = "logistic"
)

// DefaultThreshold is the class-1 score at or above which a model predicts 1
const DefaultThreshold = 0.5

// Classifier is a pre-trained binary decision function over a feature vector
type Classifier interface {
	// Predict returns a label in {0,1} for exactly one feature vector
	Predict(features []float64) (int, error)
	// Features returns the column names the model expects, in order
	Features() []string
	// Kind names the model family
	Kind() string
}

// artifact is the on-disk form of every supported model
type artifact struct {
	Kind      string   `json:"kind"`
	Features  []string `json:"features"`
	Threshold *float64 `json:"threshold,omitempty"`

	// tree_ensemble
	Trees []tree `json:"trees,omitempty"`

	// logistic
	Coefficients []float64 `json:"coefficients,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
}

// Parse decodes and validates a classifier artifact
func Parse(data []byte) (Classifier, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(a.Features) == 0 {
		return nil, fmt.Errorf("%w: no feature schema", ErrMalformed)
	}

	threshold := DefaultThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	switch a.Kind {
	case KindTreeEnsemble:
		return newTreeEnsemble(a.Features, a.Trees, threshold)
	case KindLogistic:
		return newLogistic(a.Features, a.Coefficients, a.Intercept, threshold)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrMalformed, a.Kind)
	}
}

// CheckSchema verifies that c expects exactly the given columns in order
func CheckSchema(c Classifier, columns []string) error {
	features := c.Features()
	if len(features) != len(columns) {
		return fmt.Errorf("%w: model expects %d columns, pipeline assembles %d",
			ErrSchemaMismatch, len(features), len(columns))
	}
	for i := range features {
		if features[i] != columns[i] {
			return fmt.Errorf("%w: column %d is %q in the model but %q in the pipeline",
				ErrSchemaMismatch, i, features[i], columns[i])
		}
	}
	return nil
}

func checkWidth(features []string, input []float64) error {
	if len(input) != len(features) {
		return fmt.Errorf("%w: got %d values, expected %d", ErrSchemaMismatch, len(input), len(features))
	}
	return nil
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
