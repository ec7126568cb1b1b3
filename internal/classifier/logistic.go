package classifier

import (
	"fmt"
	"math"
)

// Logistic is a linear model squashed through the logistic function
type Logistic struct {
	features     []string
	coefficients []float64
	intercept    float64
	threshold    float64
}

func newLogistic(features []string, coefficients []float64, intercept, threshold float64) (*Logistic, error) {
	if len(coefficients) != len(features) {
		return nil, fmt.Errorf("%w: %d coefficients for %d features",
			ErrMalformed, len(coefficients), len(features))
	}
	coef := make([]float64, len(coefficients))
	copy(coef, coefficients)

	return &Logistic{
		features:     copyStrings(features),
		coefficients: coef,
		intercept:    intercept,
		threshold:    threshold,
	}, nil
}

// Score returns the class-1 probability
func (m *Logistic) Score(features []float64) (float64, error) {
	if err := checkWidth(m.features, features); err != nil {
		return 0, err
	}
	z := m.intercept
	for i, w := range m.coefficients {
		z += w * features[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

// Predict implements Classifier
func (m *Logistic) Predict(features []float64) (int, error) {
	score, err := m.Score(features)
	if err != nil {
		return 0, err
	}
	if score >= m.threshold {
		return 1, nil
	}
	return 0, nil
}

// Features implements Classifier
func (m *Logistic) Features() []string {
	return copyStrings(m.features)
}

// Kind implements Classifier
func (m *Logistic) Kind() string {
	return KindLogistic
}
