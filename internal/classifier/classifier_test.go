package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = []string{"Age", "Sex", "Job", "Housing", "Saving accounts", "Checking account", "Credit amount", "Duration"}

// Splits on Duration (index 7) then Credit amount (index 6)
const testTreeModel = `{
	"kind": "tree_ensemble",
	"features": ["Age", "Sex", "Job", "Housing", "Saving accounts", "Checking account", "Credit amount", "Duration"],
	"trees": [
		{"nodes": [
			{"feature": 7, "threshold": 24, "left": 1, "right": 2},
			{"leaf": true, "value": 0.9},
			{"feature": 6, "threshold": 5000, "left": 3, "right": 4},
			{"leaf": true, "value": 0.6},
			{"leaf": true, "value": 0.1}
		]},
		{"nodes": [
			{"feature": 0, "threshold": 25, "left": 1, "right": 2},
			{"leaf": true, "value": 0.2},
			{"leaf": true, "value": 0.8}
		]}
	]
}`

const testLogisticModel = `{
	"kind": "logistic",
	"features": ["Age", "Sex", "Job", "Housing", "Saving accounts", "Checking account", "Credit amount", "Duration"],
	"coefficients": [0.02, 0.1, 0.1, -0.2, 0.3, 0.4, -0.0002, -0.05],
	"intercept": 0.1
}`

func TestParseTreeEnsemble(t *testing.T) {
	model, err := Parse([]byte(testTreeModel))
	require.NoError(t, err)

	assert.Equal(t, KindTreeEnsemble, model.Kind())
	assert.Equal(t, testColumns, model.Features())
	assert.NoError(t, CheckSchema(model, testColumns))
}

func TestTreeEnsemblePredict(t *testing.T) {
	model, err := Parse([]byte(testTreeModel))
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    []float64
		expected int
	}{
		// (0.9 + 0.8) / 2
		{"short duration, older", []float64{30, 1, 1, 1, 0, 1, 300, 10}, 1},
		// (0.9 + 0.2) / 2 = 0.55
		{"short duration, young", []float64{20, 1, 1, 1, 0, 1, 300, 10}, 1},
		// (0.1 + 0.2) / 2
		{"long and large, young", []float64{20, 0, 2, 2, 1, 0, 9000, 48}, 0},
		// (0.6 + 0.2) / 2 = 0.4
		{"long and small, young", []float64{20, 0, 2, 2, 1, 0, 1000, 48}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, err := model.Predict(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, label)
		})
	}
}

func TestLogisticPredict(t *testing.T) {
	model, err := Parse([]byte(testLogisticModel))
	require.NoError(t, err)
	assert.Equal(t, KindLogistic, model.Kind())

	logistic := model.(*Logistic)

	score, err := logistic.Score([]float64{30, 1, 1, 1, 0, 1, 300, 10})
	require.NoError(t, err)
	assert.InDelta(t, 0.6318, score, 0.001)

	label, err := model.Predict([]float64{30, 1, 1, 1, 0, 1, 300, 10})
	require.NoError(t, err)
	assert.Equal(t, 1, label)

	label, err = model.Predict([]float64{20, 0, 0, 2, 0, 0, 15000, 60})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestCustomThreshold(t *testing.T) {
	model, err := Parse([]byte(`{
		"kind": "logistic",
		"features": ["x"],
		"coefficients": [0],
		"intercept": 0,
		"threshold": 0.6
	}`))
	require.NoError(t, err)

	// sigmoid(0) = 0.5, below 0.6
	label, err := model.Predict([]float64{42})
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}

func TestPredictSchemaMismatch(t *testing.T) {
	for _, src := range []string{testTreeModel, testLogisticModel} {
		model, err := Parse([]byte(src))
		require.NoError(t, err)

		_, err = model.Predict([]float64{1, 2, 3})
		assert.ErrorIs(t, err, ErrSchemaMismatch)
	}
}

func TestCheckSchema(t *testing.T) {
	model, err := Parse([]byte(testLogisticModel))
	require.NoError(t, err)

	swapped := append([]string{}, testColumns...)
	swapped[0], swapped[1] = swapped[1], swapped[0]
	assert.ErrorIs(t, CheckSchema(model, swapped), ErrSchemaMismatch)
	assert.ErrorIs(t, CheckSchema(model, testColumns[:7]), ErrSchemaMismatch)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"kind":`},
		{"unknown kind", `{"kind": "svm", "features": ["x"]}`},
		{"no features", `{"kind": "logistic", "coefficients": []}`},
		{"coefficient count", `{"kind": "logistic", "features": ["x", "y"], "coefficients": [1]}`},
		{"no trees", `{"kind": "tree_ensemble", "features": ["x"], "trees": []}`},
		{"empty tree", `{"kind": "tree_ensemble", "features": ["x"], "trees": [{"nodes": []}]}`},
		{"feature out of range", `{"kind": "tree_ensemble", "features": ["x"], "trees": [{"nodes": [
			{"feature": 3, "threshold": 1, "left": 1, "right": 2},
			{"leaf": true, "value": 1},
			{"leaf": true, "value": 0}
		]}]}`},
		{"child out of range", `{"kind": "tree_ensemble", "features": ["x"], "trees": [{"nodes": [
			{"feature": 0, "threshold": 1, "left": 1, "right": 7},
			{"leaf": true, "value": 1}
		]}]}`},
		{"cycle", `{"kind": "tree_ensemble", "features": ["x"], "trees": [{"nodes": [
			{"feature": 0, "threshold": 1, "left": 1, "right": 2},
			{"leaf": true, "value": 1},
			{"feature": 0, "threshold": 2, "left": 2, "right": 1}
		]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
