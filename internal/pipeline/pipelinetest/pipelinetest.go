// Package pipelinetest provides artifact fixtures for tests that need a
// loaded pipeline.
package pipelinetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kartoza/credit-risk/internal/artifacts"
	"github.com/kartoza/credit-risk/internal/pipeline"
)

// Model is a single-tree classifier over the standard columns: short
// loans (Duration <= 24) are good, longer ones are good only when the
// credit amount is at most 5000.
const Model = `{
	"kind": "tree_ensemble",
	"features": ["Age", "Sex", "Job", "Housing", "Saving accounts", "Checking account", "Credit amount", "Duration"],
	"trees": [
		{"nodes": [
			{"feature": 7, "threshold": 24, "left": 1, "right": 2},
			{"leaf": true, "value": 1},
			{"feature": 6, "threshold": 5000, "left": 3, "right": 4},
			{"leaf": true, "value": 1},
			{"leaf": true, "value": 0}
		]}
	]
}`

// Encoders holds one encoder artifact per categorical field
var Encoders = map[string]string{
	pipeline.FieldSex:             `{"field": "Sex", "classes": ["female", "male"]}`,
	pipeline.FieldHousing:         `{"field": "Housing", "classes": ["free", "own", "rent"]}`,
	pipeline.FieldSavingAccounts:  `{"field": "Saving accounts", "classes": ["little", "moderate", "quite rich", "rich"]}`,
	pipeline.FieldCheckingAccount: `{"field": "Checking account", "classes": ["little", "moderate", "rich"]}`,
}

// WriteArtifacts writes the fixture model and encoders into dir
func WriteArtifacts(t testing.TB, dir string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, artifacts.ClassifierName), []byte(Model), 0644))
	for field, data := range Encoders {
		path := filepath.Join(dir, artifacts.EncoderName(field))
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	}
}

// New loads a pipeline from freshly written fixture artifacts
func New(t testing.TB) *pipeline.Pipeline {
	t.Helper()

	dir := t.TempDir()
	WriteArtifacts(t, dir)

	p, err := pipeline.Load(artifacts.NewDirSource(dir))
	require.NoError(t, err)
	return p
}

// Applicant returns the reference applicant
// {30, male, 1, own, little, moderate, 300, 10}
func Applicant() pipeline.Applicant {
	return pipeline.Applicant{
		Age:             30,
		Sex:             "male",
		Job:             1,
		Housing:         "own",
		SavingAccounts:  "little",
		CheckingAccount: "moderate",
		CreditAmount:    300,
		Duration:        10,
	}
}
