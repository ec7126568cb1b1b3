package encoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	enc, err := Parse([]byte(`{"field": "Housing", "classes": ["own", "rent", "free"]}`))
	require.NoError(t, err)

	assert.Equal(t, "Housing", enc.Field())
	assert.Equal(t, []string{"free", "own", "rent"}, enc.Labels())
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"field":`},
		{"missing field", `{"classes": ["a"]}`},
		{"no classes", `{"field": "Sex", "classes": []}`},
		{"duplicate class", `{"field": "Sex", "classes": ["male", "male"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestLookupCodesFollowSortedOrder(t *testing.T) {
	enc, err := New("Saving accounts", []string{"little", "moderate", "rich", "quite rich"})
	require.NoError(t, err)

	expected := map[string]int{
		"little":     0,
		"moderate":   1,
		"quite rich": 2,
		"rich":       3,
	}
	for label, want := range expected {
		got, err := enc.Lookup(label)
		require.NoError(t, err)
		assert.Equal(t, want, got, "code for %q", label)
	}
}

func TestLookupIsDeterministic(t *testing.T) {
	enc, err := New("Sex", []string{"male", "female"})
	require.NoError(t, err)

	first, err := enc.Lookup("male")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := enc.Lookup("male")
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestLookupUnknownCategory(t *testing.T) {
	enc, err := New("Checking account", []string{"little", "moderate", "rich"})
	require.NoError(t, err)

	_, err = enc.Lookup("quite rich")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	var unknown *UnknownCategoryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "Checking account", unknown.Field)
	assert.Equal(t, "quite rich", unknown.Label)
}

func TestLabelsReturnsCopy(t *testing.T) {
	enc, err := New("Sex", []string{"male", "female"})
	require.NoError(t, err)

	labels := enc.Labels()
	labels[0] = "changed"

	code, err := enc.Lookup("female")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "female", enc.Labels()[0])
}
