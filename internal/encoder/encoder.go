package encoder

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownCategory is matched by every UnknownCategoryError
	ErrUnknownCategory = errors.New("unknown category")

	// ErrMalformed reports an encoder artifact that cannot be used
	ErrMalformed = errors.New("malformed encoder artifact")
)

// UnknownCategoryError reports a label outside the encoder's trained vocabulary
type UnknownCategoryError struct {
	Field string
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for field %q", e.Label, e.Field)
}

// Is lets errors.Is match ErrUnknownCategory
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory
}

// Encoder maps the labels of one categorical field to integer codes.
// The code of a label is its index in the sorted class list, which is how
// label encoders assign codes when they are fit.
type Encoder struct {
	field   string
	classes []string
	codes   map[string]int
}

// artifact is the on-disk form of an encoder
type artifact struct {
	Field   string   `json:"field"`
	Classes []string `json:"classes"`
}

// New builds an encoder for field from its trained classes
func New(field string, classes []string) (*Encoder, error) {
	if field == "" {
		return nil, fmt.Errorf("%w: field name is empty", ErrMalformed)
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: no classes for field %q", ErrMalformed, field)
	}

	sorted := make([]string, len(classes))
	copy(sorted, classes)
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	for i, label := range sorted {
		if _, dup := codes[label]; dup {
			return nil, fmt.Errorf("%w: duplicate class %q for field %q", ErrMalformed, label, field)
		}
		codes[label] = i
	}

	return &Encoder{
		field:   field,
		classes: sorted,
		codes:   codes,
	}, nil
}

// Parse decodes an encoder artifact
func Parse(data []byte) (*Encoder, error) {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return New(a.Field, a.Classes)
}

// Lookup returns the code for label, or an UnknownCategoryError
func (e *Encoder) Lookup(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, &UnknownCategoryError{Field: e.field, Label: label}
	}
	return code, nil
}

// Field returns the name of the field this encoder was fit on
func (e *Encoder) Field() string {
	return e.field
}

// Labels returns a copy of the trained vocabulary in code order
func (e *Encoder) Labels() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}
