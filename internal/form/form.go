package form

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/kartoza/credit-risk/internal/pipeline"
)

// ErrInvalidInput is matched by every ValidationError
var ErrInvalidInput = errors.New("invalid input")

// Kind distinguishes numeric inputs from choice lists
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Field describes one input widget
type Field struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Min     *int     `json:"min,omitempty"`
	Max     *int     `json:"max,omitempty"`
	Default *int     `json:"default,omitempty"`
	Choices []string `json:"choices,omitempty"`
}

// ValidationError reports a submitted value the widget would not accept
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is lets errors.Is match ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func intPtr(v int) *int {
	return &v
}

// displayOrder is the order the choice widgets list their options in. The
// first entry is the one selected on an empty form.
var displayOrder = map[string][]string{
	pipeline.FieldSex:             {"male", "female"},
	pipeline.FieldHousing:         {"own", "rent", "free"},
	pipeline.FieldSavingAccounts:  {"little", "moderate", "rich", "quite rich"},
	pipeline.FieldCheckingAccount: {"moderate", "little", "rich"},
}

// choices returns the vocabulary of field, listed in display order.
// Labels without a display position follow in vocabulary order; display
// entries the encoder does not know are dropped.
func choices(field string, vocab map[string][]string) []string {
	labels := vocab[field]
	out := make([]string, 0, len(labels))
	for _, c := range displayOrder[field] {
		if slices.Contains(labels, c) {
			out = append(out, c)
		}
	}
	for _, c := range labels {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Fields returns the eight inputs in feature order. Choice lists come from
// the encoder vocabulary so every offered value can be encoded.
func Fields(vocab map[string][]string) []Field {
	return []Field{
		{Name: pipeline.FieldAge, Label: "Age", Kind: KindNumeric, Min: intPtr(18), Max: intPtr(80), Default: intPtr(30)},
		{Name: pipeline.FieldSex, Label: "Sex", Kind: KindCategorical, Choices: choices(pipeline.FieldSex, vocab)},
		{Name: pipeline.FieldJob, Label: "Job (0-3)", Kind: KindNumeric, Min: intPtr(0), Max: intPtr(3), Default: intPtr(1)},
		{Name: pipeline.FieldHousing, Label: "Housing", Kind: KindCategorical, Choices: choices(pipeline.FieldHousing, vocab)},
		{Name: pipeline.FieldSavingAccounts, Label: "Saving accounts", Kind: KindCategorical, Choices: choices(pipeline.FieldSavingAccounts, vocab)},
		{Name: pipeline.FieldCheckingAccount, Label: "Checking account", Kind: KindCategorical, Choices: choices(pipeline.FieldCheckingAccount, vocab)},
		{Name: pipeline.FieldCreditAmount, Label: "Credit amount", Kind: KindNumeric, Min: intPtr(10), Default: intPtr(300)},
		{Name: pipeline.FieldDuration, Label: "Duration (months)", Kind: KindNumeric, Min: intPtr(1), Default: intPtr(10)},
	}
}

// Parse converts submitted form values into an applicant, enforcing the
// same bounds and choice lists the widgets offer
func Parse(fields []Field, values url.Values) (pipeline.Applicant, error) {
	ints := make(map[string]int)
	strs := make(map[string]string)

	for _, f := range fields {
		raw := strings.TrimSpace(values.Get(f.Name))

		switch f.Kind {
		case KindNumeric:
			n, err := f.parseNumber(raw)
			if err != nil {
				return pipeline.Applicant{}, err
			}
			ints[f.Name] = n
		case KindCategorical:
			if err := f.checkChoice(raw); err != nil {
				return pipeline.Applicant{}, err
			}
			strs[f.Name] = raw
		}
	}

	return pipeline.Applicant{
		Age:             ints[pipeline.FieldAge],
		Sex:             strs[pipeline.FieldSex],
		Job:             ints[pipeline.FieldJob],
		Housing:         strs[pipeline.FieldHousing],
		SavingAccounts:  strs[pipeline.FieldSavingAccounts],
		CheckingAccount: strs[pipeline.FieldCheckingAccount],
		CreditAmount:    ints[pipeline.FieldCreditAmount],
		Duration:        ints[pipeline.FieldDuration],
	}, nil
}

func (f Field) parseNumber(raw string) (int, error) {
	if raw == "" {
		if f.Default != nil {
			return *f.Default, nil
		}
		return 0, &ValidationError{Field: f.Name, Message: "value is required"}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: f.Name, Message: fmt.Sprintf("%q is not a whole number", raw)}
	}
	if err := f.checkRange(n); err != nil {
		return 0, err
	}
	return n, nil
}

func (f Field) checkRange(n int) error {
	if f.Min != nil && n < *f.Min {
		return &ValidationError{Field: f.Name, Message: fmt.Sprintf("must be at least %d", *f.Min)}
	}
	if f.Max != nil && n > *f.Max {
		return &ValidationError{Field: f.Name, Message: fmt.Sprintf("must be at most %d", *f.Max)}
	}
	return nil
}

// CheckBounds validates the numeric fields of an applicant that was not
// collected through Parse. Categorical values are left to the encoders.
func CheckBounds(fields []Field, a pipeline.Applicant) error {
	numbers := map[string]int{
		pipeline.FieldAge:          a.Age,
		pipeline.FieldJob:          a.Job,
		pipeline.FieldCreditAmount: a.CreditAmount,
		pipeline.FieldDuration:     a.Duration,
	}
	for _, f := range fields {
		if f.Kind != KindNumeric {
			continue
		}
		if err := f.checkRange(numbers[f.Name]); err != nil {
			return err
		}
	}
	return nil
}

func (f Field) checkChoice(raw string) error {
	for _, c := range f.Choices {
		if c == raw {
			return nil
		}
	}
	return &ValidationError{Field: f.Name, Message: fmt.Sprintf("%q is not one of the offered choices", raw)}
}
