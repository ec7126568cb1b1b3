package pipeline

import "fmt"

// Outcome is the human-readable risk class
type Outcome string

const (
	OutcomeGood Outcome = "GOOD"
	OutcomeBad  Outcome = "BAD"
)

// Style tells the display how to present a verdict
type Style string

const (
	StyleSuccess Style = "success"
	StyleError   Style = "error"
)

// Verdict is the rendered result of one prediction
type Verdict struct {
	Label   int
	Outcome Outcome
	Style   Style
}

// Render maps label 1 to a success-styled GOOD verdict and every other
// label to an error-styled BAD verdict
func Render(label int) Verdict {
	if label == 1 {
		return Verdict{Label: label, Outcome: OutcomeGood, Style: StyleSuccess}
	}
	return Verdict{Label: label, Outcome: OutcomeBad, Style: StyleError}
}

// Message is the text shown to the user
func (v Verdict) Message() string {
	return fmt.Sprintf("The predicted Risk is : %s", v.Outcome)
}
