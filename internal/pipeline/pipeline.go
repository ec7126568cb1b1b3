package pipeline

import (
	"errors"
	"fmt"

	"github.com/kartoza/credit-risk/internal/artifacts"
	"github.com/kartoza/credit-risk/internal/classifier"
	"github.com/kartoza/credit-risk/internal/encoder"
)

var (
	// ErrArtifactMissing reports an artifact that could not be found at startup
	ErrArtifactMissing = errors.New("startup artifact missing")

	// ErrArtifactMalformed reports an artifact that was found but cannot be used
	ErrArtifactMalformed = errors.New("startup artifact malformed")
)

// Pipeline holds the loaded classifier and encoders. It is never mutated
// after construction and may be shared by concurrent requests.
type Pipeline struct {
	model    classifier.Classifier
	encoders map[string]*encoder.Encoder
}

// New builds a pipeline from an already loaded classifier and encoder set
func New(model classifier.Classifier, encoders map[string]*encoder.Encoder) (*Pipeline, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: no classifier", ErrArtifactMissing)
	}
	if err := classifier.CheckSchema(model, FeatureColumns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactMalformed, err)
	}

	p := &Pipeline{
		model:    model,
		encoders: make(map[string]*encoder.Encoder, len(CategoricalFields)),
	}
	for _, field := range CategoricalFields {
		enc, ok := encoders[field]
		if !ok || enc == nil {
			return nil, fmt.Errorf("%w: no encoder for %q", ErrArtifactMissing, field)
		}
		if enc.Field() != field {
			return nil, fmt.Errorf("%w: encoder for %q was fit on %q", ErrArtifactMalformed, field, enc.Field())
		}
		p.encoders[field] = enc
	}
	return p, nil
}

// Load reads the classifier and the four encoders from src
func Load(src artifacts.Source) (*Pipeline, error) {
	data, err := src.Read(artifacts.ClassifierName)
	if err != nil {
		return nil, classifyLoadError(err)
	}
	model, err := classifier.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactMalformed, artifacts.ClassifierName, err)
	}

	encoders := make(map[string]*encoder.Encoder, len(CategoricalFields))
	for _, field := range CategoricalFields {
		name := artifacts.EncoderName(field)
		data, err := src.Read(name)
		if err != nil {
			return nil, classifyLoadError(err)
		}
		enc, err := encoder.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrArtifactMalformed, name, err)
		}
		encoders[field] = enc
	}

	return New(model, encoders)
}

func classifyLoadError(err error) error {
	if errors.Is(err, artifacts.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrArtifactMissing, err)
	}
	return fmt.Errorf("%w: %w", ErrArtifactMalformed, err)
}

// Encode returns the code of label in the encoder for field
func (p *Pipeline) Encode(field, label string) (int, error) {
	enc, ok := p.encoders[field]
	if !ok {
		return 0, &encoder.UnknownCategoryError{Field: field, Label: label}
	}
	return enc.Lookup(label)
}

// Assemble builds the feature vector for a, copying numeric fields and
// encoding categorical ones
func (p *Pipeline) Assemble(a Applicant) (FeatureVector, error) {
	sex, err := p.Encode(FieldSex, a.Sex)
	if err != nil {
		return nil, err
	}
	housing, err := p.Encode(FieldHousing, a.Housing)
	if err != nil {
		return nil, err
	}
	saving, err := p.Encode(FieldSavingAccounts, a.SavingAccounts)
	if err != nil {
		return nil, err
	}
	checking, err := p.Encode(FieldCheckingAccount, a.CheckingAccount)
	if err != nil {
		return nil, err
	}

	return FeatureVector{
		float64(a.Age),
		float64(sex),
		float64(a.Job),
		float64(housing),
		float64(saving),
		float64(checking),
		float64(a.CreditAmount),
		float64(a.Duration),
	}, nil
}

// Predict classifies exactly one feature vector
func (p *Pipeline) Predict(v FeatureVector) (int, error) {
	return p.model.Predict(v)
}

// Run performs one full prediction for a. Any failure aborts the attempt
// and no verdict is produced.
func (p *Pipeline) Run(a Applicant) (Verdict, error) {
	v, err := p.Assemble(a)
	if err != nil {
		return Verdict{}, err
	}
	label, err := p.Predict(v)
	if err != nil {
		return Verdict{}, err
	}
	return Render(label), nil
}

// Vocabulary returns the trained labels of every categorical field
func (p *Pipeline) Vocabulary() map[string][]string {
	vocab := make(map[string][]string, len(p.encoders))
	for field, enc := range p.encoders {
		vocab[field] = enc.Labels()
	}
	return vocab
}

// Schema returns the columns the classifier expects
func (p *Pipeline) Schema() []string {
	return p.model.Features()
}

// ModelKind names the loaded classifier family
func (p *Pipeline) ModelKind() string {
	return p.model.Kind()
}
