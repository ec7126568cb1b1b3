package artifacts

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotFound reports a missing artifact or artifact location
var ErrNotFound = errors.New("artifact not found")

// Fixed artifact names
const (
	ClassifierName = "best_model.json"
	encoderSuffix  = "_encoder.json"
)

// EncoderName returns the artifact name of the encoder fit on field
func EncoderName(field string) string {
	return field + encoderSuffix
}

// Source reads serialized artifacts from durable storage
type Source interface {
	// Read returns the raw bytes of the named artifact
	Read(name string) ([]byte, error)
	// Location describes where artifacts are read from
	Location() string
	Close() error
}

// Open returns a DirSource for a directory and a BundleSource for a file
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if info.IsDir() {
		return NewDirSource(path), nil
	}
	return OpenBundle(path)
}
