package conformance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance case: a serialized query document
// plus the outcome the pipeline must produce for it.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is the JSON query document handed to the decoder.
	Query string `yaml:"query"`

	// WantSQL marks a scenario whose document must decode and translate;
	// the rendered SQL is compared against testdata/golden/<name>.golden.
	WantSQL bool `yaml:"want_sql,omitempty"`

	// WantError names the error class that must reject the document.
	// One of "vocabulary", "shape" or "depth".
	WantError string `yaml:"want_error,omitempty"`
}

// Error class constants.
const (
	ErrorClassVocabulary = "vocabulary"
	ErrorClassShape      = "shape"
	ErrorClassDepth      = "depth"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "want_errors:" vs "want_error:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Query == "" {
		return fmt.Errorf("query is required")
	}
	if !json.Valid([]byte(s.Query)) {
		return fmt.Errorf("query is not valid JSON")
	}

	if s.WantSQL && s.WantError != "" {
		return fmt.Errorf("want_sql and want_error are mutually exclusive")
	}
	if !s.WantSQL && s.WantError == "" {
		return fmt.Errorf("one of want_sql or want_error is required")
	}

	switch s.WantError {
	case "", ErrorClassVocabulary, ErrorClassShape, ErrorClassDepth:
	default:
		return fmt.Errorf("unknown error class %q", s.WantError)
	}

	return nil
}
