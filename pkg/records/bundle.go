package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Bundle is the full input contract of the engine: the reporting period and
// the three record collections, already normalized by an ingestion adapter.
type Bundle struct {
	Period       Period        `json:"period"`
	Issues       []Issue       `json:"issues"`
	Commits      []Commit      `json:"commits"`
	PullRequests []PullRequest `json:"pull_requests"`
}

// Bundle validation errors.
var (
	ErrSchemaViolation = errors.New("input bundle violates schema")
	ErrInvalidPeriod   = errors.New("period end must not precede period start")
)

// LoadBundle reads, validates and decodes an input bundle from a JSON file.
// Unknown fields are ignored; structurally invalid input is rejected before
// decoding with a description of every violation.
func LoadBundle(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	return ParseBundle(raw)
}

// ParseBundle validates and decodes an input bundle from raw JSON.
func ParseBundle(raw []byte) (*Bundle, error) {
	validateErr := validateAgainstSchema(raw)
	if validateErr != nil {
		return nil, validateErr
	}

	var bundle Bundle

	decodeErr := json.Unmarshal(raw, &bundle)
	if decodeErr != nil {
		return nil, fmt.Errorf("decode bundle: %w", decodeErr)
	}

	if !bundle.Period.End.IsZero() && bundle.Period.End.Before(bundle.Period.Start) {
		return nil, ErrInvalidPeriod
	}

	return &bundle, nil
}

func validateAgainstSchema(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(bundleSchema)
	inputLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, inputLoader)
	if err != nil {
		return fmt.Errorf("validate bundle: %w", err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, resErr := range result.Errors() {
		violations = append(violations, resErr.String())
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(violations, "; "))
}
