// Package schema validates assembled scenario records against the embedded
// JSON Schema document. Validation failures are surfaced with the
// validator's own message, unmodified; nothing here ever rewrites a record.
package schema

// #region imports
import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/oasis-observatory/oasis-generator/internal/scenario"
)

// #endregion

// #region document

//go:embed asi_scenario_schema.json
var schemaDoc []byte

const schemaName = "asi_scenario_schema.json"

// #endregion

// #region validator

// Validator wraps the compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema document once.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaName, bytes.NewReader(schemaDoc)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(schemaName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// #endregion

// #region validate

// Validate checks one record against the schema. A non-nil error carries
// the offending path and rule from the validator.
func (v *Validator) Validate(rec *scenario.Scenario) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := v.schema.Validate(payload); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// ValidateRaw checks an arbitrary serialized record, used when re-checking
// rows read back from the store.
func (v *Validator) ValidateRaw(raw []byte) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := v.schema.Validate(payload); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

// #endregion
