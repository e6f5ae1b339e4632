package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildJobFieldsSchema returns the JSON schema the model response must match.
// All fields are optional: a missing title is filled by the fallback chain.
func BuildJobFieldsSchema() map[string]any {
	str := map[string]any{"type": "string"}
	strList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"title":            str,
			"summary":          str,
			"description":      str,
			"responsibilities": strList,
			"skills":           strList,
			"seniority":        str,
			"employment_type":  str,
			"category":         str,
		},
		"additionalProperties": false,
	}
}

// ValidateJSONAgainstSchema parses doc and validates it against the schema.
// Any parse failure is a hard error; there is no partial best-effort path.
func ValidateJSONAgainstSchema(schema map[string]any, doc []byte) error {
	sb, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("job_fields.json", bytes.NewReader(sb)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := compiler.Compile("job_fields.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("parse model response as json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return fmt.Errorf("model response does not match schema: %w", err)
	}
	return nil
}
