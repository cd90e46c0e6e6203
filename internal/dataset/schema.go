package dataset

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://termquiz/dataset.json"

// recordSchema describes a dataset file: an array of question records.
const recordSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "question", "options", "correctIndex", "explanation"],
    "additionalProperties": false,
    "properties": {
      "id":           {"type": "integer", "minimum": 1},
      "question":     {"type": "string", "minLength": 1},
      "options":      {"type": "array", "minItems": 2, "items": {"type": "string"}},
      "correctIndex": {"type": "integer", "minimum": 0},
      "explanation":  {"type": "string"}
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func datasetSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(recordSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse dataset schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add dataset schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks raw dataset JSON against the record schema. It catches
// shape problems (missing fields, wrong types, unknown keys) that Decode
// silently accepts.
func Validate(raw []byte) error {
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := datasetSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
