// Package validate checks normalized records against a JSON schema before
// they leave the pipeline.
package validate

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// defaultSchema is the target shape for validated prospect records.
const defaultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["email"],
  "properties": {
    "email": {"type": "string", "format": "email", "minLength": 3},
    "first_name": {"type": "string", "maxLength": 100},
    "last_name": {"type": "string", "maxLength": 100},
    "job_title": {"type": "string", "maxLength": 200},
    "phone": {"type": "string", "maxLength": 30},
    "linkedin_url": {"type": "string", "maxLength": 500},
    "website_url": {"type": "string", "maxLength": 500},
    "notes": {"type": "string"},
    "company": {
      "type": "object",
      "properties": {
        "name": {"type": "string", "maxLength": 300},
        "domain": {"type": "string", "maxLength": 255},
        "industry": {"type": "string"},
        "size": {"type": "string"},
        "revenue": {"type": "string"},
        "location": {"type": "string"},
        "employee_count": {"type": "integer", "minimum": 0},
        "founded_year": {"type": "integer", "minimum": 1600, "maximum": 2100}
      }
    },
    "custom": {
      "type": "object",
      "additionalProperties": {"type": "string"}
    }
  }
}`

// Validator validates records against a compiled JSON schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// New compiles the built-in prospect schema.
func New() (*Validator, error) {
	return compile(gojsonschema.NewStringLoader(defaultSchema))
}

// NewFromFile compiles a caller-supplied schema document.
func NewFromFile(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "validate: read schema")
	}
	return compile(gojsonschema.NewBytesLoader(data))
}

func compile(loader gojsonschema.JSONLoader) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, eris.Wrap(err, "validate: compile schema")
	}
	return &Validator{schema: schema}, nil
}

// Record validates one record, returning field-level messages. An empty
// slice means the record conforms.
func (v *Validator) Record(rec *model.Record) ([]string, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return nil, eris.Wrap(err, "validate: marshal record")
	}

	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return nil, eris.Wrap(err, "validate: run schema")
	}
	if result.Valid() {
		return nil, nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	return msgs, nil
}
