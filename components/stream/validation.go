package stream

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const activitySchemaName = "activity.json"

// ErrInvalidActivity marks payloads rejected by the activity schema.
var ErrInvalidActivity = errors.New("stream: invalid activity")

// activitySchema describes inbound activity payloads.
const activitySchema = `{
  "type": "object",
  "required": ["affecteduser", "type", "timestamp"],
  "properties": {
    "id": {"type": "string"},
    "app": {"type": "string"},
    "type": {"type": "string", "minLength": 1},
    "user": {"type": "string"},
    "affecteduser": {"type": "string", "minLength": 1},
    "timestamp": {"type": "integer", "minimum": 0},
    "subject": {"type": "string"},
    "subjectformatted": {"$ref": "#/definitions/formatted"},
    "message": {"type": "string"},
    "messageformatted": {"$ref": "#/definitions/formatted"},
    "link": {"type": "string"},
    "file": {"type": "string"}
  },
  "definitions": {
    "formatted": {
      "type": "object",
      "properties": {
        "full": {"type": "string"},
        "trimmed": {"type": "string"},
        "markup": {
          "type": "object",
          "properties": {
            "full": {"type": "string"},
            "trimmed": {"type": "string"}
          }
        }
      }
    }
  }
}`

// ActivityValidator checks activity payloads against the activity JSON schema.
type ActivityValidator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewActivityValidator builds a validator backed by jsonschema v5.
func NewActivityValidator() *ActivityValidator {
	return &ActivityValidator{}
}

// ValidatePayload validates a decoded JSON/YAML document.
func (v *ActivityValidator) ValidatePayload(payload any) error {
	schema, err := v.schema()
	if err != nil {
		return err
	}
	normalized, err := normalizePayload(payload)
	if err != nil {
		return err
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidActivity, err)
	}
	return nil
}

// Validate checks a typed record.
func (v *ActivityValidator) Validate(record ActivityRecord) error {
	return v.ValidatePayload(record)
}

func (v *ActivityValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(activitySchemaName, strings.NewReader(activitySchema)); err != nil {
			v.err = fmt.Errorf("stream: load activity schema: %w", err)
			return
		}
		v.compiled, v.err = compiler.Compile(activitySchemaName)
		if v.err != nil {
			v.err = fmt.Errorf("stream: compile activity schema: %w", v.err)
		}
	})
	return v.compiled, v.err
}

// normalizePayload round-trips through JSON so numbers and maps take the
// shapes the schema validator expects.
func normalizePayload(payload any) (any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("stream: marshal activity: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var normalized any
	if err := decoder.Decode(&normalized); err != nil {
		return nil, fmt.Errorf("stream: normalize activity: %w", err)
	}
	return normalized, nil
}

// DecodeActivities reads a JSON or YAML document holding either a single
// activity or a list of them, validating every entry.
func DecodeActivities(r io.Reader, validator *ActivityValidator) ([]ActivityRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("stream: read activities: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("stream: activity document is empty")
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("stream: parse activities: %w", err)
	}
	entries, ok := raw.([]any)
	if !ok {
		entries = []any{raw}
	}
	if validator == nil {
		validator = NewActivityValidator()
	}
	records := make([]ActivityRecord, 0, len(entries))
	for idx, entry := range entries {
		if err := validator.ValidatePayload(entry); err != nil {
			return nil, fmt.Errorf("stream: activity at index %d: %w", idx, err)
		}
		normalized, err := json.Marshal(entry)
		if err != nil {
			return nil, fmt.Errorf("stream: activity at index %d: %w", idx, err)
		}
		var record ActivityRecord
		if err := json.Unmarshal(normalized, &record); err != nil {
			return nil, fmt.Errorf("stream: activity at index %d: %w", idx, err)
		}
		records = append(records, record)
	}
	return records, nil
}
