package utils

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateForm checks application form data against a service's JSON Schema.
// An empty schema accepts anything. The returned slice lists one message per
// violated constraint.
func ValidateForm(schema json.RawMessage, data map[string]interface{}) ([]string, error) {
	if len(schema) == 0 {
		return nil, nil
	}
	if data == nil {
		data = map[string]interface{}{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate form data: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return problems, nil
}

// CheckSchema reports whether schema is a loadable JSON Schema document.
func CheckSchema(schema json.RawMessage) error {
	if len(schema) == 0 {
		return nil
	}
	if _, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema)); err != nil {
		return fmt.Errorf("invalid form schema: %w", err)
	}
	return nil
}
