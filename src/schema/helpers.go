package schema

import (
	"encoding/json"
	"fmt"

	jsonschema "github.com/swaggest/jsonschema-go"
)

// Draft is the JSON Schema dialect of generated documents.
const Draft = "http://json-schema.org/draft-07/schema#"

// Reflect builds a schema for v with all definitions inlined.
func Reflect(v any, title string) (jsonschema.Schema, error) {
	r := jsonschema.Reflector{}

	s, err := r.Reflect(v, jsonschema.InlineRefs)
	if err != nil {
		return jsonschema.Schema{}, fmt.Errorf("failed to reflect schema: %w", err)
	}

	s.WithSchema(Draft)
	if title != "" {
		s.WithTitle(title)
	}
	return s, nil
}

// MarshalIndent reflects v and encodes the schema as indented JSON.
func MarshalIndent(v any, title string) ([]byte, error) {
	s, err := Reflect(v, title)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}
