package scenario

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var schemaReflector = jsonschema.Reflector{
	DoNotReference:            true,
	AllowAdditionalProperties: false,
}

// Schema returns the JSON Schema for scenario files, indented for display.
func Schema() ([]byte, error) {
	s := schemaReflector.Reflect(&File{})
	s.Title = "payg scenario"
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scenario schema: %w", err)
	}
	return out, nil
}
