package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Push payloads are host input and get schema-checked before they reach
// any handler; a bad push is dropped, never crashes the handler chain.

const pushSchemaJSON = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"type": "string", "minLength": 1}
  }
}`

const openSchemaJSON = `{
  "type": "object",
  "required": ["type", "vendor", "stock"],
  "properties": {
    "type": {"const": "vendor:open"},
    "vendor": {
      "type": "object",
      "required": ["id", "items"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "items": {"type": "array"}
      }
    },
    "stock": {"type": "object"},
    "limits": {"type": "object"}
  }
}`

var (
	pushSchema = jsonschema.MustCompileString("push.schema.json", pushSchemaJSON)
	openSchema = jsonschema.MustCompileString("open.schema.json", openSchemaJSON)
)

// validatePush checks a raw push against the envelope schema and, for
// known types, the type-specific schema. Returns the push type.
func validatePush(raw []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("parse push: %w", err)
	}
	if err := pushSchema.Validate(doc); err != nil {
		return "", fmt.Errorf("push envelope: %w", err)
	}
	typ := doc.(map[string]any)["type"].(string)
	if typ == EventOpen {
		if err := openSchema.Validate(doc); err != nil {
			return "", fmt.Errorf("open push: %w", err)
		}
	}
	return typ, nil
}
