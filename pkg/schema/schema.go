// Package schema validates workspace documents against the JSON Schema
// the engine semantically requires, producing field-path errors suitable
// for a 422 response payload.
package schema

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// workspaceSchema is the JSON Schema every workspace document must satisfy.
// It covers required fields and basic shapes only; the engine performs the
// remaining semantic checks (endpoint existence, type tags) at load time.
const workspaceSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["metadata", "ontology_def", "graph_data", "action_engine"],
  "properties": {
    "metadata": {
      "type": "object",
      "required": ["domain"],
      "properties": {
        "domain": {"type": "string"},
        "version": {"type": "string"},
        "description": {"type": "string"}
      }
    },
    "ontology_def": {
      "type": "object",
      "required": ["node_types", "edge_types"],
      "properties": {
        "node_types": {"type": "object"},
        "edge_types": {"type": "object"}
      }
    },
    "graph_data": {
      "type": "object",
      "required": ["nodes", "edges"],
      "properties": {
        "nodes": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "type"],
            "properties": {
              "id": {"type": "string"},
              "type": {"type": "string"},
              "properties": {"type": "object"}
            }
          }
        },
        "edges": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["source", "target", "type"],
            "properties": {
              "source": {"type": "string"},
              "target": {"type": "string"},
              "type": {"type": "string"},
              "properties": {"type": "object"}
            }
          }
        }
      }
    },
    "action_engine": {
      "type": "object",
      "required": ["actions"],
      "properties": {
        "actions": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["action_id", "target_node_type", "display_name"],
            "properties": {
              "action_id": {"type": "string"},
              "target_node_type": {"type": "string"},
              "display_name": {"type": "string"},
              "direct_effect": {
                "type": "object",
                "required": ["property_to_update"],
                "properties": {
                  "property_to_update": {"type": "string"}
                }
              },
              "ripple_rules": {
                "type": "array",
                "items": {
                  "type": "object",
                  "required": ["rule_id", "propagation_path", "effect_on_target"],
                  "properties": {
                    "rule_id": {"type": "string"},
                    "propagation_path": {"type": "string"},
                    "condition": {"type": "string"},
                    "effect_on_target": {
                      "type": "object",
                      "required": ["action_to_trigger"],
                      "properties": {
                        "action_to_trigger": {"type": "string"},
                        "parameters": {"type": "object"}
                      }
                    },
                    "insight_template": {"type": "string"},
                    "insight_type": {"type": "string"},
                    "insight_severity": {"type": "string"}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// FieldError describes one failing field in a workspace document
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidateWorkspace checks a raw workspace document against the schema.
// It returns the failing field paths, or nil when the document is valid.
// A document that is not parseable JSON at all is reported through err.
func ValidateWorkspace(document []byte) ([]FieldError, error) {
	schemaLoader := gojsonschema.NewStringLoader(workspaceSchema)
	documentLoader := gojsonschema.NewBytesLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotValidatable, err)
	}

	if result.Valid() {
		return nil, nil
	}

	fieldErrors := make([]FieldError, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		fieldErrors = append(fieldErrors, FieldError{
			Field:       e.Field(),
			Description: e.Description(),
		})
	}
	return fieldErrors, nil
}
