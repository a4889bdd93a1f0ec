// Package gemini adapts the tool registry's capability descriptors into the
// wire format the Gemini transport expects.
package gemini

import (
	"strings"

	"github.com/invopop/jsonschema"
	"google.golang.org/genai"

	tooltypes "github.com/jothq/jot/pkg/types/tools"
)

// DeclareTools produces the wire-level tool list for a turn. With search
// augmentation enabled a dedicated googleSearch entry comes first; all active
// tools are aggregated into exactly one function-declaration entry. No entry
// is ever empty: zero tools with search disabled yields an empty list.
func DeclareTools(tools []tooltypes.Tool, enableSearch bool) []*genai.Tool {
	var declared []*genai.Tool

	if enableSearch {
		declared = append(declared, &genai.Tool{GoogleSearch: &genai.GoogleSearch{}})
	}

	if len(tools) == 0 {
		return declared
	}

	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declarations = append(declarations, &genai.FunctionDeclaration{
			Name:        tool.Name(),
			Description: tool.Description(),
			Parameters:  normalizeParameters(tool.GenerateSchema()),
		})
	}

	return append(declared, &genai.Tool{FunctionDeclarations: declarations})
}

// normalizeParameters converts a reflected schema into Gemini's schema shape,
// guaranteeing the object/properties/required triple with empty defaults when
// the source schema omits them.
func normalizeParameters(schema *jsonschema.Schema) *genai.Schema {
	normalized := convertSchema(schema)
	if normalized == nil {
		normalized = &genai.Schema{}
	}
	normalized.Type = genai.TypeObject
	if normalized.Properties == nil {
		normalized.Properties = map[string]*genai.Schema{}
	}
	if normalized.Required == nil {
		normalized.Required = []string{}
	}
	return normalized
}

// convertSchema recursively maps a jsonschema node onto genai.Schema.
func convertSchema(schema *jsonschema.Schema) *genai.Schema {
	if schema == nil {
		return nil
	}

	converted := &genai.Schema{
		Type: convertSchemaType(schema.Type),
	}
	if schema.Description != "" {
		converted.Description = schema.Description
	}

	if schema.Properties != nil {
		converted.Properties = make(map[string]*genai.Schema)
		for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
			converted.Properties[pair.Key] = convertSchema(pair.Value)
		}
	}

	if len(schema.Required) > 0 {
		converted.Required = schema.Required
	}

	if schema.Items != nil {
		converted.Items = convertSchema(schema.Items)
	}

	return converted
}

func convertSchemaType(schemaType string) genai.Type {
	switch strings.ToLower(schemaType) {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}
