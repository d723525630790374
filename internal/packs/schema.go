// ABOUTME: JSON Schema generation for tool inputs and validation of tool definitions.
// ABOUTME: Schemas are reflected from Go input structs and compiled once at registration.

package packs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidSchema indicates a tool definition carries an unusable input schema.
var ErrInvalidSchema = errors.New("invalid tool schema")

// GenerateSchema reflects a JSON Schema for the input struct T.
// Fields tagged omitempty are optional; everything else is required.
func GenerateSchema[T any]() json.RawMessage {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""

	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("generating schema for %T: %v", v, err))
	}
	return data
}

// Define builds a ToolDefinition whose input schema is reflected from T.
func Define[T any](name, description string) *ToolDefinition {
	return &ToolDefinition{
		Name:        name,
		Description: description,
		InputSchema: GenerateSchema[T](),
	}
}

// compileSchema checks the shape of a tool definition and compiles its input schema.
func compileSchema(def *ToolDefinition) (*validator.Schema, error) {
	if def == nil || def.Name == "" {
		return nil, fmt.Errorf("%w: tool name cannot be empty", ErrInvalidSchema)
	}

	var params map[string]any
	if err := json.Unmarshal(def.InputSchema, &params); err != nil {
		return nil, fmt.Errorf("%w: tool '%s': input schema must be a JSON object", ErrInvalidSchema, def.Name)
	}

	if typ, _ := params["type"].(string); typ != "object" {
		return nil, fmt.Errorf("%w: tool '%s': input schema type must be 'object', got %v", ErrInvalidSchema, def.Name, params["type"])
	}

	if required, exists := params["required"]; exists {
		list, ok := required.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: tool '%s': 'required' must be an array", ErrInvalidSchema, def.Name)
		}
		for i, item := range list {
			if _, ok := item.(string); !ok {
				return nil, fmt.Errorf("%w: tool '%s': required[%d] must be a string", ErrInvalidSchema, def.Name, i)
			}
		}
	}

	url := "mem://tools/" + def.Name + ".json"
	compiler := validator.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(string(def.InputSchema))); err != nil {
		return nil, fmt.Errorf("%w: tool '%s': %v", ErrInvalidSchema, def.Name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%w: tool '%s': %v", ErrInvalidSchema, def.Name, err)
	}
	return schema, nil
}
