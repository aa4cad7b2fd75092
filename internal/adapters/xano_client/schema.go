package xano_client

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemasFS embed.FS

const propertyItemSchemaPath = "schemas/property_item.json"

// propertyItemSchema - минимальный контракт элемента выдачи: объект с непустым id
var propertyItemSchema = mustCompileSchema(propertyItemSchemaPath)

func mustCompileSchema(path string) *jsonschema.Schema {
	raw, err := schemasFS.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded schema %s: %v", path, err))
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(path, bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("failed to add schema resource %s: %v", path, err))
	}
	schema, err := compiler.Compile(path)
	if err != nil {
		panic(fmt.Sprintf("failed to compile schema %s: %v", path, err))
	}
	return schema
}

// validatePropertyItem проверяет сырой элемент до маппинга в DTO
func validatePropertyItem(raw json.RawMessage) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var v interface{}
	if err := decoder.Decode(&v); err != nil {
		return fmt.Errorf("item is not a valid JSON: %w", err)
	}
	if err := propertyItemSchema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
