package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ConfigFileSchema returns the JSON Schema the config file must satisfy.
func ConfigFileSchema() map[string]any {
	str := map[string]any{"type": "string"}
	boolean := map[string]any{"type": "boolean"}
	posInt := map[string]any{"type": "integer", "minimum": 1}
	posNum := map[string]any{"type": "number", "exclusiveMinimum": 0}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			KeyOutputText:    str,
			KeyOutputExcel:   str,
			KeyNoOCR:         boolean,
			KeyNoLLM:         boolean,
			KeyNoTables:      boolean,
			KeyNoMultiColumn: boolean,
			KeyTesseractPath: str,
			KeyPdftoppmPath:  str,
			KeyOCRLang:       map[string]any{"type": "string", "minLength": 1},
			KeyDPI:           map[string]any{"type": "integer", "minimum": 50, "maximum": 1200},
			KeyOCREngine:     map[string]any{"type": "string", "enum": []string{"tesseract", "gosseract"}},
			KeyTessdataDir:   str,
			KeyOpenAIKey:     str,
			KeyOpenAIModel:   map[string]any{"type": "string", "minLength": 1},
			KeyOpenAIBaseURL: str,
			KeyVerbose:       boolean,
			KeyLogFormat:     map[string]any{"type": "string", "enum": []string{"text", "json"}},
			"llm": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"temperature": map[string]any{"type": "number", "minimum": 0, "maximum": 2},
					"max_tokens":  posInt,
					"timeout":     str,
					"max_retries": map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"layout": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"min_gap_width":    posNum,
					"min_column_width": posNum,
					"max_columns":      posInt,
					"min_fragments":    posInt,
				},
			},
			"tables": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"min_rows":        posInt,
					"min_cols":        posInt,
					"align_tolerance": posNum,
				},
			},
		},
	}
}

// ValidateConfigFile decodes the YAML file at path and checks it against ConfigFileSchema.
func ValidateConfigFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		return nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return ValidateJSONAgainstSchema(ConfigFileSchema(), data)
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
