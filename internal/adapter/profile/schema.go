package profile

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"

	"packdeck/internal/domain"
)

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// schemaDocument describes a profile file. Toggle names are enumerated
// from the catalog.
func schemaDocument() map[string]any {
	toggles := make([]string, 0, len(domain.ToggleCatalog))
	for _, spec := range domain.ToggleCatalog {
		toggles = append(toggles, string(spec.Toggle))
	}
	str := map[string]any{"type": "string"}
	strObject := func(keys ...string) map[string]any {
		props := make(map[string]any, len(keys))
		for _, k := range keys {
			props[k] = str
		}
		return map[string]any{"type": "object", "additionalProperties": false, "properties": props}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"interpreter": str,
			"script":      str,
			"icon":        str,
			"output_dir":  str,
			"toggles": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items":       map[string]any{"type": "string", "enum": toggles},
			},
			"resources": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []string{"kind", "source", "destination"},
					"properties": map[string]any{
						"kind":        map[string]any{"type": "string", "enum": []string{string(domain.ResourceFile), string(domain.ResourceDirectory)}},
						"source":      str,
						"destination": str,
					},
				},
			},
			"plugins": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items":       map[string]any{"type": "string", "minLength": 1},
			},
			"include": strObject("packages", "package_data", "modules", "noinclude_data", "onefile_external_data", "raw_dirs"),
			"python_flags": map[string]any{
				"type":        "array",
				"uniqueItems": true,
				"items":       map[string]any{"type": "string", "pattern": "^--python-flag=.+"},
			},
			"metadata":  strObject("company", "product", "file_version", "product_version", "file_description", "copyright"),
			"force_env": str,
		},
	}
}

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		raw, err := json.Marshal(schemaDocument())
		if err != nil {
			schemaErr = fmt.Errorf("marshal profile schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		compiledSchema, schemaErr = compiler.Compile(raw)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile profile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validate checks a generic decoded document against the profile schema.
func validate(doc any) error {
	s, err := schema()
	if err != nil {
		return err
	}
	result := s.Validate(doc)
	if !result.IsValid() {
		return fmt.Errorf("%s", result.Error())
	}
	return nil
}
