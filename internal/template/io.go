package template

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/objedit/jsonshape/internal/errors"
)

// LoadFile reads a previously saved template from a JSON file. The file
// format is the Template's own JSON encoding:
//
//	{"fields": {"name": {"type": "string", "required": true}}, "sampleSize": 3}
func LoadFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewTemplateError(
				fmt.Sprintf("template file '%s' not found", path),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewTemplateError(
			fmt.Sprintf("failed to read template file '%s'", path),
			err,
		)
	}

	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, errors.NewTemplateError(
			fmt.Sprintf("failed to parse template file '%s'", path),
			errors.ErrInvalidJSON,
		)
	}
	if len(t.Fields) == 0 {
		return nil, errors.NewTemplateError(
			fmt.Sprintf("template file '%s' defines no fields", path),
			errors.ErrNoTemplate,
		)
	}
	for name, fs := range t.Fields {
		if !ValidTag(fs.Type) {
			return nil, errors.NewTemplateError(
				fmt.Sprintf("template field %q has unknown type %q", name, fs.Type),
				nil,
			)
		}
	}
	return &t, nil
}

// SaveFile writes a template to a JSON file, indented for hand editing.
func SaveFile(path string, t *Template) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return errors.NewTemplateError("failed to encode template", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return errors.NewOutputError(
			fmt.Sprintf("failed to write template file '%s'", path),
			err,
		)
	}
	return nil
}

// JSONSchema converts a template into a standard JSON Schema document
// describing an array of objects. Required fields become the object
// schema's "required" list; additionalProperties stays open because
// unexpected fields are only warned about, never rejected.
func JSONSchema(t *Template) *jsonschema.Schema {
	props := orderedmap.New[string, *jsonschema.Schema]()
	required := make([]string, 0, len(t.Fields))

	for _, name := range t.FieldNames() {
		fs := t.Fields[name]
		props.Set(name, &jsonschema.Schema{Type: string(fs.Type)})
		if fs.Required {
			required = append(required, name)
		}
	}

	return &jsonschema.Schema{
		Version: jsonschema.Version,
		Type:    "array",
		Items: &jsonschema.Schema{
			Type:       "object",
			Properties: props,
			Required:   required,
		},
	}
}
