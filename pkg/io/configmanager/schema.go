package configmanager

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/devantler-tech/box/pkg/apis/box/v1alpha1"
	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of box.yaml: keys as written in the file,
// no unknown keys, and every non-zero default filled in.
func Schema() ([]byte, error) {
	reflector := &jsonschema.Reflector{
		FieldNameTag:               "mapstructure",
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		Mapper:                     mapType,
	}

	schema := reflector.Reflect(&v1alpha1.Config{})
	schema.ID = ""
	schema.Title = "box configuration"
	schema.Description = "JSON schema for the box configuration file (box.yaml)"

	for key, value := range defaults() {
		property := lookupProperty(schema, strings.Split(key, "."))
		if property == nil {
			continue
		}

		if value := schemaDefault(value); value != nil {
			property.Default = value
		}
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return data, nil
}

func mapType(t reflect.Type) *jsonschema.Schema {
	if t == reflect.TypeFor[time.Duration]() {
		return &jsonschema.Schema{
			Type:    "string",
			Pattern: "^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$",
		}
	}

	return nil
}

func lookupProperty(schema *jsonschema.Schema, path []string) *jsonschema.Schema {
	for _, name := range path {
		if schema == nil || schema.Properties == nil {
			return nil
		}

		schema, _ = schema.Properties.Get(name)
	}

	return schema
}

// schemaDefault renders value as a schema default, or nil for zero values.
func schemaDefault(value any) any {
	if value == nil || reflect.ValueOf(value).IsZero() {
		return nil
	}

	if duration, ok := value.(time.Duration); ok {
		return duration.String()
	}

	return value
}
