package models

import (
	"bytes"
	"embed"
	"errors"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Request body schemas. They only check JSON types and formats; blank
// checks belong to the entities' Validate methods.
var (
	TodoListSchema = mustCompile("todolist.json")
	TaskSchema     = mustCompile("task.json")
	UserSchema     = mustCompile("user.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	compiler.AssertFormat = true

	url := "https://schemas.todolist-api.local/" + name
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(url)
}

// CheckSchema validates a decoded JSON document against schema and maps
// failures to field errors keyed by the last segment of the offending path.
func CheckSchema(schema *jsonschema.Schema, doc interface{}) error {
	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}

	v := NewValidationError()
	collectSchemaErrors(ve, v)
	if v.Empty() {
		v.Add("body", MsgInvalid)
	}
	return v
}

func collectSchemaErrors(ve *jsonschema.ValidationError, v *ValidationError) {
	if len(ve.Causes) == 0 {
		v.Add(fieldName(ve.InstanceLocation), MsgInvalid)
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaErrors(cause, v)
	}
}

func fieldName(location string) string {
	location = strings.TrimRight(location, "/")
	if i := strings.LastIndex(location, "/"); i >= 0 {
		location = location[i+1:]
	}
	if location == "" {
		return "body"
	}
	return location
}
