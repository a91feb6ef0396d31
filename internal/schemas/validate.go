// Package schemas validates JSON documents against JSON Schemas, either the
// ones embedded in the binary or schema files on disk.
package schemas

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	schemafiles "github.com/kirankm/resume-ranker/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Embedded returns the bytes of an embedded schema. Both "rank_request" and
// "rank_request.schema.json" are accepted.
func Embedded(name string) ([]byte, error) {
	if !strings.HasSuffix(name, ".schema.json") {
		name += ".schema.json"
	}
	data, err := schemafiles.FS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "no embedded schema", Cause: err}
	}
	return data, nil
}

// EmbeddedNames lists the embedded schema files.
func EmbeddedNames() []string {
	names, _ := fs.Glob(schemafiles.FS, "*.schema.json")
	return names
}

// Validate validates a JSON document against an embedded schema.
func Validate(schemaName string, document []byte) error {
	schema, err := Embedded(schemaName)
	if err != nil {
		return err
	}
	return validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(document), schemaName)
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}

	jsonAbsPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}

	if _, err := os.Stat(schemaAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", schemaAbsPath)
	}
	if _, err := os.Stat(jsonAbsPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", jsonAbsPath)
	}

	return validate(
		gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(schemaAbsPath)),
		gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(jsonAbsPath)),
		schemaAbsPath,
	)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
		"(string schema)",
	)
}

func validate(schemaLoader, documentLoader gojsonschema.JSONLoader, schemaPath string) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		// Unparseable schema or document, or an unresolvable $ref
		return &SchemaLoadError{
			Path:    schemaPath,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
