package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kirankm/resume-ranker/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against a JSON Schema",
	Long: fmt.Sprintf(`Validate a JSON file against an embedded schema (%s) or a schema file path.
Exits with status 1 when validation fails.`, strings.Join(schemas.EmbeddedNames(), ", ")),
	RunE: runValidate,
}

var (
	validateSchema string
	validateJSON   string
)

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Embedded schema name or path to a schema file (required)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "Path to the JSON file to validate (required)")

	if err := validateCmd.MarkFlagRequired("schema"); err != nil {
		panic(fmt.Sprintf("failed to mark schema flag as required: %v", err))
	}
	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	return validateFile(cmd.OutOrStdout(), validateSchema, validateJSON)
}

// validateFile resolves schemaRef to an embedded schema when no file of that
// name exists.
func validateFile(out io.Writer, schemaRef, jsonPath string) error {
	var err error
	if _, statErr := os.Stat(schemaRef); statErr == nil {
		err = schemas.ValidateJSON(schemaRef, jsonPath)
	} else {
		var data []byte
		data, err = os.ReadFile(jsonPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", jsonPath, err)
		}
		err = schemas.Validate(schemaRef, data)
	}

	var validationErr *schemas.ValidationError
	switch {
	case err == nil:
		_, _ = fmt.Fprintf(out, "Validation passed: %s\n", jsonPath)
		return nil
	case errors.As(err, &validationErr):
		_, _ = fmt.Fprintf(out, "Validation failed: %s\n%s", jsonPath, validationErr.Error())
		return fmt.Errorf("%s does not match schema %s", jsonPath, schemaRef)
	default:
		return err
	}
}
