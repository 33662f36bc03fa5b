package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/schemas"
)

var (
	validateSchema string
	validateFile   string
	printSchema    bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a profile or job analysis JSON file against its schema",
	Long:  "Validates a JSON file against one of the embedded schemas (" + strings.Join(schemas.Names(), ", ") + "). With --print-schema the schema itself is printed instead.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateSchema, "schema", "s", schemas.Profile, "Schema name")
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Path to the JSON file to validate")
	validateCmd.Flags().BoolVar(&printSchema, "print-schema", false, "Print the schema and exit")
	validateCmd.MarkFlagsMutuallyExclusive("file", "print-schema")
	validateCmd.MarkFlagsOneRequired("file", "print-schema")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	source, ok := schemas.Source(validateSchema)
	if !ok {
		return fmt.Errorf("unknown schema %q (available: %s)", validateSchema, strings.Join(schemas.Names(), ", "))
	}
	if printSchema {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(source))
		return nil
	}

	if err := schemas.ValidateFile(validateSchema, validateFile); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			fmt.Fprint(cmd.ErrOrStderr(), validationErr.Error())
			return fmt.Errorf("%s does not match the %s schema", validateFile, validateSchema)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s\n", validateFile, validateSchema)
	return nil
}
