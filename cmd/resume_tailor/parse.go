package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	parsePDF string
	parseOut string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a resume PDF into a structured profile",
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parsePDF, "pdf", "", "Path to the resume PDF (required)")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "Write the profile JSON here instead of stdout")
	_ = parseCmd.MarkFlagRequired("pdf")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(parsePDF)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.pipeline.ParseResume(cmd.Context(), data)
	if err != nil {
		return err
	}
	if verbose {
		a.printer.PrintProfile("PARSED PROFILE", result.Profile)
		a.printer.PrintRepairs(result.Repairs)
	}
	return writeJSON(cmd.OutOrStdout(), parseOut, result.Profile)
}
