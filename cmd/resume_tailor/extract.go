package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/extraction"
)

var extractPDF string

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the text and links of a resume PDF",
	Long:  "Extracts page text and link annotations from a PDF exactly as the parser sees them. No model is called.",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractPDF, "pdf", "", "Path to the resume PDF (required)")
	_ = extractCmd.MarkFlagRequired("pdf")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	f, err := os.Open(extractPDF)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	doc, err := extraction.NewExtractor().ExtractReader(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, doc.Text)
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d page(s), %d link(s)\n", doc.Pages, len(doc.Links))
	}
	return nil
}
