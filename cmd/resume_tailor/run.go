package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/pipeline"
)

var (
	runPDF      string
	runJob      string
	runJobURL   string
	runTitle    string
	runCompany  string
	runTemplate string
	runOut      string
	runJSONOut  string
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: parse, analyze, tailor and render",
	Long: `Parses the resume and analyzes the job in parallel, tailors the profile, then compiles the PDF.

Analysis and tailoring never fail the run: they fall back to an unknown analysis and the
untailored profile. Parse and compile failures stop the run.`,
	RunE: runPipelineCmd,
}

func init() {
	runCommand.Flags().StringVar(&runPDF, "pdf", "", "Path to the resume PDF (required)")
	addJobFlags(runCommand, &runJob, &runJobURL, &runTitle, &runCompany)
	runCommand.Flags().StringVarP(&runTemplate, "template", "t", "default", "Template id")
	runCommand.Flags().StringVarP(&runOut, "out", "o", "", "Path of the PDF to write (required)")
	runCommand.Flags().StringVar(&runJSONOut, "json-out", "", "Also write the tailored profile JSON here")
	_ = runCommand.MarkFlagRequired("pdf")
	_ = runCommand.MarkFlagRequired("out")
	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(runPDF)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}
	jd, err := jobDescription(runJob, runJobURL, runTitle, runCompany)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.pipeline.Run(cmd.Context(), pipeline.RunOptions{
		ResumePDF:  data,
		Job:        jd,
		TemplateID: runTemplate,
		OnProgress: func(event pipeline.ProgressEvent) {
			a.logger.Info().Str("step", event.Step).Msg(event.Message)
		},
	})
	if result != nil && runJSONOut != "" {
		if werr := writeJSON(cmd.OutOrStdout(), runJSONOut, result.Tailored); werr != nil {
			return werr
		}
	}
	if err != nil {
		printCompileLog(cmd, err)
		return err
	}

	if verbose {
		a.printer.PrintRepairs(result.Repairs)
		a.printer.PrintJobAnalysis(result.Analysis)
		a.printer.PrintProfile("TAILORED PROFILE", result.Tailored)
		a.printer.PrintCoverage(result.Coverage.Matched, result.Coverage.Missing, result.Coverage.Score)
		a.printer.PrintMetrics(a.metrics)
	}
	if err := writeFile(runOut, result.PDF); err != nil {
		return err
	}
	reportPDF(cmd, runOut, result.PDF)
	return nil
}
