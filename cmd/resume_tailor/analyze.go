package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/types"
)

var (
	analyzeJob     string
	analyzeJobURL  string
	analyzeTitle   string
	analyzeCompany string
	analyzeOut     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract the requirements of a job description",
	RunE:  runAnalyze,
}

func init() {
	addJobFlags(analyzeCmd, &analyzeJob, &analyzeJobURL, &analyzeTitle, &analyzeCompany)
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the analysis JSON here instead of stdout")
	rootCmd.AddCommand(analyzeCmd)
}

// addJobFlags registers the flags that describe a job posting.
func addJobFlags(cmd *cobra.Command, job, jobURL, title, company *string) {
	cmd.Flags().StringVarP(job, "job", "j", "", "Path to a job description text file")
	cmd.Flags().StringVar(jobURL, "job-url", "", "URL of the job posting")
	cmd.Flags().StringVar(title, "title", "", "Job title (optional)")
	cmd.Flags().StringVar(company, "company", "", "Company name (optional)")
	cmd.MarkFlagsMutuallyExclusive("job", "job-url")
	cmd.MarkFlagsOneRequired("job", "job-url")
}

// jobDescription builds a JobDescription from the job flags.
func jobDescription(job, jobURL, title, company string) (types.JobDescription, error) {
	jd := types.JobDescription{URL: jobURL, Title: title, Company: company}
	if job != "" {
		data, err := os.ReadFile(job)
		if err != nil {
			return jd, fmt.Errorf("failed to read job file: %w", err)
		}
		jd.RawText = string(data)
	}
	return jd, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	jd, err := jobDescription(analyzeJob, analyzeJobURL, analyzeTitle, analyzeCompany)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.pipeline.Analyze(cmd.Context(), jd)
	if err != nil {
		return err
	}
	if verbose {
		a.printer.PrintJobAnalysis(result)
	}
	return writeJSON(cmd.OutOrStdout(), analyzeOut, result)
}
