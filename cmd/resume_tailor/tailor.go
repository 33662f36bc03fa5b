package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/sanitize"
	"github.com/jonathan/resume-tailor/internal/types"
)

var (
	tailorProfile  string
	tailorAnalysis string
	tailorOut      string
)

var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Rewrite a profile for a job analysis",
	Long:  "Rewrites the profile for the analyzed job. When the model output is unusable or adds facts, the original profile is returned unchanged.",
	RunE:  runTailor,
}

func init() {
	tailorCmd.Flags().StringVarP(&tailorProfile, "profile", "p", "", "Path to the profile JSON (required)")
	tailorCmd.Flags().StringVarP(&tailorAnalysis, "analysis", "a", "", "Path to the job analysis JSON (required)")
	tailorCmd.Flags().StringVarP(&tailorOut, "out", "o", "", "Write the tailored profile JSON here instead of stdout")
	_ = tailorCmd.MarkFlagRequired("profile")
	_ = tailorCmd.MarkFlagRequired("analysis")
	rootCmd.AddCommand(tailorCmd)
}

// loadProfile reads a profile file and repairs it like model output.
func loadProfile(path string) (*types.Profile, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	result, err := sanitize.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	return result.Profile, nil
}

func loadAnalysis(path string) (*types.JobAnalysis, error) {
	raw, err := readJSON(path)
	if err != nil {
		return nil, err
	}
	result, _, err := sanitize.SanitizeJobAnalysis(raw)
	return result, err
}

func runTailor(cmd *cobra.Command, _ []string) error {
	profile, err := loadProfile(tailorProfile)
	if err != nil {
		return err
	}
	jobAnalysis, err := loadAnalysis(tailorAnalysis)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	tailored := a.pipeline.Tailor(cmd.Context(), profile, jobAnalysis)
	if verbose {
		a.printer.PrintProfile("TAILORED PROFILE", tailored)
		cov := analysis.SkillCoverage(tailored, jobAnalysis)
		a.printer.PrintCoverage(cov.Matched, cov.Missing, cov.Score)
		a.printer.PrintMetrics(a.metrics)
	}
	return writeJSON(cmd.OutOrStdout(), tailorOut, tailored)
}
