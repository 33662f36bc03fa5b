// Package main provides the resume_tailor CLI: parse a resume PDF, analyze a job,
// tailor the resume and render it, one step at a time or end to end.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	logLevel   string
	provider   string
)

var rootCmd = &cobra.Command{
	Use:   "resume_tailor",
	Short: "Tailor a resume PDF to a job description",
	Long: `resume_tailor turns a resume PDF into a structured profile, analyzes a job description,
rewrites the profile for the job without inventing facts, and compiles it with LaTeX.

Configuration comes from --config (JSON or YAML), then environment variables, then flags.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print intermediate results")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "Language model provider (gemini, anthropic, static)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
