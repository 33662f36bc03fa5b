package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/compiler"
)

var (
	renderProfile  string
	renderTemplate string
	renderOut      string
	renderTexOut   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a profile to PDF with a LaTeX template",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderProfile, "profile", "p", "", "Path to the profile JSON (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "default", "Template id (see the templates command)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Path of the PDF to write")
	renderCmd.Flags().StringVar(&renderTexOut, "tex-out", "", "Also write the LaTeX source here")
	_ = renderCmd.MarkFlagRequired("profile")
	renderCmd.MarkFlagsOneRequired("out", "tex-out")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	profile, err := loadProfile(renderProfile)
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if renderTexOut != "" {
		source, err := a.renderer.RenderLaTeX(profile, renderTemplate)
		if err != nil {
			return err
		}
		if err := writeFile(renderTexOut, []byte(source)); err != nil {
			return err
		}
	}
	if renderOut == "" {
		return nil
	}

	pdf, err := a.renderer.Render(cmd.Context(), profile, renderTemplate)
	if err != nil {
		printCompileLog(cmd, err)
		return err
	}
	if err := writeFile(renderOut, pdf); err != nil {
		return err
	}
	reportPDF(cmd, renderOut, pdf)
	return nil
}

// printCompileLog writes the compiler log of a failed compilation to stderr.
func printCompileLog(cmd *cobra.Command, err error) {
	var compileErr *compiler.CompilationError
	if !errors.As(err, &compileErr) || compileErr.Log == "" {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "--- compiler log (%s) ---\n%s\n--- end of log ---\n", compileErr.Kind, strings.TrimRight(compileErr.Log, "\n"))
}

// reportPDF prints where the PDF went and how many pages it has.
func reportPDF(cmd *cobra.Command, path string, pdf []byte) {
	pages, err := compiler.PageCount(pdf)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(pdf))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes, %d page(s))\n", path, len(pdf), pages)
}
