package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/rendering"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available template ids",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := rendering.NewTemplateStore(cfg.TemplateDir)
	if err != nil {
		return err
	}
	for _, id := range store.IDs() {
		marker := ""
		if id == rendering.DefaultTemplateID {
			marker = " (default)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", id, marker)
	}
	return nil
}
