package main

import (
	"fmt"
	"os"
	"path/filepath"

	"postergen/internal/templates"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var templatesOut string

// templatesCmd lists or exports the built-in backgrounds
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List or export the built-in background templates",
	Long: `Lists the solid colour background templates. With -o each template is
written as {id}.png into the directory, ready for background_path.`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

func init() {
	templatesCmd.Flags().StringVarP(&templatesOut, "output", "o", "", "Directory to write template PNGs into")
}

func runTemplates(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	list := templates.List()

	if templatesOut == "" {
		for _, t := range list {
			swatch := lipgloss.NewStyle().Background(lipgloss.Color(t.Hex)).Render("    ")
			fmt.Fprintf(out, "%s %-12s %-8s %s\n", swatch, t.ID, t.Name, mutedStyle.Render(t.Color))
		}
		return nil
	}

	if err := os.MkdirAll(templatesOut, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, t := range list {
		data, err := t.PNG()
		if err != nil {
			return fmt.Errorf("template %s: %w", t.ID, err)
		}
		path := filepath.Join(templatesOut, t.ID+".png")
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write template: %w", err)
		}
		fmt.Fprintln(out, path)
	}
	return nil
}
