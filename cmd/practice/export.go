// ABOUTME: CLI commands for exporting and importing practice data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/storage"
	"github.com/harperreed/practice/internal/store"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export practice data",
	Long: `Export practice data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)
  markdown   Markdown summary table and reflections

OPTIONS:

  --output, -o   Write to file instead of stdout

EXAMPLES:

  practice export json                  # Export all data as JSON
  practice export json -o backup.json   # Save to file
  practice export markdown -o log.md    # Shareable summary`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		practices := st.Practices()

		var data []byte
		var err error
		switch args[0] {
		case "json":
			data, err = storage.ExportJSON(practices)
		case "yaml":
			data, err = storage.ExportYAML(practices)
		case "markdown", "md":
			data = []byte(storage.ExportMarkdown(practices, st.Today()))
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported %d practices to %s", len(practices), exportOutput)
		} else {
			fmt.Println(string(data))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import practice data from JSON",
	Long: `Import practices from a JSON backup file.

Practices whose ID already exists are replaced by the imported version;
new IDs are added. Invalid records stop the import before anything is
written.

EXAMPLES:

  practice import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		export, err := storage.ParseJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		if _, err := st.Dispatch(store.Import(export.Practices)); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported %d practices from %s", len(export.Practices), filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
