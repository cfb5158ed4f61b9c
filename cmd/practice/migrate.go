// ABOUTME: CLI command for moving practice data between storage backends.
// ABOUTME: Copies every practice from one backend to another.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/config"
	"github.com/harperreed/practice/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateForce  bool
	migrateDryRun bool
	migrateUse    bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy practices between storage backends",
	Long: `Copy every practice from one storage backend to another.

BACKENDS:

  local    Badger files in ~/.local/share/practice/slot (default)
  sqlite   SQLite database at ~/.local/share/practice/practice.db
  charm    Charm KV, synced through Charm Cloud

IMPORTANT:

  - The destination's practices are replaced by the source's
  - A destination that already has practices needs --force
  - Run with --dry-run first to see what would be copied
  - Pass --use to switch the config to the destination afterwards

EXAMPLES:

  practice migrate --from local --to sqlite --dry-run
  practice migrate --from local --to charm --use
  practice migrate --from sqlite --to local --force`,
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to := strings.ToLower(migrateFrom), strings.ToLower(migrateTo)
		if from == to {
			return fmt.Errorf("source and destination are both %q", from)
		}

		src, err := cfg.OpenBackend(from)
		if err != nil {
			return fmt.Errorf("failed to open source %s: %w", from, err)
		}
		defer func() { _ = src.Close() }()

		practices, err := src.ListPractices()
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			fmt.Println()
			fmt.Printf("Would copy %d practices from %s to %s:\n", len(practices), from, to)
			for _, p := range practices {
				printPracticeLine(p)
			}
			return nil
		}

		dst, err := cfg.OpenBackend(to)
		if err != nil {
			return fmt.Errorf("failed to open destination %s: %w", to, err)
		}
		defer func() { _ = dst.Close() }()

		existing, err := dst.ListPractices()
		if err != nil {
			return fmt.Errorf("failed to read destination: %w", err)
		}
		if len(existing) > 0 && !migrateForce {
			return fmt.Errorf("destination %s already has %d practices (use --force to replace them)", to, len(existing))
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %s to %s", from, to)
		fmt.Printf("  Practices:   %d\n", summary.Practices)
		fmt.Printf("  Reflections: %d\n", summary.Reflections)
		switch {
		case migrateUse:
			cfg.Backend = to
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Now using the %s backend", to)
		case cfg.GetBackend() != to:
			fmt.Printf("\nRun with --use or set \"backend\": %q in %s to use it.\n", to, config.GetConfigPath())
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendLocal, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendSQLite, "destination backend")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "replace practices already in the destination")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateUse, "use", false, "switch the config to the destination backend")
	rootCmd.AddCommand(migrateCmd)
}
