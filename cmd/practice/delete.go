// ABOUTME: CLI commands for deleting practices and resetting to defaults.
// ABOUTME: Supports deletion by full ID or ID prefix.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/store"
	"github.com/spf13/cobra"
)

var resetSkipConfirm bool

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a practice",
	Long: `Delete a practice by its ID or ID prefix.

You can use either the full UUID or just the first few characters (prefix).
The ID prefix is shown in the first column of 'practice list' output.

EXAMPLES:

  practice delete 5b0c3c1e
  practice rm 5b0c

CAUTION:

  This permanently deletes the practice with its history and reflections.
  If the prefix matches multiple practices, an error is returned.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}

		if _, err := st.Dispatch(store.Delete(p.ID)); err != nil {
			return fmt.Errorf("failed to delete practice: %w", err)
		}

		color.Yellow("✗ Deleted %s", p.Name)
		fmt.Printf("  %s %d completed days\n",
			color.New(color.Faint).Sprint(p.ShortID()), len(p.CompletedDates))
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace every practice with the defaults",
	Long: `Delete every practice and start over with the three default practices
(Meditation, Self-Inquiry, Contemplation), each starting today.

This is a destructive operation. Export first if you want a backup:
  practice export json -o backup.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetSkipConfirm {
			fmt.Println("This will DELETE all practices and restore the defaults.")
			fmt.Print("Continue? [y/N]: ")
			response := strings.ToLower(readLine(cmd))
			if response != "y" && response != "yes" {
				fmt.Println("Canceled.")
				return nil
			}
		}

		if _, err := st.Dispatch(store.ResetAll()); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.Green("✓ Practices reset to defaults")
		for _, p := range st.Practices() {
			printPracticeLine(p)
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetSkipConfirm, "yes", "y", false, "skip confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(resetCmd)
}
