// ABOUTME: CLI commands for changing a practice's settings or restarting it.
// ABOUTME: Shrinking the duration drops days that no longer fit the window.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/store"
	"github.com/spf13/cobra"
)

var (
	editName        string
	editDescription string
	editColor       string
	editType        string
	editDuration    int
)

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Aliases: []string{"e", "update"},
	Short:   "Edit a practice",
	Long: `Change a practice's name, description, color, type, or duration.

Only the flags you pass are changed. Shortening the duration removes
completed days and reflections that fall outside the new window.

EXAMPLES:

  practice edit 5b0c --name "Dawn sit"
  practice edit 5b0c --duration 90
  practice edit 5b0c --description ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}

		var e models.Edit
		flags := cmd.Flags()
		if flags.Changed("name") {
			e.Name = &editName
		}
		if flags.Changed("description") {
			e.Description = &editDescription
		}
		if flags.Changed("color") {
			e.Color = &editColor
		}
		if flags.Changed("type") {
			t := models.PracticeType(editType)
			e.Type = &t
		}
		if flags.Changed("duration") {
			e.Duration = &editDuration
		}
		if e == (models.Edit{}) {
			return fmt.Errorf("nothing to change: pass at least one of --name, --description, --color, --type, --duration")
		}

		before := len(p.CompletedDates)
		res, err := st.Dispatch(store.Update(p.ID, e))
		if err != nil {
			return fmt.Errorf("failed to update practice: %w", err)
		}

		color.Green("✓ Updated %s", res.Practice.Name)
		printPracticeLine(res.Practice)
		if dropped := before - len(res.Practice.CompletedDates); dropped > 0 {
			color.Yellow("  %d completed days fell outside the new window and were removed", dropped)
		}
		return nil
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart <id>",
	Short: "Restart a practice from today",
	Long: `Move a practice's window to start today and clear its history.

Completed days, streaks, and reflections are all removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}
		res, err := st.Dispatch(store.Restart(p.ID))
		if err != nil {
			return fmt.Errorf("failed to restart practice: %w", err)
		}

		color.Green("✓ Restarted %s", res.Practice.Name)
		fmt.Printf("  Runs %s to %s\n", res.Practice.StartDate, res.Practice.EndDate())
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "new name")
	editCmd.Flags().StringVar(&editDescription, "description", "", "new description")
	editCmd.Flags().StringVar(&editColor, "color", "", "new display color")
	editCmd.Flags().StringVarP(&editType, "type", "t", "", "new practice type")
	editCmd.Flags().IntVarP(&editDuration, "duration", "d", 0, "new window length (30, 60, 90)")
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(restartCmd)
}
