// ABOUTME: CLI commands for creating practices.
// ABOUTME: Handles custom practices and the 30-day challenge shortcut.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/store"
	"github.com/spf13/cobra"
)

var (
	addType        string
	addDuration    int
	addDescription string
	addColor       string
	addStart       string
)

var addCmd = &cobra.Command{
	Use:     "add <name>",
	Aliases: []string{"a", "new"},
	Short:   "Create a practice",
	Long: `Create a practice with its own window of days.

The window starts on --start (default today) and lasts --duration days.
Durations of 30, 60, and 90 days are supported.

EXAMPLES:

  practice add "Morning sit"
  practice add "Who am I?" --type self-inquiry --duration 60
  practice add "Gospel of Thomas" --type contemplation --start 2024-01-01
  practice add "Walk" --color "#14b8a6" --description "Slow, silent walking"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")

		start := st.Today()
		if addStart != "" {
			var err error
			start, err = resolveDay(addStart)
			if err != nil {
				return err
			}
		}

		p, err := models.NewPractice(models.PracticeType(addType), name, addDuration, start)
		if err != nil {
			return err
		}
		if addDescription != "" {
			p.WithDescription(addDescription)
		}
		if addColor != "" {
			p.WithColor(addColor)
		}

		res, err := st.Dispatch(store.Create(p))
		if err != nil {
			return fmt.Errorf("failed to create practice: %w", err)
		}

		color.Green("✓ Created %s", res.Practice.Name)
		printPracticeLine(res.Practice)
		return nil
	},
}

var challengeCmd = &cobra.Command{
	Use:   "challenge <type>",
	Short: "Start a 30-day challenge",
	Long: `Start a 30-day challenge for a practice type, beginning today.

TYPES:

  meditation, self-inquiry, contemplation

EXAMPLES:

  practice challenge meditation
  practice challenge self-inquiry`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: typeNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := st.Dispatch(store.StartChallenge(models.PracticeType(args[0])))
		if err != nil {
			return fmt.Errorf("failed to start challenge: %w", err)
		}

		color.Green("✓ Started %s", res.Practice.Name)
		printPracticeLine(res.Practice)
		fmt.Printf("  Runs %s to %s\n", res.Practice.StartDate, res.Practice.EndDate())
		return nil
	},
}

func typeNames() []string {
	names := make([]string, len(models.KnownTypes))
	for i, t := range models.KnownTypes {
		names[i] = string(t)
	}
	return names
}

func init() {
	addCmd.Flags().StringVarP(&addType, "type", "t", string(models.TypeMeditation), "practice type")
	addCmd.Flags().IntVarP(&addDuration, "duration", "d", models.DefaultDuration, "window length in days (30, 60, 90)")
	addCmd.Flags().StringVar(&addDescription, "description", "", "short description")
	addCmd.Flags().StringVar(&addColor, "color", "", "display color (default: random)")
	addCmd.Flags().StringVar(&addStart, "start", "", "first day of the window (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(challengeCmd)
}

