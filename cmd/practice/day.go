// ABOUTME: CLI commands for marking practice days done or not done.
// ABOUTME: Days unlock in order; completed days stay editable.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/progress"
	"github.com/harperreed/practice/internal/store"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:     "done <id> [date]",
	Aliases: []string{"d", "check"},
	Short:   "Mark a day done",
	Long: `Mark a day of a practice as done.

Without a date, the practice's next open day is used: the day after your
latest completed day, as long as it isn't in the future. Dates are
YYYY-MM-DD, "today", or "yesterday".

EXAMPLES:

  practice done 5b0c3c1e              # Next open day
  practice done 5b0c today
  practice done 5b0c 2024-01-03`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}

		day, err := dayArg(args, func() time.Time {
			if next, ok := progress.NextOpenDay(p.Window(), st.Today()); ok {
				return next
			}
			return st.Today()
		})
		if err != nil {
			return err
		}
		return markDay(p, day, store.CompleteDate)
	},
}

var undoCmd = &cobra.Command{
	Use:     "undo <id> [date]",
	Aliases: []string{"u", "uncheck"},
	Short:   "Mark a day not done",
	Long: `Un-mark a completed day. Its reflection is removed with it.

Without a date, the latest completed day is used.

EXAMPLES:

  practice undo 5b0c3c1e
  practice undo 5b0c 2024-01-02`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}
		if len(args) == 1 && len(p.CompletedDates) == 0 {
			return fmt.Errorf("%s has no completed days", p.Name)
		}

		day, err := dayArg(args, func() time.Time {
			return dates.MustParse(p.CompletedDates[len(p.CompletedDates)-1])
		})
		if err != nil {
			return err
		}
		return markDay(p, day, store.UncompleteDate)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <id> <date>",
	Short: "Flip a day between done and not done",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}
		day, err := resolveDay(args[1])
		if err != nil {
			return err
		}
		return markDay(p, day, store.ToggleDate)
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(toggleCmd)
}

// dayArg resolves the optional second argument, falling back to def.
func dayArg(args []string, def func() time.Time) (time.Time, error) {
	if len(args) < 2 {
		return def(), nil
	}
	return resolveDay(args[1])
}

func markDay(p *models.Practice, day time.Time, build func(uuid.UUID, string) store.Action) error {
	key := dates.FormatDate(day)
	res, err := st.Dispatch(build(p.ID, key))
	if err != nil {
		return err
	}

	switch res.Outcome {
	case models.OutcomeCompleted:
		color.Green("✓ %s done for %s", key, res.Practice.Name)
	case models.OutcomeUncompleted:
		color.Yellow("✗ %s un-marked for %s", key, res.Practice.Name)
	default:
		fmt.Printf("  %s already %s for %s\n", key, doneWord(res.Practice.IsCompleted(key)), res.Practice.Name)
	}
	fmt.Printf("  %s %.2f%% · streak %d (best %d)\n",
		color.New(color.Faint).Sprint(res.Practice.ShortID()),
		res.Practice.Progress, res.Practice.CurrentStreak, res.Practice.LongestStreak)
	return nil
}

func doneWord(done bool) string {
	if done {
		return "done"
	}
	return "not done"
}
