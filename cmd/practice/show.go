// ABOUTME: CLI command for showing one practice in detail.
// ABOUTME: Renders a month-grouped calendar of the window and its reflections.
package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Aliases: []string{"s", "get"},
	Short:   "Show a practice with its calendar",
	Long: `Show a practice's progress, streaks, calendar, and reflections.

CALENDAR KEY:

  green    completed day
  yellow   the next open day
  plain    past day not done
  faint    future day`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}

		today := st.Today()
		sum := p.Summary(today)
		faint := color.New(color.Faint)

		color.New(color.Bold).Printf("%s", p.Name)
		fmt.Printf(" %s\n", faint.Sprint(p.ID.String()))
		if p.Description != "" {
			fmt.Printf("  %s\n", p.Description)
		}
		fmt.Printf("  Type:      %s\n", p.Type)
		fmt.Printf("  Window:    %s to %s (%d days)\n", p.StartDate, p.EndDate(), p.Duration)
		fmt.Printf("  Progress:  %d/%d days, %.2f%%\n", sum.Completed, p.Duration, p.Progress)
		fmt.Printf("  Streak:    %d current, %d longest\n", p.CurrentStreak, p.LongestStreak)
		switch {
		case sum.Finished:
			color.Green("  Finished!")
		case sum.NextOpen != "":
			fmt.Printf("  Next open: %s\n", sum.NextOpen)
		}
		fmt.Println()

		printCalendar(p, sum.NextOpen, today)
		printReflections(p)
		return nil
	},
}

func printCalendar(p *models.Practice, nextOpen string, today time.Time) {
	keys := dates.Keys(dates.Window(p.Start(), p.Duration))
	for _, g := range dates.GroupByMonth(keys) {
		fmt.Printf("  %s\n   ", g.Label)
		for _, k := range g.Days {
			cell := fmt.Sprintf(" %2s", strings.TrimLeft(k[8:], "0"))
			switch {
			case p.IsCompleted(k):
				cell = color.GreenString(cell)
			case k == nextOpen:
				cell = color.YellowString(cell)
			case dates.IsFutureDate(dates.MustParse(k), today):
				cell = color.New(color.Faint).Sprint(cell)
			}
			fmt.Print(cell)
		}
		fmt.Println()
	}
}

func printReflections(p *models.Practice) {
	if len(p.Reflections) == 0 {
		return
	}
	keys := make([]string, 0, len(p.Reflections))
	for k := range p.Reflections {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println()
	fmt.Println("  Reflections")
	for _, k := range keys {
		r := p.Reflections[k]
		fmt.Printf("  %s\n", color.New(color.Bold).Sprint(k))
		printField("Event", r.Event)
		printField("Emotion", r.Emotion)
		printField("Insight", r.Insight)
		printField("Limiting belief", r.LimitingBelief)
		printField("Reframe", r.Reframe)
		if flags := r.Flags(); len(flags) > 0 {
			names := make([]string, len(flags))
			for i, f := range flags {
				names[i] = f.Title()
			}
			printField("Practiced", strings.Join(names, ", "))
		}
	}
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("    %s %s\n", color.New(color.Faint).Sprint(label+":"), value)
}

func init() {
	rootCmd.AddCommand(showCmd)
}
