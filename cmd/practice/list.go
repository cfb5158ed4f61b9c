// ABOUTME: CLI commands for listing practices and today's status.
// ABOUTME: Also holds the shared formatting and argument helpers.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/dates"
	"github.com/harperreed/practice/internal/models"
	"github.com/spf13/cobra"
)

var listType string

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List practices",
	Long: `List every practice with its progress and streaks.

OUTPUT FORMAT:

  Each line shows: ID  NAME  TYPE  DAY  PROGRESS  STREAK  NEXT

  The ID is an 8-character prefix you can use with other commands.
  DAY is today's position in the window, STREAK is current/longest,
  and NEXT is the day you can record next.

EXAMPLES:

  practice list                      # All practices
  practice list --type meditation    # Only meditation practices`,
	RunE: func(cmd *cobra.Command, args []string) error {
		practices := st.Practices()
		if listType != "" {
			filtered := practices[:0]
			for _, p := range practices {
				if string(p.Type) == listType {
					filtered = append(filtered, p)
				}
			}
			practices = filtered
		}

		if len(practices) == 0 {
			fmt.Println("No practices found.")
			return nil
		}

		today := st.Today()
		faint := color.New(color.Faint)
		for _, p := range practices {
			sum := p.Summary(today)
			next := sum.NextOpen
			if next == "" {
				next = "-"
			}
			if sum.Finished {
				next = color.GreenString("done")
			}
			fmt.Printf("%s %s %s %s %s %s %s\n",
				faint.Sprint(p.ShortID()),
				padRight(truncate(p.Name, 24), 24),
				padRight(string(p.Type), 14),
				padRight(fmt.Sprintf("%d/%d", sum.DayNumber, p.Duration), 6),
				padRight(fmt.Sprintf("%.2f%%", p.Progress), 8),
				padRight(fmt.Sprintf("%d/%d", p.CurrentStreak, p.LongestStreak), 6),
				next)
		}
		return nil
	},
}

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show what is done and open today",
	Long: `Show each active practice with today's status.

A practice is active when today falls inside its window. Practices that
are behind show the open day you need to record first. The strip on the
left covers the last seven days: ● done, ○ not done.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		today := st.Today()
		key := dates.FormatDate(today)
		fmt.Printf("Today is %s\n\n", key)

		active := 0
		for _, p := range st.Practices() {
			if !p.InWindow(key) {
				continue
			}
			active++
			sum := p.Summary(today)
			var status string
			switch {
			case p.IsCompleted(key):
				status = color.GreenString("✓ %s", p.Name)
			case sum.NextOpen == key:
				status = "○ " + p.Name
			case sum.NextOpen != "":
				behind := dates.DaysBetween(dates.MustParse(sum.NextOpen), today)
				status = color.YellowString("○ %s (next open: %s, %d days behind)", p.Name, sum.NextOpen, behind)
			default:
				status = "- " + p.Name
			}
			fmt.Printf("  %s  %s\n", weekStrip(p, today), status)
		}
		if active == 0 {
			fmt.Println("No active practices today.")
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by practice type")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(todayCmd)
}

// weekStrip renders the last seven days oldest first: ● done, ○ missed,
// blank before the window starts.
func weekStrip(p *models.Practice, today time.Time) string {
	var b strings.Builder
	for _, d := range dates.LastNDays(7, today) {
		k := dates.FormatDate(d)
		switch {
		case p.IsCompleted(k):
			b.WriteString("●")
		case p.InWindow(k):
			b.WriteString("○")
		default:
			b.WriteString(" ")
		}
	}
	return color.New(color.Faint).Sprint(b.String())
}

func printPracticeLine(p *models.Practice) {
	fmt.Printf("  %s %s %d days from %s (%.2f%%)\n",
		color.New(color.Faint).Sprint(p.ShortID()),
		p.Type, p.Duration, p.StartDate, p.Progress)
}

// resolveDay parses a day argument relative to the store's today.
func resolveDay(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return st.Today(), nil
	case "yesterday":
		return dates.AddDays(st.Today(), -1), nil
	}
	day, err := dates.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %s (use YYYY-MM-DD, today, or yesterday)", s)
	}
	return day, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}
