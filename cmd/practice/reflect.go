// ABOUTME: CLI command for writing the reflection for a practice day.
// ABOUTME: Fills the capture form from flags or interactive prompts.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/capture"
	"github.com/harperreed/practice/internal/models"
	"github.com/harperreed/practice/internal/progress"
	"github.com/spf13/cobra"
)

var (
	reflectFields = map[string]*string{}
	reflectFlags  = map[models.PracticeType]*bool{}
)

var reflectClear bool

var reflectCmd = &cobra.Command{
	Use:     "reflect <id> [date]",
	Aliases: []string{"r", "journal"},
	Short:   "Write the reflection for a day",
	Long: `Write or edit the reflection for a practice day.

Saving a reflection marks the day done. Saving an empty reflection (with
--clear) marks it not done again. Without a date, the next open day is used.

With no field flags, you are prompted for each field. Press Enter to keep
the current value, type "-" to clear it, or send EOF (Ctrl-D) to cancel.

FIELDS:

  --event      What happened
  --emotion    What you felt
  --insight    What you noticed
  --belief     A limiting belief that showed up
  --reframe    A kinder way to see it

  --meditation, --self-inquiry, --contemplation mark sub-practices you did.

EXAMPLES:

  practice reflect 5b0c
  practice reflect 5b0c 2024-01-03 --insight "the mind settles" --meditation
  practice reflect 5b0c 2024-01-03 --clear`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := st.Get(args[0])
		if err != nil {
			return err
		}

		today := st.Today()
		day := today
		if len(args) == 2 {
			if day, err = resolveDay(args[1]); err != nil {
				return err
			}
		} else if next, ok := progress.NextOpenDay(p.Window(), today); ok {
			day = next
		}

		form, err := capture.Open(p, day, today)
		if err != nil {
			return err
		}

		if reflectClear {
			if err := form.Clear(); err != nil {
				return err
			}
		} else if !fillFromFlags(cmd, form) {
			if err := fillFromPrompts(cmd.InOrStdin(), form); err != nil {
				if errors.Is(err, io.EOF) {
					_ = form.Cancel()
					fmt.Println("\nCanceled.")
					return nil
				}
				return err
			}
		}

		outcome, err := form.Submit(st)
		if err != nil {
			return err
		}

		switch outcome {
		case models.OutcomeCompleted:
			color.Green("✓ Reflection saved, %s done for %s", form.Day(), p.Name)
		case models.OutcomeUpdated:
			color.Green("✓ Reflection updated for %s", form.Day())
		case models.OutcomeUncompleted:
			color.Yellow("✗ Reflection cleared, %s un-marked for %s", form.Day(), p.Name)
		default:
			fmt.Println("Nothing to save.")
		}
		return nil
	},
}

// fillFromFlags applies any field flags the user set and reports whether
// there were any.
func fillFromFlags(cmd *cobra.Command, form *capture.Form) bool {
	set := false
	for _, name := range capture.Fields {
		if cmd.Flags().Changed(fieldFlag(name)) {
			_ = form.Set(name, *reflectFields[name])
			set = true
		}
	}
	for t, v := range reflectFlags {
		if cmd.Flags().Changed(string(t)) {
			_ = form.SetFlag(t, *v)
			set = true
		}
	}
	return set
}

func fillFromPrompts(in io.Reader, form *capture.Form) error {
	reader := bufio.NewReader(in)
	current := form.Reflection()
	values := map[string]string{
		"event":           current.Event,
		"emotion":         current.Emotion,
		"insight":         current.Insight,
		"limiting_belief": current.LimitingBelief,
		"reframe":         current.Reframe,
	}

	if form.Prefilled() {
		fmt.Printf("Editing reflection for %s\n\n", form.Day())
	} else {
		fmt.Printf("Reflection for %s\n\n", form.Day())
	}

	for _, name := range capture.Fields {
		answer, err := prompt(reader, fieldLabel(name), values[name])
		if err != nil {
			return err
		}
		if err := form.Set(name, answer); err != nil {
			return err
		}
	}

	for _, t := range models.KnownTypes {
		def := "n"
		if slices.Contains(current.Flags(), t) {
			def = "y"
		}
		answer, err := prompt(reader, fmt.Sprintf("Did %s? [y/n]", t.Title()), def)
		if err != nil {
			return err
		}
		if err := form.SetFlag(t, strings.HasPrefix(strings.ToLower(answer), "y")); err != nil {
			return err
		}
	}
	return nil
}

// prompt reads one line. Enter keeps current, "-" clears it.
func prompt(r *bufio.Reader, label, current string) (string, error) {
	if current != "" {
		fmt.Printf("%s %s: ", label, color.New(color.Faint).Sprintf("[%s]", current))
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := r.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return current, nil
	case "-":
		return "", nil
	}
	return line, nil
}

func fieldFlag(name string) string {
	if name == "limiting_belief" {
		return "belief"
	}
	return name
}

func fieldLabel(name string) string {
	if name == "limiting_belief" {
		return "Limiting belief"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func init() {
	for _, name := range capture.Fields {
		reflectFields[name] = reflectCmd.Flags().String(fieldFlag(name), "", fieldLabel(name))
	}
	for _, t := range models.KnownTypes {
		reflectFlags[t] = reflectCmd.Flags().Bool(string(t), false, "practiced "+t.Title())
	}
	reflectCmd.Flags().BoolVar(&reflectClear, "clear", false, "clear the reflection and un-mark the day")
	rootCmd.AddCommand(reflectCmd)
}
