// ABOUTME: Install Claude Code skill for practice
// ABOUTME: Embeds and installs the skill definition to ~/.claude/skills/

package main

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

//go:embed skill/SKILL.md
var skillFS embed.FS

var skillSkipConfirm bool

var installSkillCmd = &cobra.Command{
	Use:   "install-skill",
	Short: "Install Claude Code skill",
	Long: `Install the practice skill for Claude Code.

This copies the skill definition to ~/.claude/skills/practice/
so Claude Code can use practice commands contextually.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		return installSkill(home, cmd.InOrStdin(), skillSkipConfirm)
	},
}

func init() {
	installSkillCmd.Flags().BoolVarP(&skillSkipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(installSkillCmd)
}

// skillPath returns where the skill file is installed under home.
func skillPath(home string) string {
	return filepath.Join(home, ".claude", "skills", "practice", "SKILL.md")
}

func installSkill(home string, in io.Reader, skipConfirm bool) error {
	dest := skillPath(home)

	// Explain what gets installed
	fmt.Println("┌─────────────────────────────────────────────────────────────┐")
	fmt.Println("│            Practice Skill for Claude Code                   │")
	fmt.Println("└─────────────────────────────────────────────────────────────┘")
	fmt.Println()
	fmt.Println("This will install the practice skill, enabling Claude Code to:")
	fmt.Println()
	fmt.Println("  • Mark meditation, self-inquiry, and contemplation days done")
	fmt.Println("  • Journal reflections for a day")
	fmt.Println("  • Report progress and streaks")
	fmt.Println("  • Use the /practice slash command")
	fmt.Println()
	fmt.Println("Destination:")
	fmt.Printf("  %s\n", dest)
	fmt.Println()

	// Warn about an existing install
	if _, err := os.Stat(dest); err == nil {
		fmt.Println("Note: A skill file already exists and will be overwritten.")
		fmt.Println()
	}

	// Confirm unless --yes was passed
	if !skipConfirm {
		fmt.Print("Install the practice skill? [y/N] ")
		response, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Installation canceled.")
			return nil
		}
		fmt.Println()
	}

	// Copy the embedded skill into place
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		return fmt.Errorf("failed to read embedded skill: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return fmt.Errorf("failed to create skill directory: %w", err)
	}
	if err := os.WriteFile(dest, content, 0600); err != nil {
		return fmt.Errorf("failed to write skill file: %w", err)
	}

	fmt.Println("✓ Installed practice skill successfully!")
	fmt.Println()
	fmt.Println("Claude Code will now recognize /practice commands.")
	fmt.Println("Try asking Claude: \"I meditated this morning\" or \"How is my streak?\"")
	return nil
}
