// ABOUTME: Root Cobra command for the practice CLI.
// ABOUTME: Loads config, opens the storage backend, and builds the store per run.
package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/harperreed/practice/internal/config"
	"github.com/harperreed/practice/internal/logger"
	"github.com/harperreed/practice/internal/storage"
	"github.com/harperreed/practice/internal/store"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// skipStore marks commands that work on raw storage and must not open it.
const skipStore = "skip-store"

var (
	cfg    *config.Config
	logr   *log.Logger
	repo   storage.Repository
	st     *store.Store
	debugF bool
)

var rootCmd = &cobra.Command{
	Use:   "practice",
	Short: "Daily practice and streak tracker",
	Long: `Practice tracks daily contemplative practices over 30, 60, or 90 day windows.

Each practice has a window of days starting on its start date. Mark a day
done, attach a reflection to it, and watch your progress and streaks grow.
Days unlock in order: the day after your latest completed day is open, and
any completed day stays editable.

QUICK START:

  $ practice list                         # See your practices
  $ practice done 5b0c3c1e                # Mark today (or the open day) done
  $ practice reflect 5b0c3c1e             # Journal about the day
  $ practice show 5b0c3c1e                # Calendar, streaks, reflections
  $ practice challenge meditation         # Start a 30-day challenge

PRACTICES:

  $ practice add "Evening sit" --type meditation --duration 60
  $ practice edit 5b0c --duration 90
  $ practice restart 5b0c
  $ practice delete 5b0c

STORAGE:

  Backends: local (default, badger), sqlite, charm (synced via Charm Cloud).
  Choose one in ~/.config/practice/config.json or with PRACTICE_BACKEND.

MCP INTEGRATION:

  Run 'practice mcp' to start the Model Context Protocol server:

  {
    "mcpServers": {
      "practice": { "command": "practice", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "help", "completion", "install-skill":
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if debugF {
			cfg.Debug = true
		}

		logr, err = logger.New(logger.Config{Debug: cfg.Debug, LogDir: cfg.LogDir()})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		if cmd.Annotations[skipStore] != "" {
			return nil
		}

		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		logr.Debug("storage opened", "backend", cfg.GetBackend())

		st = store.New(repo, store.WithLogger(logr), store.WithLocation(loc))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// closeStore reports unsaved changes and closes the backend. Safe to call
// more than once.
func closeStore() error {
	if st != nil && st.PersistErr() != nil {
		color.Yellow("⚠ Some changes were not saved: %v", st.PersistErr())
	}
	st = nil
	if repo == nil {
		return nil
	}
	err := repo.Close()
	repo = nil
	return err
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("practice", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.PersistentFlags().BoolVar(&debugF, "debug", false, "log debug output to stderr")
}
