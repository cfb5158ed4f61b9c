// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server over the practice store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/practice/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants like Claude read and update your practices through
a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "practice": {
        "command": "practice",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_practices      List practices with progress and streaks
  get_practice        Get one practice with dates and reflections
  create_practice     Create a practice
  start_challenge     Start a 30-day challenge for a type
  complete_day        Mark a day done
  uncomplete_day      Mark a day not done
  save_reflection     Write the reflection for a day
  update_practice     Change name, description, color, type, or duration
  delete_practice     Delete a practice
  reset_practices     Replace everything with the defaults

AVAILABLE RESOURCES:

  practice://summary  Every practice with progress and totals
  practice://today    What is done and open today`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(st)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		logr.Info("mcp server starting", "backend", cfg.GetBackend())
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
