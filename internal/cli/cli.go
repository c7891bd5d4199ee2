// Package cli implements the flowgrid command-line interface.
//
// This package provides commands for inspecting graph documents, querying
// connectivity, computing viewport transforms, serving instance state over
// HTTP, and saving/loading snapshots. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - inspect: Load a graph document and print its statistics and bounds
//   - query: Print outgoers, incomers, or connected edges for a node
//   - fit: Compute the viewport transform that fits a document
//   - serve: Expose instance state as a read-only JSON API
//   - snapshot: Save, load, and delete instance snapshots
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// appName is the application name used for directories and display.
const appName = "flowgrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. This is
// typically called by the main package with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a timestamped logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowgrid manages node/edge diagram state",
		Long:         `Flowgrid is the state and geometry engine behind interactive node/edge diagram editors: it normalizes graph documents, resolves nesting and viewport transforms, and answers connectivity queries.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := withLogger(cmd.Context(), c.Logger)
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(appName + " " + version + "\ncommit: " + commit + "\nbuilt: " + date + "\n")

	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.fitCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.snapshotCommand())

	return root
}

// snapshotDir returns the default snapshot directory using the XDG standard
// (~/.config/flowgrid/snapshots/).
func snapshotDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "snapshots"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "snapshots"), nil
}
