// Package cli implements the nodediff command-line interface.
//
// The main command is diff, which compares the documented API surface of two
// Node.js release lines and prints newly introduced methods. Supporting
// commands manage the on-disk document cache. All commands support --verbose
// (-v) for debug-level logging; loggers are passed through context.Context.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"nodediff/pkg/buildinfo"
)

const (
	// appName is the application name used for config paths and display.
	appName = "nodediff"

	// defaultCacheDir is where raw module documents are kept between runs,
	// one subdirectory per release line.
	defaultCacheDir = "cache"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "nodediff",
		Short:        "nodediff reports new API methods between Node.js versions",
		Long:         `nodediff fetches the API documentation of two Node.js release lines, flattens each module's methods and classes into a normalized record, and prints the methods present in the newer line but absent from the older one.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.diffCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
