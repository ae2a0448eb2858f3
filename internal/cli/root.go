// Package cli implements the suitetree command line: it discovers registered
// suites, runs them and renders the report.
package cli

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/suitetree/pkg/discovery"
	"github.com/roach88/suitetree/pkg/launcher"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Config    string // config file; empty means look for suitetree.{yaml,yml,cue}
	Format    string // "json" | "text"
	LogLevel  string
	LogFormat string
	NoColor   bool

	// Registry is where suites are discovered. Tests inject their own.
	Registry *discovery.Registry
	// RunIDs overrides the run ID generator. Tests set it for stable output.
	RunIDs launcher.RunIDGenerator
	// Now overrides the wall clock durations are measured with.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. Suites are discovered from reg;
// nil means discovery.Default.
func NewRootCommand(reg *discovery.Registry) *cobra.Command {
	if reg == nil {
		reg = discovery.Default
	}
	return newRootCommand(&RootOptions{Registry: reg})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suitetree",
		Short: "suitetree - declarative test trees",
		Long: `Run and inspect suites declared as trees of groups and tests.

Suites register themselves at init time; suitetree discovers them, executes
every group and test with its hooks, and reports the outcome of each node.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "config file (default: ./suitetree.{yaml,yml,cue})")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "log format (text|json)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable styled output")

	// Add subcommands
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
