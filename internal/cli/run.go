package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/suitetree/pkg/discovery"
	"github.com/roach88/suitetree/pkg/engine"
	"github.com/roach88/suitetree/pkg/launcher"
	"github.com/roach88/suitetree/pkg/report"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Filter     []string // suite name patterns
	ReportPath string   // also write the JSON report here
	RootID     string   // engine segment of unique IDs
	Durations  bool     // print durations in text output
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover and run suites",
		Long: `Discover registered suites, run them and print the report.

Exit codes:
  0 - Every executed group and test passed
  1 - A group or test failed, or a suite failed to build
  2 - Command error (invalid config, filter or report path)

Examples:
  suitetree run
  suitetree run --filter "Calc*" --filter Parser
  suitetree run --format json --report out/report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Filter, "filter", nil, "run only suites matching these glob patterns")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "also write the JSON report to this file")
	cmd.Flags().StringVar(&opts.RootID, "root-id", "", "engine segment of unique IDs (default: suitetree)")
	cmd.Flags().BoolVar(&opts.Durations, "durations", false, "print durations in text output")

	return cmd
}

func runSuites(cmd *cobra.Command, opts *RunOptions) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := loadSettings(cmd, opts.RootOptions)
	if err != nil {
		return fail(out, ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	out.Format = cfg.Format

	flags := cmd.Flags()
	if flags.Changed("filter") {
		cfg.Filter = opts.Filter
	}
	if flags.Changed("report") {
		cfg.ReportPath = opts.ReportPath
	}
	if flags.Changed("root-id") {
		cfg.RootID = opts.RootID
	}
	if flags.Changed("durations") {
		cfg.Durations = opts.Durations
	}
	if err := cfg.Validate(); err != nil {
		return fail(out, ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())

	plan, err := discovery.Discover(opts.Registry,
		discovery.WithFilter(cfg.Filter...),
		discovery.WithLogger(logger),
	)
	if err != nil {
		return fail(out, ExitCommandError, ErrCodeDiscovery, "discovery failed", err)
	}

	launchOpts := []launcher.Option{
		launcher.WithEngine(engine.New(
			engine.WithRootID(engine.NewUniqueID(cfg.RootID)),
			engine.WithLogger(logger),
		)),
		launcher.WithLogger(logger),
	}
	if opts.RunIDs != nil {
		launchOpts = append(launchOpts, launcher.WithRunIDGenerator(opts.RunIDs))
	}

	col := report.NewCollector(report.WithNow(opts.Now))
	if _, err := launcher.New(launchOpts...).Run(plan, col); err != nil {
		return fail(out, ExitCommandError, ErrCodeRun, "run aborted", err)
	}
	rep := col.Report()

	if cfg.ReportPath != "" {
		if err := writeReportFile(cfg.ReportPath, rep); err != nil {
			return fail(out, ExitCommandError, ErrCodeWriteFailed, "cannot write report", err)
		}
	}

	failed := col.Failed()
	if out.JSON() {
		if failed {
			err = out.Failure(ErrCodeTestsFailed, summaryLine(rep.Summary), rep)
		} else {
			err = out.Success(rep)
		}
	} else {
		err = report.WriteText(cmd.OutOrStdout(), rep, report.TextOptions{
			NoColor:   cfg.NoColor,
			Durations: cfg.Durations,
		})
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot write output", err)
	}

	if failed {
		return NewExitError(ExitFailure, summaryLine(rep.Summary))
	}
	return nil
}

func summaryLine(s report.Summary) string {
	return fmt.Sprintf("%d failed, %d build failed", s.Failed, s.BuildFailed)
}

func writeReportFile(path string, rep report.Report) error {
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, rep); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}
