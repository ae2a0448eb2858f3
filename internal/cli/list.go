package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/suitetree/pkg/discovery"
	"github.com/roach88/suitetree/pkg/engine"
	"github.com/roach88/suitetree/pkg/tree"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Filter []string
}

// ListedNode is one node of a discovered tree.
type ListedNode struct {
	ID       string       `json:"id"`
	Kind     string       `json:"kind"`
	Name     string       `json:"name"`
	Enabled  bool         `json:"enabled"`
	Source   string       `json:"source,omitempty"`
	Children []ListedNode `json:"children,omitempty"`
}

// ListedFailure is a suite whose tree could not be built.
type ListedFailure struct {
	ID    string `json:"id"`
	Suite string `json:"suite"`
	Error string `json:"error"`
}

// ListResult is the output of the list command.
type ListResult struct {
	Suites   []ListedNode    `json:"suites"`
	Failures []ListedFailure `json:"build_failures,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered suites without running them",
		Long: `Build every registered suite and print its tree of groups and tests.

Nothing is executed: no hook and no test body runs.

Exit codes:
  0 - Every suite was built
  1 - A suite failed to build
  2 - Command error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listSuites(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Filter, "filter", nil, "list only suites matching these glob patterns")

	return cmd
}

func listSuites(cmd *cobra.Command, opts *ListOptions) error {
	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}

	cfg, err := loadSettings(cmd, opts.RootOptions)
	if err != nil {
		return fail(out, ExitCommandError, ErrCodeConfig, "invalid configuration", err)
	}
	out.Format = cfg.Format
	if cmd.Flags().Changed("filter") {
		cfg.Filter = opts.Filter
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	plan, err := discovery.Discover(opts.Registry,
		discovery.WithFilter(cfg.Filter...),
		discovery.WithLogger(logger),
	)
	if err != nil {
		return fail(out, ExitCommandError, ErrCodeDiscovery, "discovery failed", err)
	}

	rootID := engine.NewUniqueID(cfg.RootID)
	result := ListResult{Suites: make([]ListedNode, 0, len(plan.Roots))}
	for _, root := range plan.Roots {
		result.Suites = append(result.Suites, listNode(root, rootID))
	}
	for _, f := range plan.Failures {
		result.Failures = append(result.Failures, ListedFailure{
			ID:    rootID.Append(engine.SegmentSuite, f.Suite).String(),
			Suite: f.Suite,
			Error: f.Err.Error(),
		})
	}

	if out.JSON() {
		if len(result.Failures) > 0 {
			err = out.Failure(ErrCodeDiscovery, "suites failed to build", result)
		} else {
			err = out.Success(result)
		}
	} else {
		err = writeList(cmd.OutOrStdout(), result)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot write output", err)
	}

	if len(result.Failures) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suites failed to build", len(result.Failures)))
	}
	return nil
}

func listNode(n tree.Node, parent engine.UniqueID) ListedNode {
	id := parent.AppendNode(n)
	ln := ListedNode{
		ID:      id.String(),
		Kind:    string(n.Kind()),
		Name:    n.Name(),
		Enabled: n.Enabled(),
	}
	if src := n.Source(); !src.IsZero() {
		ln.Source = src.String()
	}
	if g, ok := n.(*tree.Group); ok {
		for _, child := range g.Children() {
			ln.Children = append(ln.Children, listNode(child, id))
		}
	}
	return ln
}

func writeList(w io.Writer, result ListResult) error {
	var b strings.Builder
	var walk func(n ListedNode, depth int)
	walk = func(n ListedNode, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Kind + " " + n.Name)
		if !n.Enabled {
			b.WriteString(" (disabled)")
		}
		b.WriteByte('\n')
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, s := range result.Suites {
		walk(s, 0)
	}
	for _, f := range result.Failures {
		fmt.Fprintf(&b, "suite %s (build failed)\n    %s\n", f.Suite, f.Error)
	}
	if len(result.Suites) == 0 && len(result.Failures) == 0 {
		b.WriteString("No suites found.\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
