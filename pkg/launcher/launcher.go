// Package launcher runs a discovery plan through the engine and reports to a
// Listener, the way an IDE or build tool drives a test platform.
package launcher

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/suitetree/pkg/discovery"
	"github.com/roach88/suitetree/pkg/engine"
)

// Listener receives everything a run produces: the engine's node events plus
// run boundaries and suites that never got built.
type Listener interface {
	engine.Sink

	// RunStarted is called once, before anything else.
	RunStarted(runID string) error
	// BuildFailed reports a suite whose tree could not be built. id is the
	// suite's ID under the engine root, e.g. "[engine:suitetree]/[suite:Calc]".
	BuildFailed(id engine.UniqueID, suite string, err error) error
	// RunFinished is called once, after every root has been executed.
	RunFinished(runID string) error
}

// Launcher executes plans. A Launcher holds no per-run state.
type Launcher struct {
	engine *engine.Engine
	ids    RunIDGenerator
	logger *slog.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithEngine sets the engine roots are executed with.
// Default: engine.New().
func WithEngine(e *engine.Engine) Option {
	return func(l *Launcher) {
		if e != nil {
			l.engine = e
		}
	}
}

// WithRunIDGenerator sets where run IDs come from.
// Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(l *Launcher) {
		if g != nil {
			l.ids = g
		}
	}
}

// WithLogger sets the logger for run-level records.
// Default: a logger that discards everything.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Launcher) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New creates a Launcher.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		engine: engine.New(),
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run executes plan and returns the run ID.
//
// Build failures are reported first, in plan order. Every root is locked
// before the first one runs, then roots execute one after another. A root's
// failures never affect the others; only an error from the listener stops
// the run, and it is returned wrapped.
func (l *Launcher) Run(plan *discovery.Plan, listener Listener) (string, error) {
	runID := l.ids.Generate()
	log := l.logger.With("run_id", runID)

	if err := listener.RunStarted(runID); err != nil {
		return runID, fmt.Errorf("run %s: listener: %w", runID, err)
	}
	log.Info("run started", "roots", len(plan.Roots), "build_failures", len(plan.Failures))

	for _, f := range plan.Failures {
		id := l.engine.RootID().Append(engine.SegmentSuite, f.Suite)
		log.Warn("suite not built", "suite", f.Suite, "error", f.Err)
		if err := listener.BuildFailed(id, f.Suite, f.Err); err != nil {
			return runID, fmt.Errorf("run %s: listener: %w", runID, err)
		}
	}

	for _, root := range plan.Roots {
		root.Lock()
	}
	for _, root := range plan.Roots {
		log.Debug("executing root", "root", root.Name())
		if err := l.engine.Run(root, listener); err != nil {
			return runID, fmt.Errorf("run %s: %w", runID, err)
		}
	}

	if err := listener.RunFinished(runID); err != nil {
		return runID, fmt.Errorf("run %s: listener: %w", runID, err)
	}
	log.Info("run finished")
	return runID, nil
}
