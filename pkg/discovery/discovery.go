// Package discovery finds suite roots and builds them into trees.
//
// Go has no classpath to scan, so suites announce themselves: a package
// registers its suites from init, the way database/sql drivers do, and a
// driver calls Discover on the registry it cares about.
//
//	func init() {
//		discovery.Register(discovery.Suite{
//			Name: "Calculator",
//			Build: func(g *tree.Group) {
//				g.Test("adds", func() error { ... })
//			},
//		})
//	}
package discovery

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/roach88/suitetree/pkg/engine"
	"github.com/roach88/suitetree/pkg/source"
	"github.com/roach88/suitetree/pkg/tree"
)

var (
	// ErrDuplicateSuite is returned when a suite name is registered twice.
	ErrDuplicateSuite = errors.New("duplicate suite name")

	// ErrInvalidSuite is returned for a suite with no name or no build block.
	ErrInvalidSuite = errors.New("invalid suite")
)

// Suite is one discoverable root.
type Suite struct {
	Name string
	// Build declares the root's contents. It runs once per Discover.
	Build func(*tree.Group)
	// Disabled builds the whole root disabled: it is reported, never run.
	Disabled bool
}

// Registry holds suites in registration order.
//
// Thread-safety: Registry is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	suites []Suite
	names  map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Register adds s. Suite names are unique within a registry.
func (r *Registry) Register(s Suite) error {
	if s.Name == "" {
		return fmt.Errorf("register suite: %w: empty name", ErrInvalidSuite)
	}
	if s.Build == nil {
		return fmt.Errorf("register suite %q: %w: nil build block", s.Name, ErrInvalidSuite)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[s.Name]; ok {
		return fmt.Errorf("register suite %q: %w", s.Name, ErrDuplicateSuite)
	}
	r.names[s.Name] = struct{}{}
	r.suites = append(r.suites, s)
	return nil
}

// MustRegister is like Register but panics on error. Intended for init.
func (r *Registry) MustRegister(s Suite) {
	if err := r.Register(s); err != nil {
		panic(err)
	}
}

// Suites returns a copy of the registered suites in registration order.
func (r *Registry) Suites() []Suite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Suite(nil), r.suites...)
}

// Len returns the number of registered suites.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.suites)
}

// Default is the registry Register adds to and the CLI discovers from.
var Default = NewRegistry()

// Register adds s to Default and panics if it cannot.
func Register(s Suite) {
	Default.MustRegister(s)
}

// BuildError reports a suite whose build block failed. Only that suite is
// affected; the other roots of the plan are still built.
type BuildError struct {
	Suite string
	Err   error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("build suite %q: %v", e.Suite, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// IsBuildError checks if err is a BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// BuildFailure is a suite that could not be built.
type BuildFailure struct {
	Suite string
	Err   *BuildError
}

// Plan is the result of discovery: the roots to run and the suites that
// could not be built.
type Plan struct {
	Roots    []*tree.Group
	Failures []BuildFailure
}

// Empty reports whether the plan has neither roots nor failures.
func (p *Plan) Empty() bool {
	return len(p.Roots) == 0 && len(p.Failures) == 0
}

type config struct {
	filters []string
	locator source.Locator
	logger  *slog.Logger
}

// Option configures Discover.
type Option func(*config)

// WithFilter keeps only suites whose name matches at least one of patterns.
// Patterns use doublestar syntax ("Calc*", "{Calc,Parser}", "**/db").
// Default: every suite.
func WithFilter(patterns ...string) Option {
	return func(c *config) {
		c.filters = append(c.filters, patterns...)
	}
}

// WithLocator sets how declaration sites are captured while building.
func WithLocator(l source.Locator) Option {
	return func(c *config) {
		c.locator = l
	}
}

// WithLogger sets the logger for discovery records.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Discover builds every selected suite of reg, in registration order.
//
// A block that panics or records a construction error becomes a
// BuildFailure for its suite only. The returned error is reserved for
// malformed filter patterns.
func Discover(reg *Registry, opts ...Option) (*Plan, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, p := range cfg.filters {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("discover: invalid filter pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}

	plan := &Plan{}
	for _, s := range reg.Suites() {
		if !selected(s.Name, cfg.filters) {
			cfg.logger.Debug("suite filtered out", "suite", s.Name)
			continue
		}

		root, err := build(s, cfg.locator)
		if err != nil {
			be := &BuildError{Suite: s.Name, Err: err}
			cfg.logger.Warn("suite build failed", "suite", s.Name, "error", err)
			plan.Failures = append(plan.Failures, BuildFailure{Suite: s.Name, Err: be})
			continue
		}
		cfg.logger.Debug("suite built", "suite", s.Name, "children", len(root.Children()))
		plan.Roots = append(plan.Roots, root)
	}
	return plan, nil
}

func selected(name string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, p := range filters {
		// Patterns were validated up front; Match cannot fail here.
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func build(s Suite, locator source.Locator) (root *tree.Group, err error) {
	defer func() {
		if p := recover(); p != nil {
			root = nil
			err = &engine.PanicError{Value: p, Stack: debug.Stack()}
		}
	}()

	var opts []tree.Option
	if locator != nil {
		opts = append(opts, tree.WithLocator(locator))
	}
	if s.Disabled {
		opts = append(opts, tree.Disabled())
	}
	return tree.Build(s.Name, s.Build, opts...)
}
