package tree

import (
	"github.com/roach88/suitetree/pkg/source"
)

// shared is the per-tree state every group of one root points at.
type shared struct {
	locator    source.Locator
	errs       []error
	violations []error
}

type buildConfig struct {
	locator  source.Locator
	disabled bool
}

// Option configures Build.
type Option func(*buildConfig)

// WithLocator sets how declaration sites are captured.
// Default: source.CallerLocator{}.
func WithLocator(l source.Locator) Option {
	return func(c *buildConfig) {
		if l != nil {
			c.locator = l
		}
	}
}

// Disabled builds the whole tree disabled.
func Disabled() Option {
	return func(c *buildConfig) {
		c.disabled = true
	}
}

// New creates an empty, enabled root group in the Constructing phase.
func New(name string, opts ...Option) (*Group, error) {
	cfg := buildConfig{locator: source.CallerLocator{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	if name == "" {
		return nil, &ConstructionError{Code: ErrCodeEmptyName, Op: "build"}
	}
	return &Group{
		name:    name,
		enabled: !cfg.disabled,
		src:     cfg.locator.Locate(),
		phase:   Constructing,
		shared:  &shared{locator: cfg.locator},
	}, nil
}

// Build creates a root group, runs block against it and returns it still
// Constructing. The returned error is the first construction error recorded
// while the block ran, whether or not the block checked it.
//
// A panic inside block is not recovered here; discovery does that so one
// broken root does not take down the others.
func Build(name string, block func(*Group), opts ...Option) (*Group, error) {
	root, err := New(name, opts...)
	if err != nil {
		return nil, err
	}
	if block != nil {
		block(root)
	}
	if err := root.Err(); err != nil {
		return nil, err
	}
	return root, nil
}
