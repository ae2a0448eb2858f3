// Package fixture provides reusable hook bundles for suite trees.
package fixture

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/roach88/suitetree/pkg/tree"
)

// Dir is a temporary directory that exists for the duration of each test in
// the group it was registered on. Every test gets a fresh directory.
type Dir struct {
	name          string
	parent        string
	keepOnFailure bool
	logger        *slog.Logger

	mu   sync.Mutex
	path string
}

// Option configures TempDir.
type Option func(*Dir)

// WithName sets the directory name prefix; directories are created as
// "tmp-<name>-*". Default: "dir".
func WithName(name string) Option {
	return func(d *Dir) {
		if name != "" {
			d.name = name
		}
	}
}

// WithParent sets where directories are created.
// Default: os.TempDir().
func WithParent(dir string) Option {
	return func(d *Dir) {
		d.parent = dir
	}
}

// KeepOnFailure controls whether the directory of a failed test is left on
// disk for inspection. Default: true.
func KeepOnFailure(keep bool) Option {
	return func(d *Dir) {
		d.keepOnFailure = keep
	}
}

// WithLogger sets the logger that reports kept directories.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dir) {
		if l != nil {
			d.logger = l
		}
	}
}

// TempDir registers a beforeEach hook on g that creates a directory and an
// afterEach hook that removes it. The directory is reachable through Path
// while a test of g (or of a nested group) runs.
//
//	g.Group("generator", func(g *tree.Group) {
//		sources := fixture.TempDir(g, fixture.WithName("sources"))
//		g.Test("writes files", func() error {
//			return generate(sources.Path())
//		})
//	})
func TempDir(g *tree.Group, opts ...Option) *Dir {
	d := &Dir{
		name:          "dir",
		keepOnFailure: true,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	// Errors land in the tree's sticky error and fail Build.
	_ = g.BeforeEach(d.create)
	_ = g.AfterEach(d.remove)
	return d
}

// Path returns the current test's directory.
//
// Panics when called outside a test body or its hooks: the directory only
// exists between the beforeEach and afterEach hooks of a test.
func (d *Dir) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.path == "" {
		panic(fmt.Sprintf("fixture: temp dir %q is not initialized; use it from inside a test", d.name))
	}
	return d.path
}

func (d *Dir) create() error {
	path, err := os.MkdirTemp(d.parent, "tmp-"+d.name+"-*")
	if err != nil {
		return fmt.Errorf("create temp dir %q: %w", d.name, err)
	}
	d.mu.Lock()
	d.path = path
	d.mu.Unlock()
	return nil
}

func (d *Dir) remove(o tree.Outcome) error {
	d.mu.Lock()
	path := d.path
	d.path = ""
	d.mu.Unlock()

	if path == "" {
		// create failed; nothing to clean up.
		return nil
	}
	if d.keepOnFailure && o.IsFailure() {
		d.logger.Info("test failed, keeping temporary dir",
			"test", o.Subject,
			"path", path,
		)
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove temp dir %q: %w", d.name, err)
	}
	return nil
}
