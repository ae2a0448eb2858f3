package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"github.com/roach88/suitetree/pkg/tree"
)

// Engine walks a locked tree and runs its hooks and test bodies.
//
// An Engine holds no per-run state and may run several trees one after
// another; each Run is single-threaded and depth-first.
type Engine struct {
	rootID UniqueID
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for per-node debug records.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRootID sets the ID under which root nodes are reported.
// Default: NewUniqueID(DefaultEngineID).
func WithRootID(id UniqueID) Option {
	return func(e *Engine) {
		if len(id) > 0 {
			e.rootID = id
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		rootID: NewUniqueID(DefaultEngineID),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RootID returns the ID root nodes are reported under.
func (e *Engine) RootID() UniqueID { return e.rootID }

// Run executes node and everything below it, reporting to sink.
//
// The tree is locked first if the driver has not done so. Node failures are
// reported through the sink and never returned; the only error Run returns
// is a *SinkError.
func (e *Engine) Run(node tree.Node, sink Sink) error {
	root := tree.Root(node)
	if root == nil {
		return fmt.Errorf("run: node %q has no root group", node.Name())
	}
	root.Lock()

	r := &run{engine: e, sink: sink, root: root}
	return r.visit(node, e.rootID, "")
}

// run is the state of one walk.
type run struct {
	engine *Engine
	sink   Sink
	root   *tree.Group
}

// visit reports node. A non-empty blocked reason means an ancestor's
// beforeGroup failed: the node is reported as skipped and nothing in it runs.
func (r *run) visit(node tree.Node, parent UniqueID, blocked string) error {
	ev := Event{ID: parent.AppendNode(node), Parent: parent, Node: node}
	if err := r.sink.Started(ev); err != nil {
		return &SinkError{Event: "started", ID: ev.ID, Err: err}
	}

	switch n := node.(type) {
	case *tree.Group:
		return r.visitGroup(n, ev, blocked)
	case *tree.Test:
		return r.visitTest(n, ev, blocked)
	default:
		return fmt.Errorf("run: unknown node type %T", node)
	}
}

func (r *run) visitGroup(g *tree.Group, ev Event, blocked string) error {
	if blocked != "" || !g.Enabled() {
		for _, child := range g.Children() {
			if err := r.visit(child, ev.ID, blocked); err != nil {
				return err
			}
		}
		return r.skip(ev, skipReason(blocked))
	}

	var failure *Failure
	for _, fn := range g.BeforeGroupHooks() {
		if errs := r.call(fn); len(errs) > 0 {
			failure = merge(nil, errs)
			break
		}
	}

	childBlocked := ""
	if failure != nil {
		childBlocked = fmt.Sprintf("beforeGroup of %q failed", tree.PathString(g))
		r.engine.logger.Debug("beforeGroup failed",
			"node_id", ev.ID.String(),
			"error", failure.Primary(),
		)
	}
	for _, child := range g.Children() {
		if err := r.visit(child, ev.ID, childBlocked); err != nil {
			return err
		}
	}

	for _, fn := range g.AfterGroupHooks() {
		outcome := tree.Outcome{Cause: failure.snapshot()}
		failure = merge(failure, r.callAfter(fn, outcome))
	}

	return r.finish(ev, failure)
}

func (r *run) visitTest(t *tree.Test, ev Event, blocked string) error {
	if blocked != "" || !t.Enabled() {
		return r.skip(ev, skipReason(blocked))
	}

	scopes := tree.Ancestors(t)

	failure := merge(nil, r.beforeEach(scopes))
	if failure == nil {
		failure = merge(nil, r.call(t.Body()))
	}

	// Innermost scope first: the mirror image of beforeEach.
	for i := len(scopes) - 1; i >= 0; i-- {
		for _, fn := range scopes[i].AfterEachHooks() {
			outcome := tree.Outcome{Subject: t.Name(), Cause: failure.snapshot()}
			failure = merge(failure, r.callAfter(fn, outcome))
		}
	}

	return r.finish(ev, failure)
}

// beforeEach runs every scope's beforeEach hooks, outermost first, and stops
// at the first failing hook.
func (r *run) beforeEach(scopes []*tree.Group) []error {
	for _, g := range scopes {
		for _, fn := range g.BeforeEachHooks() {
			if errs := r.call(fn); len(errs) > 0 {
				return errs
			}
		}
	}
	return nil
}

func (r *run) call(fn tree.Func) []error {
	return r.guard(func() error { return fn() })
}

func (r *run) callAfter(fn tree.AfterFunc, o tree.Outcome) []error {
	return r.guard(func() error { return fn(o) })
}

// guard runs fn and returns everything that went wrong in it, first error
// first: the returned error, a recovered *PanicError or ErrExited, then each
// construction call fn made on the locked tree that the first error does not
// already wrap.
//
// fn runs on its own goroutine so that runtime.Goexit, as called by
// testing.T.FailNow, ends only fn and not the walk. The walk waits for fn, so
// hooks and bodies still run one at a time.
func (r *run) guard(fn func() error) []error {
	before := len(r.root.Violations())

	done := make(chan error, 1)
	go func() {
		var err error
		returned := false
		defer func() {
			if p := recover(); p != nil {
				err = &PanicError{Value: p, Stack: debug.Stack()}
			} else if !returned {
				err = ErrExited
			}
			done <- err
		}()
		err = fn()
		returned = true
	}()
	err := <-done

	var errs []error
	if err != nil {
		errs = append(errs, err)
	}
	for _, v := range r.root.Violations()[before:] {
		if err != nil && errors.Is(err, v) {
			continue
		}
		errs = append(errs, v)
	}
	return errs
}

func (r *run) finish(ev Event, failure *Failure) error {
	result := Successful()
	if failure != nil {
		result = Failed(failure)
	}
	r.engine.logger.Debug("node finished",
		"node_id", ev.ID.String(),
		"kind", string(ev.Node.Kind()),
		"status", string(result.Status),
	)
	if err := r.sink.Finished(ev, result); err != nil {
		return &SinkError{Event: "finished", ID: ev.ID, Err: err}
	}
	return nil
}

func (r *run) skip(ev Event, reason string) error {
	r.engine.logger.Debug("node skipped",
		"node_id", ev.ID.String(),
		"kind", string(ev.Node.Kind()),
		"reason", reason,
	)
	if err := r.sink.Skipped(ev, reason); err != nil {
		return &SinkError{Event: "skipped", ID: ev.ID, Err: err}
	}
	return nil
}

func skipReason(blocked string) string {
	if blocked != "" {
		return blocked
	}
	return ReasonDisabled
}
