// Package report collects launcher events into a per-node result list and
// renders it as JSON or as an indented text tree.
package report

import (
	"errors"
	"sync"
	"time"

	"github.com/roach88/suitetree/pkg/engine"
	"github.com/roach88/suitetree/pkg/source"
)

// Status is the final state of an entry.
type Status string

const (
	StatusPassed      Status = "PASSED"
	StatusFailed      Status = "FAILED"
	StatusSkipped     Status = "SKIPPED"
	StatusBuildFailed Status = "BUILD_FAILED"
)

// KindSuite marks entries for suites that failed to build.
const KindSuite = engine.SegmentSuite

// Entry is the result of one node, or of one suite that failed to build.
type Entry struct {
	Seq      int64           `json:"seq"`
	ID       engine.UniqueID `json:"id"`
	Parent   engine.UniqueID `json:"parent,omitempty"`
	Kind     string          `json:"kind"`
	Name     string          `json:"name"`
	Status   Status          `json:"status"`
	Reason   string          `json:"reason,omitempty"`
	Duration time.Duration   `json:"duration_ns"`
	Failure  *engine.Failure `json:"-"`
	Detail   *FailureDetail  `json:"failure,omitempty"`
	Source   source.Location `json:"source,omitzero"`
}

// Depth is the number of ancestors the entry has below the engine root.
func (e Entry) Depth() int {
	if len(e.ID) < 2 {
		return 0
	}
	return len(e.ID) - 2
}

// FailureDetail is the printable form of an engine.Failure.
type FailureDetail struct {
	Primary    string   `json:"primary"`
	Suppressed []string `json:"suppressed,omitempty"`
}

func newDetail(f *engine.Failure) *FailureDetail {
	if f == nil {
		return nil
	}
	d := &FailureDetail{Primary: f.Primary().Error()}
	for _, s := range f.Suppressed() {
		d.Suppressed = append(d.Suppressed, s.Error())
	}
	return d
}

// Summary counts entries by status. Total and the status counts include
// groups; Tests counts test entries only.
type Summary struct {
	Total       int `json:"total"`
	Tests       int `json:"tests"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
	BuildFailed int `json:"build_failed"`
}

// Report is a snapshot of a Collector.
type Report struct {
	RunID   string  `json:"run_id"`
	Summary Summary `json:"summary"`
	Entries []Entry `json:"entries"`
}

// Collector is a launcher.Listener that records every event.
//
// Entries are kept in Started order, which is a pre-order walk of each tree.
//
// Thread-safety: Collector is safe for concurrent use via internal mutex.
type Collector struct {
	mu      sync.Mutex
	clock   *Clock
	now     func() time.Time
	runID   string
	entries []*Entry
	index   map[string]*Entry
	started map[string]time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithClock sets the clock entries are sequenced with.
// Default: NewClock().
func WithClock(c *Clock) Option {
	return func(col *Collector) {
		if c != nil {
			col.clock = c
		}
	}
}

// WithNow sets the wall clock durations are measured with.
// Default: time.Now.
func WithNow(now func() time.Time) Option {
	return func(col *Collector) {
		if now != nil {
			col.now = now
		}
	}
}

// NewCollector creates an empty collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		clock:   NewClock(),
		now:     time.Now,
		index:   make(map[string]*Entry),
		started: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunStarted records the run ID.
func (c *Collector) RunStarted(runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runID = runID
	return nil
}

// RunFinished implements launcher.Listener.
func (c *Collector) RunFinished(string) error { return nil }

// BuildFailed records a suite that never produced a tree.
func (c *Collector) BuildFailed(id engine.UniqueID, suite string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := engine.NewFailure(err)
	c.add(&Entry{
		Seq:     c.clock.Next(),
		ID:      id,
		Parent:  id.Parent(),
		Kind:    KindSuite,
		Name:    suite,
		Status:  StatusBuildFailed,
		Failure: f,
		Detail:  newDetail(f),
	})
	return nil
}

// Started opens an entry for the node.
func (c *Collector) Started(ev engine.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := ev.ID.String()
	if _, dup := c.index[key]; dup {
		return errors.New("report: node started twice: " + key)
	}
	c.started[key] = c.now()
	c.add(&Entry{
		Seq:    c.clock.Next(),
		ID:     ev.ID,
		Parent: ev.Parent,
		Kind:   string(ev.Node.Kind()),
		Name:   ev.Node.Name(),
		Source: ev.Node.Source(),
	})
	return nil
}

// Finished closes the node's entry as passed or failed.
func (c *Collector) Finished(ev engine.Event, r engine.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.open(ev.ID)
	if err != nil {
		return err
	}
	e.Status = StatusPassed
	if r.Status == engine.StatusFailed {
		e.Status = StatusFailed
		e.Failure = r.Failure
		e.Detail = newDetail(r.Failure)
	}
	e.Duration = c.now().Sub(c.started[e.ID.String()])
	return nil
}

// Skipped closes the node's entry as skipped.
func (c *Collector) Skipped(ev engine.Event, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.open(ev.ID)
	if err != nil {
		return err
	}
	e.Status = StatusSkipped
	e.Reason = reason
	return nil
}

func (c *Collector) add(e *Entry) {
	c.entries = append(c.entries, e)
	c.index[e.ID.String()] = e
}

// open returns the entry for id, which must have started and not finished.
func (c *Collector) open(id engine.UniqueID) (*Entry, error) {
	key := id.String()
	e, ok := c.index[key]
	if !ok {
		return nil, errors.New("report: node finished before it started: " + key)
	}
	if e.Status != "" {
		return nil, errors.New("report: node finished twice: " + key)
	}
	return e, nil
}

// RunID returns the ID passed to RunStarted.
func (c *Collector) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Entries returns a copy of every entry in Started order.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(func(*Entry) bool { return true })
}

// Failures returns the FAILED and BUILD_FAILED entries.
func (c *Collector) Failures() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(func(e *Entry) bool { return e.Status.failed() })
}

// Failed reports whether any node failed or any suite failed to build.
func (c *Collector) Failed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.Status.failed() {
			return true
		}
	}
	return false
}

// Lookup returns the entry for id.
func (c *Collector) Lookup(id engine.UniqueID) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.index[id.String()]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Summary counts the entries recorded so far.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return summarize(c.entries)
}

// Report returns a snapshot suitable for rendering.
func (c *Collector) Report() Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Report{
		RunID:   c.runID,
		Summary: summarize(c.entries),
		Entries: c.snapshot(func(*Entry) bool { return true }),
	}
}

func (c *Collector) snapshot(keep func(*Entry) bool) []Entry {
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, *e)
		}
	}
	return out
}

func summarize(entries []*Entry) Summary {
	var s Summary
	for _, e := range entries {
		s.Total++
		if e.Kind == engine.SegmentTest {
			s.Tests++
		}
		switch e.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		case StatusBuildFailed:
			s.BuildFailed++
		}
	}
	return s
}

func (s Status) failed() bool {
	return s == StatusFailed || s == StatusBuildFailed
}
