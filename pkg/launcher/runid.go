package launcher

import (
	"sync"

	"github.com/google/uuid"
)

// RunIDGenerator names a launcher run. The ID is handed to
// Listener.RunStarted and Listener.RunFinished and ends up as the run_id of
// the report.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator is the default RunIDGenerator.
//
// A v7 UUID starts with its creation time, so report files named or indexed
// by run ID list in the order the runs were launched.
type UUIDv7Generator struct{}

// Generate returns a fresh run ID. uuid.NewV7 only fails when the system
// random source does, which Generate treats as fatal.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator hands out a scripted list of run IDs, one per launch, so
// golden reports do not depend on the time of day. Safe for concurrent use.
type FixedGenerator struct {
	mu   sync.Mutex
	ids  []string
	next int
}

// NewFixedGenerator scripts the run IDs of the next len(ids) launches.
//
//	l := New(WithRunIDGenerator(NewFixedGenerator("run-0001")))
//	runID, _ := l.Run(plan, collector) // "run-0001"
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next scripted run ID. It panics when a test launches
// more runs than it scripted IDs for.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.next == len(g.ids) {
		panic("FixedGenerator: all run ids exhausted")
	}
	id := g.ids[g.next]
	g.next++
	return id
}
