package testutil

// ConstantRunID generates the same run ID every time.
//
// Unlike launcher.FixedGenerator which returns IDs in sequence and panics
// when they run out, this generator never runs out. Commands that may start
// any number of runs use it for golden output.
//
// Thread-safety: ConstantRunID is stateless and safe for concurrent use.
type ConstantRunID struct {
	id string
}

// NewConstantRunID creates a constant run ID generator.
//
// If id is empty, Generate() returns "run-test".
func NewConstantRunID(id string) *ConstantRunID {
	if id == "" {
		id = "run-test"
	}
	return &ConstantRunID{id: id}
}

// Generate returns the constant run ID.
//
// Implements launcher.RunIDGenerator.
func (g *ConstantRunID) Generate() string {
	return g.id
}
