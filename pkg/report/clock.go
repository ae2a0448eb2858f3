package report

import "sync/atomic"

// Clock numbers report entries.
//
// The Collector takes one number per Started or BuildFailed event, so an
// entry's Seq is its position in the event stream. Seq orders entries without
// wall-clock timestamps; two runs of the same tree get the same numbers.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a Clock whose first entry gets Seq 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt returns a Clock whose first entry gets Seq start+1. Collectors
// that share one numbering across several runs continue from the last Seq
// the previous run handed out.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next takes the next Seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current reports the last Seq taken, 0 before any entry.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
