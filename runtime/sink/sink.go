// Package sink is the generated runtime's output channel, the Go
// counterpart of grust/out's Runtime.send_output over an mpsc::Sender:
// every exported flow update is timestamped and delivered in emission
// order to whatever consumes the generated service (a test harness, a
// transport adapter).
package sink

import (
	"sync/atomic"
	"time"
)

// Output is one exported-flow update: the flow name, its new value, and
// the instant it was produced.
type Output struct {
	Name  string
	Value any
	At    time.Time
}

// Sink buffers Outputs on a channel, mirroring the original's bounded
// mpsc channel (OUTPUT_CHANNEL_SIZE) rather than an unbounded slice, so a
// slow consumer applies backpressure to the run loop instead of letting
// memory grow unbounded.
type Sink struct {
	ch        chan Output
	coalesced atomic.Int64
}

// New creates a Sink with the given channel capacity.
func New(capacity int) *Sink {
	return &Sink{ch: make(chan Output, capacity)}
}

// IncCoalesced records one trigger dropped by the run loop's minimum-delay
// enforcer: an input that arrived less than min_ms after the previous
// trigger, reduced to the one tick already in flight rather than run again.
func (s *Sink) IncCoalesced() { s.coalesced.Add(1) }

// CoalescedCount reports how many triggers the minimum-delay enforcer has
// dropped so far.
func (s *Sink) CoalescedCount() int { return int(s.coalesced.Load()) }

// Send delivers an output, blocking if the sink's buffer is full.
func (s *Sink) Send(name string, value any) {
	s.ch <- Output{Name: name, Value: value, At: time.Now()}
}

// Outputs returns the channel consumers read from.
func (s *Sink) Outputs() <-chan Output { return s.ch }

// Close signals no further outputs will be sent.
func (s *Sink) Close() { close(s.ch) }
