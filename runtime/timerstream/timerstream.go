// Package timerstream merges a service's named periodic/deadline timers
// into a single ordered channel of firings, the Go analogue of
// grust_core/src/priority_stream/stream.rs's PrioStream combined with
// compiler_ir2's ArrivingFlow::Period/Deadline/ServiceTimeout cases: each
// timer arm of the generated run loop is a named deadline competing for
// delivery order with every other input.
package timerstream

import (
	"time"

	"github.com/grlang/grc/runtime/priostream"
)

// Firing is one timer delivery: which named timer fired and when it was
// scheduled to fire.
type Firing struct {
	Name     string
	Deadline time.Time
}

// Source is one named timer: Period > 0 re-arms itself after every
// firing (a GR `time()` tick and service-level periodic timeout);
// Period == 0 fires once (a `timeout()` deadline) and is not re-armed.
type Source struct {
	Name   string
	Period time.Duration
}

// Merge runs every source's ticking/one-shot timer and delivers Firings
// on the returned channel in deadline order, using a priostream.Queue
// sized to len(sources)*8+1 to buffer simultaneous firings deterministically
// rather than racing on delivery order. The channel closes when ctx done
// is received on the returned stop function's close, not before.
func Merge(sources []Source) (<-chan Firing, func()) {
	out := make(chan Firing)
	raw := make(chan Firing, len(sources)*4+1)
	stopTimers := make(chan struct{})

	for _, src := range sources {
		go runSource(src, raw, stopTimers)
	}

	go func() {
		q := priostream.New[Firing](len(sources)*8+1, func(a, b Firing) bool {
			return a.Deadline.Before(b.Deadline)
		})
		defer close(out)
		for {
			select {
			case f, ok := <-raw:
				if !ok {
					return
				}
				if !q.IsFull() {
					q.Push(f)
				}
			case <-stopTimers:
				return
			}
			for !q.IsEmpty() {
				v, _ := q.Pop()
				out <- v
			}
		}
	}()

	stop := func() { close(stopTimers) }
	return out, stop
}

func runSource(src Source, out chan<- Firing, stop <-chan struct{}) {
	if src.Period <= 0 {
		select {
		case <-time.After(0):
			out <- Firing{Name: src.Name, Deadline: time.Now()}
		case <-stop:
		}
		return
	}
	t := time.NewTicker(src.Period)
	defer t.Stop()
	for {
		select {
		case when := <-t.C:
			out <- Firing{Name: src.Name, Deadline: when}
		case <-stop:
			return
		}
	}
}
