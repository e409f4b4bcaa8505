package compiler

import (
	"fmt"
	"strings"
	"time"
)

// Stats is hierarchical profiling data for one compilation, ported from
// original_source/compiler_common/src/stats.rs: an ordered list of
// (description, duration, optional sub-Stats) triplets. Pretty renders it
// as indented plain text, which the CLI logs at debug level when
// --stats-depth is positive.
type Stats struct {
	items []statsEntry
}

type statsEntry struct {
	desc string
	dur  time.Duration
	sub  *Stats
}

// StatsItem is an in-flight timed task, created by Start and consumed by
// End/AugmentEnd.
type StatsItem struct {
	desc  string
	start time.Time
}

// NewStats returns an empty Stats with a small initial capacity.
func NewStats() *Stats { return &Stats{items: make([]statsEntry, 0, 10)} }

// Start begins timing a task named desc.
func (s *Stats) Start(desc string) StatsItem {
	return StatsItem{desc: desc, start: time.Now()}
}

// End records a finished task verbatim (no merging with an existing
// same-description entry).
func (s *Stats) End(i StatsItem) {
	s.items = append(s.items, statsEntry{desc: i.desc, dur: time.Since(i.start)})
}

// AugmentEnd records a finished task, merging its duration into an
// existing entry with the same description if one exists.
func (s *Stats) AugmentEnd(i StatsItem) {
	s.Augment(i.desc, time.Since(i.start), nil)
}

func (s *Stats) IsEmpty() bool { return len(s.items) == 0 }

// Indent prefixes every description (recursively) with two spaces, used
// when folding a sub-Stats into its parent's rendering.
func (s *Stats) Indent() {
	for i := range s.items {
		s.items[i].desc = "  " + s.items[i].desc
		if s.items[i].sub != nil {
			s.items[i].sub.Indent()
		}
	}
}

// Augment looks for an entry with the same description and adds time to
// it (merging sub-stats too); otherwise appends a fresh entry.
func (s *Stats) Augment(desc string, d time.Duration, sub *Stats) {
	for i := range s.items {
		if s.items[i].desc == desc {
			s.items[i].dur += d
			switch {
			case sub == nil:
			case s.items[i].sub == nil:
				s.items[i].sub = sub
			default:
				s.items[i].sub.AugmentMerge(sub)
			}
			return
		}
	}
	s.items = append(s.items, statsEntry{desc: desc, dur: d, sub: sub})
}

// AugmentMerge merges every entry of that into s via Augment.
func (s *Stats) AugmentMerge(that *Stats) {
	for _, e := range that.items {
		s.Augment(e.desc, e.dur, e.sub)
	}
}

// TimedWith profiles run, nesting whatever it reports into a child Stats,
// and records the total under desc.
func (s *Stats) TimedWith(desc string, run func(sub *Stats)) {
	sub := NewStats()
	start := time.Now()
	run(sub)
	dur := time.Since(start)
	var subOpt *Stats
	if !sub.IsEmpty() {
		sub.Indent()
		subOpt = sub
	}
	s.items = append(s.items, statsEntry{desc: desc, dur: dur, sub: subOpt})
}

// Timed profiles run with no sub-stats tracking.
func (s *Stats) Timed(desc string, run func()) {
	s.TimedWith(desc, func(*Stats) { run() })
}

func (s *Stats) maxKeyLen() int {
	max := 0
	for _, e := range s.items {
		if n := len([]rune(e.desc)); n > max {
			max = n
		}
		if e.sub != nil {
			if n := e.sub.maxKeyLen(); n > max {
				max = n
			}
		}
	}
	return max
}

// Pretty renders s as a fixed-width table truncated at maxDepth levels of
// nesting, or returns "" when maxDepth is 0 (stats reporting disabled).
func (s *Stats) Pretty(maxDepth int) string {
	if maxDepth == 0 {
		return ""
	}
	return s.prettyAux(s.maxKeyLen(), 1, maxDepth)
}

func (s *Stats) prettyAux(maxKeyLen, depth, maxDepth int) string {
	var b strings.Builder
	sep := "| "
	for _, e := range s.items {
		b.WriteString(sep)
		b.WriteString(e.desc)
		for n := len([]rune(e.desc)); n < maxKeyLen; n++ {
			b.WriteByte(' ')
		}
		b.WriteString(" | ")
		b.WriteString(fmt.Sprintf("%15s", e.dur.String()))
		b.WriteString(" |")
		if e.sub != nil && depth+1 <= maxDepth {
			b.WriteByte('\n')
			b.WriteString(e.sub.prettyAux(maxKeyLen, depth+1, maxDepth))
		}
		sep = "\n| "
	}
	return b.String()
}
