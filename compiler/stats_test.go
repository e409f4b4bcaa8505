package compiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsTimedRecordsDuration(t *testing.T) {
	s := NewStats()
	s.Timed("parse", func() { time.Sleep(time.Millisecond) })
	require.False(t, s.IsEmpty())
	pretty := s.Pretty(3)
	assert.Contains(t, pretty, "parse")
}

func TestStatsAugmentMergesSameDescription(t *testing.T) {
	a := NewStats()
	a.Timed("lower", func() {})
	b := NewStats()
	b.Timed("lower", func() {})

	a.AugmentMerge(b)
	assert.Equal(t, 1, len(a.items))
}

func TestStatsPrettyZeroDepthIsEmpty(t *testing.T) {
	s := NewStats()
	s.Timed("x", func() {})
	assert.Equal(t, "", s.Pretty(0))
}

func TestStatsTimedWithNestsSubStats(t *testing.T) {
	s := NewStats()
	s.TimedWith("outer", func(sub *Stats) {
		sub.Timed("inner", func() {})
	})
	pretty := s.Pretty(5)
	assert.Contains(t, pretty, "outer")
	assert.Contains(t, pretty, "inner")
}
