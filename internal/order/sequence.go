package order

import "sync/atomic"

// FirstID is where a fresh process starts numbering orders. The counter is
// not persisted, so ids can repeat across restarts.
const FirstID = 1000

// Sequence hands out order ids for the lifetime of the process.
type Sequence struct {
	next atomic.Int64
}

func NewSequence(start int) *Sequence {
	s := &Sequence{}
	s.next.Store(int64(start))
	return s
}

func (s *Sequence) Next() int {
	return int(s.next.Add(1) - 1)
}
