package models

import "sync/atomic"

// IDAllocator hands out card ids that are unique for the life of the
// allocator. Build one at startup and pass it to everything that creates
// cards.
type IDAllocator struct {
	last atomic.Int64
}

// NewIDAllocator returns an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() int64 {
	return a.last.Add(1)
}

// Observe raises the high-water mark so later ids stay above id.
func (a *IDAllocator) Observe(id int64) {
	for {
		cur := a.last.Load()
		if id <= cur || a.last.CompareAndSwap(cur, id) {
			return
		}
	}
}
