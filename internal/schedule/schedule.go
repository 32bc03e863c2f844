// Package schedule provides a virtual-clock task scheduler for deferred game
// transitions (reveal delays, resolution delays, countdown ticks).
//
// The clock only moves when the owner advances it, which keeps game logic
// deterministic: the platform advances it once per simulation tick and tests
// advance it by exact durations. A Scheduler is not safe for concurrent use;
// it belongs to the single goroutine that drives its owner.
package schedule

import (
	"container/heap"
	"time"

	"github.com/rs/xid"
)

// Handle identifies a scheduled task and allows it to be cancelled.
type Handle struct {
	id       string
	at       time.Duration
	every    time.Duration // 0 for one-shot tasks
	seq      uint64
	fn       func()
	index    int // position in the heap, -1 when not queued
	canceled bool
}

// ID returns the unique identifier of the task.
func (h *Handle) ID() string {
	if h == nil {
		return ""
	}
	return h.id
}

// Active reports whether the task is still waiting to fire.
// Repeating tasks stay active until cancelled.
func (h *Handle) Active() bool {
	return h != nil && !h.canceled && h.index >= 0
}

// Cancel stops the task from firing. Cancelling a nil, fired or already
// cancelled handle is a no-op. The task is dropped lazily when it reaches the
// front of the queue.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.canceled = true
}

// Scheduler runs callbacks when its virtual clock passes their deadline.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue taskHeap
}

// New creates a scheduler with its clock at zero.
func New() *Scheduler {
	s := &Scheduler{queue: make(taskHeap, 0, 8)}
	heap.Init(&s.queue)
	return s
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After schedules fn to run once, d after the current time.
// Negative delays are treated as zero.
func (s *Scheduler) After(d time.Duration, fn func()) *Handle {
	return s.push(d, 0, fn)
}

// Every schedules fn to run every interval, first at now+interval.
// Panics on a non-positive interval since it would never let the clock move.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Handle {
	if interval <= 0 {
		panic("schedule: Every requires a positive interval")
	}
	return s.push(interval, interval, fn)
}

func (s *Scheduler) push(d, every time.Duration, fn func()) *Handle {
	if d < 0 {
		d = 0
	}
	s.seq++
	h := &Handle{
		id:    xid.New().String(),
		at:    s.now + d,
		every: every,
		seq:   s.seq,
		fn:    fn,
	}
	heap.Push(&s.queue, h)
	return h
}

// Advance moves the clock forward by d and runs every task that becomes due.
// Returns the number of callbacks executed.
func (s *Scheduler) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	return s.AdvanceTo(s.now + d)
}

// AdvanceTo moves the clock to t, running due tasks in deadline order and,
// for equal deadlines, in the order they were scheduled. Each callback runs
// to completion with the clock set to its own deadline. Tasks scheduled by a
// callback that fall inside the window run in the same call.
// Times before the current clock are ignored.
func (s *Scheduler) AdvanceTo(t time.Duration) int {
	fired := 0
	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.canceled {
			heap.Pop(&s.queue)
			continue
		}
		if next.at > t {
			break
		}

		heap.Pop(&s.queue)
		if next.at > s.now {
			s.now = next.at
		}

		if next.every > 0 {
			// Requeue before running so the callback can cancel it.
			s.seq++
			next.at += next.every
			next.seq = s.seq
			heap.Push(&s.queue, next)
		}

		next.fn()
		fired++
	}

	if t > s.now {
		s.now = t
	}
	return fired
}

// Pending returns the number of tasks waiting to fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, h := range s.queue {
		if !h.canceled {
			n++
		}
	}
	return n
}

// CancelAll cancels every queued task. The clock is left untouched.
func (s *Scheduler) CancelAll() {
	for _, h := range s.queue {
		h.canceled = true
		h.index = -1
	}
	s.queue = s.queue[:0]
}

// taskHeap orders handles by deadline, then by scheduling sequence.
type taskHeap []*Handle

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *taskHeap) Push(x any) {
	task := x.(*Handle)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	task.index = -1
	*h = old[:n-1]
	return task
}
