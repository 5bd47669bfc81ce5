package timer

import (
	"container/heap"
	"time"
)

// Scheduler is a min-heap of pending callbacks ordered by due time, then by
// scheduling order. It owns no goroutine: the game loop calls Advance with
// the current time and due callbacks run inline. Game loop only, no locks.
type Scheduler struct {
	now   time.Time
	seq   uint64
	queue taskQueue
}

func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the time of the last Advance.
func (s *Scheduler) Now() time.Time { return s.now }

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int { return len(s.queue) }

// After runs fn once, d after the scheduler's current time.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	return s.push(d, 0, fn)
}

// Every runs fn every d until the returned task is cancelled.
func (s *Scheduler) Every(d time.Duration, fn func()) *Task {
	if d <= 0 {
		d = time.Millisecond
	}
	return s.push(d, d, fn)
}

func (s *Scheduler) push(d, period time.Duration, fn func()) *Task {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Task{
		sched:  s,
		when:   s.now.Add(d),
		seq:    s.seq,
		period: period,
		fn:     fn,
		index:  -1,
	}
	heap.Push(&s.queue, t)
	return t
}

// Advance runs every task due at or before now, in due order, then moves
// the clock to now. While a callback runs, Now reports that task's due
// time, so work it schedules lands where an exact clock would put it;
// such work also runs in this call when it falls due by now. Returns the
// number of callbacks executed.
func (s *Scheduler) Advance(now time.Time) int {
	ran := 0
	for len(s.queue) > 0 {
		t := s.queue[0]
		if t.when.After(now) {
			break
		}
		heap.Pop(&s.queue)
		if t.when.After(s.now) {
			s.now = t.when
		}
		if t.period > 0 {
			t.when = t.when.Add(t.period)
			s.seq++
			t.seq = s.seq
			heap.Push(&s.queue, t)
		}
		t.fn()
		ran++
	}
	if now.After(s.now) {
		s.now = now
	}
	return ran
}

// Clear cancels every pending task.
func (s *Scheduler) Clear() {
	for _, t := range s.queue {
		t.index = -1
		t.cancelled = true
	}
	s.queue = s.queue[:0]
}

// Task is a handle on one scheduled callback.
type Task struct {
	sched     *Scheduler
	when      time.Time
	seq       uint64
	period    time.Duration
	fn        func()
	index     int
	cancelled bool
}

// Cancel removes the task. Safe to call more than once and from inside its own callback.
func (t *Task) Cancel() {
	if t == nil || t.cancelled {
		return
	}
	t.cancelled = true
	if t.index >= 0 {
		heap.Remove(&t.sched.queue, t.index)
	}
}

// Pending reports whether the task will still fire.
func (t *Task) Pending() bool {
	return t != nil && !t.cancelled && t.index >= 0
}

// When returns the next due time.
func (t *Task) When() time.Time { return t.when }

type taskQueue []*Task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*Task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
