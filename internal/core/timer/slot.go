package timer

import "time"

// Slot holds at most one pending task. Scheduling into a slot cancels
// whatever it held before, so a stale callback can never fire after a
// newer one was requested.
type Slot struct {
	task *Task
}

// Schedule replaces the pending task with fn, due after d.
func (sl *Slot) Schedule(s *Scheduler, d time.Duration, fn func()) {
	sl.Cancel()
	var t *Task
	t = s.After(d, func() {
		if sl.task == t {
			sl.task = nil
		}
		fn()
	})
	sl.task = t
}

// Cancel drops the pending task, if any.
func (sl *Slot) Cancel() {
	if sl.task != nil {
		sl.task.Cancel()
		sl.task = nil
	}
}

// Pending reports whether the slot holds a task that has not fired yet.
func (sl *Slot) Pending() bool {
	return sl.task.Pending()
}
