// Package frame provides the one-frame deferral used to move a window from
// Opening to Visible after it has been laid out once.
package frame

// Queue collects callbacks scheduled for the next frame. It is not safe for
// concurrent use; it is owned by whatever drives the UI thread.
type Queue struct {
	pending []func()
}

// NextFrame schedules fn to run on the next Flush.
func (q *Queue) NextFrame(fn func()) {
	if fn == nil {
		return
	}
	q.pending = append(q.pending, fn)
}

// Flush runs the callbacks that were pending when it was called. Callbacks
// scheduled while flushing wait for the following frame.
func (q *Queue) Flush() int {
	batch := q.pending
	q.pending = nil
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Len reports how many callbacks are waiting.
func (q *Queue) Len() int {
	return len(q.pending)
}
