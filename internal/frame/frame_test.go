package frame

import "testing"

func TestQueueFlushRunsPendingBatchOnly(t *testing.T) {
	var q Queue
	var order []string

	q.NextFrame(func() {
		order = append(order, "a")
		q.NextFrame(func() { order = append(order, "c") })
	})
	q.NextFrame(func() { order = append(order, "b") })
	q.NextFrame(nil)

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	if n := q.Flush(); n != 2 {
		t.Errorf("first Flush() = %d, want 2", n)
	}
	if len(order) != 2 || order[0] != "a" || order[1] != "b" {
		t.Errorf("after first flush order = %v, want [a b]", order)
	}

	if n := q.Flush(); n != 1 {
		t.Errorf("second Flush() = %d, want 1", n)
	}
	if len(order) != 3 || order[2] != "c" {
		t.Errorf("after second flush order = %v, want [a b c]", order)
	}

	if n := q.Flush(); n != 0 {
		t.Errorf("empty Flush() = %d, want 0", n)
	}
}
