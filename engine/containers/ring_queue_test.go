package containers

import (
	"errors"
	"testing"
)

func TestRingQueueFIFO(t *testing.T) {
	rq := NewRingQueue[string](2)
	if !rq.IsEmpty() {
		t.Fatal("new queue is not empty")
	}
	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("Dequeue() on empty error = %v, want ErrQueueEmpty", err)
	}

	_ = rq.Enqueue("a.json")
	_ = rq.Enqueue("b.json")
	if err := rq.Enqueue("c.json"); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Enqueue() on full error = %v, want ErrQueueFull", err)
	}
	if !rq.Contains(func(s string) bool { return s == "b.json" }) {
		t.Error("Contains(b.json) = false")
	}

	if v, _ := rq.Peek(); v != "a.json" {
		t.Errorf("Peek() = %q, want a.json", v)
	}
	if v, _ := rq.Dequeue(); v != "a.json" {
		t.Errorf("Dequeue() = %q, want a.json", v)
	}

	// Wrap around.
	_ = rq.Enqueue("c.json")
	if rq.Len() != 2 || !rq.IsFull() {
		t.Errorf("Len() = %d, IsFull() = %v", rq.Len(), rq.IsFull())
	}
	for _, want := range []string{"b.json", "c.json"} {
		if v, err := rq.Dequeue(); err != nil || v != want {
			t.Errorf("Dequeue() = %q, %v; want %q", v, err, want)
		}
	}
	if rq.Contains(func(s string) bool { return true }) {
		t.Error("Contains() on drained queue = true")
	}
}
