package containers

import (
	"errors"
	"testing"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[int](3)
	if _, err := q.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := q.Enqueue(i); err != nil {
			t.Fatal(err)
		}
	}
	if err := q.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if v, _ := q.Peek(); v != 1 {
		t.Fatalf("peek: expected 1, got %d", v)
	}
	for want := 1; want <= 3; want++ {
		v, err := q.Dequeue()
		if err != nil || v != want {
			t.Fatalf("dequeue: expected %d, got %d (%v)", want, v, err)
		}
	}
	if !q.IsEmpty() {
		t.Fatal("queue should be empty")
	}
}

func TestRingQueuePushOverwritesOldest(t *testing.T) {
	q := NewRingQueue[int](3)
	for i := 1; i <= 5; i++ {
		q.Push(i)
	}
	var got []int
	q.Each(func(v int) { got = append(got, v) })

	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if q.Len() != 3 || q.Cap() != 3 || !q.IsFull() {
		t.Fatalf("unexpected len %d cap %d", q.Len(), q.Cap())
	}
}

func TestRingQueueMinimumSize(t *testing.T) {
	q := NewRingQueue[string](0)
	if q.Cap() != 1 {
		t.Fatalf("expected capacity 1, got %d", q.Cap())
	}
	q.Push("a")
	q.Push("b")
	if v, _ := q.Peek(); v != "b" {
		t.Fatalf("expected b, got %s", v)
	}
}
