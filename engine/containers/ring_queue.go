package containers

import "errors"

var (
	ErrQueueFull  = errors.New("queue is full")
	ErrQueueEmpty = errors.New("queue is empty")
)

type RingQueue[T any] struct {
	data       []T
	size       int
	readIndex  int
	writeIndex int
	count      int
}

// Create a new RingQueue
func NewRingQueue[T any](size int) *RingQueue[T] {
	return &RingQueue[T]{
		data: make([]T, size),
		size: size,
	}
}

// Enqueue adds an element to the queue
func (rq *RingQueue[T]) Enqueue(value T) error {
	if rq.IsFull() {
		return ErrQueueFull
	}

	rq.data[rq.writeIndex] = value
	rq.writeIndex = (rq.writeIndex + 1) % rq.size
	rq.count++
	return nil
}

// Dequeue removes and returns the front element in the queue
func (rq *RingQueue[T]) Dequeue() (T, error) {
	var zero T
	if rq.IsEmpty() {
		return zero, ErrQueueEmpty
	}

	value := rq.data[rq.readIndex]
	rq.data[rq.readIndex] = zero
	rq.readIndex = (rq.readIndex + 1) % rq.size
	rq.count--
	return value, nil
}

// Peek returns the front element without removing it
func (rq *RingQueue[T]) Peek() (T, error) {
	if rq.IsEmpty() {
		var zero T
		return zero, ErrQueueEmpty
	}
	return rq.data[rq.readIndex], nil
}

// Contains reports whether any queued element satisfies match.
func (rq *RingQueue[T]) Contains(match func(T) bool) bool {
	for i := 0; i < rq.count; i++ {
		if match(rq.data[(rq.readIndex+i)%rq.size]) {
			return true
		}
	}
	return false
}

// Len returns the number of queued elements
func (rq *RingQueue[T]) Len() int {
	return rq.count
}

// IsEmpty checks if the queue is empty
func (rq *RingQueue[T]) IsEmpty() bool {
	return rq.count == 0
}

// IsFull checks if the queue is full
func (rq *RingQueue[T]) IsFull() bool {
	return rq.count == rq.size
}
