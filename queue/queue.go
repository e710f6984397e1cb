package queue

import (
	"sync"

	"bank-manager-with-go/customer"

	collections "github.com/golang-collections/collections/queue"
)

// Queue holds the customers of one class waiting for a teller, in arrival order.
// A single dispatcher mutates it; the lock only keeps IsEmpty and Len
// consistent for readers on other goroutines.
type Queue struct {
	mu    sync.Mutex
	items *collections.Queue
}

func New() *Queue {
	return &Queue{items: collections.New()}
}

func (q *Queue) Enqueue(c customer.Customer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.Enqueue(c)
}

// Dequeue removes the head of the queue. It never blocks and reports false
// when the queue is empty.
func (q *Queue) Dequeue() (customer.Customer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return customer.Customer{}, false
	}
	return q.items.Dequeue().(customer.Customer), true
}

func (q *Queue) Peek() (customer.Customer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Len() == 0 {
		return customer.Customer{}, false
	}
	return q.items.Peek().(customer.Customer), true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}
