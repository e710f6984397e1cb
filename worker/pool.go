package worker

import (
	"context"
	"fmt"
	"sync"

	"bank-manager-with-go/customer"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

var ErrInvalidCapacity = errors.New("pool capacity must be at least 1")

// Pool limits how many tellers of one class may serve at the same time.
// Waiters are admitted in the order they called Acquire.
type Pool struct {
	class    customer.Class
	capacity int
	sem      *semaphore.Weighted

	mu        sync.Mutex
	inFlight  int
	peak      int
	completed int
}

type PoolStats struct {
	Class     string `json:"class"`
	Capacity  int    `json:"capacity"`
	InFlight  int    `json:"in_flight"`
	Peak      int    `json:"peak"`
	Completed int    `json:"completed"`
}

func NewPool(class customer.Class, capacity int) (*Pool, error) {
	if capacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "%s pool: got %d", class, capacity)
	}
	return &Pool{
		class:    class,
		capacity: capacity,
		sem:      semaphore.NewWeighted(int64(capacity)),
	}, nil
}

// Acquire blocks until a slot is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return errors.Wrapf(err, "%s pool: acquire", p.class)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight++
	if p.inFlight > p.capacity {
		panic(fmt.Sprintf("%s pool: %d tellers in flight, capacity %d", p.class, p.inFlight, p.capacity))
	}
	if p.inFlight > p.peak {
		p.peak = p.inFlight
	}
	return nil
}

// Release frees the slot taken by a finished teller. Releasing more slots
// than were acquired is a synchronization bug and panics.
func (p *Pool) Release() {
	p.mu.Lock()
	if p.inFlight == 0 {
		p.mu.Unlock()
		panic(fmt.Sprintf("%s pool: release without acquire", p.class))
	}
	p.inFlight--
	p.completed++
	p.mu.Unlock()

	p.sem.Release(1)
}

func (p *Pool) Class() customer.Class { return p.class }

func (p *Pool) Capacity() int { return p.capacity }

func (p *Pool) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

// Peak is the highest number of tellers that were in flight at once.
func (p *Pool) Peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Class:     p.class.String(),
		Capacity:  p.capacity,
		InFlight:  p.inFlight,
		Peak:      p.peak,
		Completed: p.completed,
	}
}
