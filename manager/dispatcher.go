package manager

import (
	"context"

	"bank-manager-with-go/customer"
	"bank-manager-with-go/queue"
	"bank-manager-with-go/worker"
)

// tracker is the join point shared by the dispatchers of a run.
type tracker interface {
	dispatched(c customer.Customer)
	started(c customer.Customer)
	served(r worker.Receipt)
	abandoned(c customer.Customer)
}

// dispatcher drains the queue of one class through its pool. The deposit and
// loan dispatchers only meet in the tracker.
type dispatcher struct {
	class   customer.Class
	queue   *queue.Queue
	pool    *worker.Pool
	teller  *worker.Teller
	tracker tracker
}

// run keeps launching tellers until the queue is empty. It returns without
// waiting for the tellers it launched; the tracker does that.
func (d *dispatcher) run(ctx context.Context) error {
	for {
		c, ok := d.queue.Dequeue()
		if !ok {
			return nil
		}

		d.tracker.dispatched(c)
		if err := d.pool.Acquire(ctx); err != nil {
			d.tracker.abandoned(c)
			return err
		}

		go d.serve(c, d.queue.IsEmpty())
	}
}

func (d *dispatcher) serve(c customer.Customer, lastInQueue bool) {
	d.tracker.started(c)
	d.teller.Serve(c, lastInQueue, func(r worker.Receipt) {
		d.pool.Release()
		d.tracker.served(r)
	})
}
