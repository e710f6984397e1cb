package worker

import (
	"math/rand/v2"
	"time"

	"bank-manager-with-go/customer"
)

// Receipt is what a teller hands back once a customer has been served.
// LastInQueue is informational only; run completion is decided by the manager.
type Receipt struct {
	Customer    customer.Customer
	LastInQueue bool
	StartedAt   time.Time
	FinishedAt  time.Time
}

func (r Receipt) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Teller serves one customer at a time. It holds no state between customers,
// so a single Teller may be shared by every goroutine of a class.
type Teller struct {
	Class    customer.Class
	Duration time.Duration
	Jitter   time.Duration

	sleep func(time.Duration)
}

func NewTeller(class customer.Class, duration, jitter time.Duration) *Teller {
	return &Teller{
		Class:    class,
		Duration: duration,
		Jitter:   jitter,
		sleep:    time.Sleep,
	}
}

// Serve simulates the service and calls done exactly once when it is over.
// Service always succeeds.
func (t *Teller) Serve(c customer.Customer, lastInQueue bool, done func(Receipt)) {
	started := time.Now()
	t.sleep(t.serviceTime())
	done(Receipt{
		Customer:    c,
		LastInQueue: lastInQueue,
		StartedAt:   started,
		FinishedAt:  time.Now(),
	})
}

func (t *Teller) serviceTime() time.Duration {
	if t.Jitter <= 0 {
		return t.Duration
	}
	d := t.Duration + rand.N(2*t.Jitter+1) - t.Jitter
	if d < 0 {
		return 0
	}
	return d
}
