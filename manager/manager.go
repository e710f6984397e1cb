package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bank-manager-with-go/config"
	"bank-manager-with-go/customer"
	"bank-manager-with-go/queue"
	"bank-manager-with-go/worker"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrRunInProgress = errors.New("a run is already in progress")

// Hooks observe a run. Every hook is optional. OnDispatch is called from the
// dispatch loop of the customer's class, in queue order; OnStart and OnServed
// are called from teller goroutines; OnFinalize is called once per run.
type Hooks struct {
	OnDispatch func(c customer.Customer)
	OnStart    func(c customer.Customer)
	OnServed   func(r worker.Receipt)
	OnFinalize func(s Summary)
}

type Option func(*Manager)

func WithHooks(h Hooks) Option {
	return func(m *Manager) { m.hooks = h }
}

type desk struct {
	tellers int
	teller  *worker.Teller
}

// Manager coordinates runs. Within a run it owns one queue and one pool per
// class, counts the customers dispatched but not yet served, and closes the
// run once that count is zero and both dispatchers have stopped.
type Manager struct {
	desks  map[customer.Class]desk
	hooks  Hooks
	logger logrus.FieldLogger

	mu          sync.Mutex
	cond        *sync.Cond
	state       State
	pending     int
	dispatching int
	run         *run
	queues      map[customer.Class]*queue.Queue
	pools       map[customer.Class]*worker.Pool
	lastPools   []worker.PoolStats
	history     []Summary
}

func New(cfg *config.Config, logger logrus.FieldLogger, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		desks:  make(map[customer.Class]desk, len(customer.Classes)),
		logger: logger,
		state:  Idle,
	}
	m.cond = sync.NewCond(&m.mu)
	for _, class := range customer.Classes {
		d := cfg.Desk(class)
		m.desks[class] = desk{
			tellers: d.Tellers,
			teller:  worker.NewTeller(class, d.Duration, d.Jitter),
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Run serves every customer and returns the summary of the closed run. It
// blocks until the last teller has finished. If ctx is cancelled no new
// customers are dispatched, the tellers already serving still finish, and
// the summary is returned together with the cancellation error.
func (m *Manager) Run(ctx context.Context, customers []customer.Customer) (Summary, error) {
	dispatchers, err := m.begin(customers)
	if err != nil {
		return Summary{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range dispatchers {
		g.Go(func() error {
			defer m.dispatcherStopped(d.class)
			return d.run(gctx)
		})
	}

	m.awaitCompletion()
	dispatchErr := g.Wait()

	summary := m.finalize(dispatchErr != nil)
	if dispatchErr != nil {
		return summary, errors.Wrap(dispatchErr, "run interrupted")
	}
	return summary, nil
}

func (m *Manager) begin(customers []customer.Customer) ([]*dispatcher, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != Idle {
		return nil, ErrRunInProgress
	}

	queues := make(map[customer.Class]*queue.Queue, len(m.desks))
	pools := make(map[customer.Class]*worker.Pool, len(m.desks))
	for class, d := range m.desks {
		pool, err := worker.NewPool(class, d.tellers)
		if err != nil {
			return nil, err
		}
		queues[class] = queue.New()
		pools[class] = pool
	}
	for _, c := range customers {
		q, ok := queues[c.Class]
		if !ok {
			return nil, errors.Wrapf(customer.ErrUnknownClass, "customer %d", c.Number)
		}
		q.Enqueue(c)
	}

	m.run = &run{
		id:        uuid.New(),
		customers: len(customers),
		served:    make(map[customer.Class]int, len(m.desks)),
		startedAt: time.Now(),
	}
	m.queues = queues
	m.pools = pools
	m.pending = 0
	m.dispatching = len(customer.Classes)
	m.state = Running

	dispatchers := make([]*dispatcher, 0, len(customer.Classes))
	for _, class := range customer.Classes {
		dispatchers = append(dispatchers, &dispatcher{
			class:   class,
			queue:   queues[class],
			pool:    pools[class],
			teller:  m.desks[class].teller,
			tracker: m,
		})
	}

	m.logger.WithFields(logrus.Fields{
		"run":       m.run.id,
		"customers": len(customers),
		"deposit":   queues[customer.Deposit].Len(),
		"loan":      queues[customer.Loan].Len(),
	}).Info("bank opened")

	return dispatchers, nil
}

func (m *Manager) dispatched(c customer.Customer) {
	m.mu.Lock()
	m.pending++
	id := m.run.id
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{"run": id, "class": c.Class, "customer": c.Number}).Debug("customer dispatched")
	if m.hooks.OnDispatch != nil {
		m.hooks.OnDispatch(c)
	}
}

func (m *Manager) started(c customer.Customer) {
	if m.hooks.OnStart != nil {
		m.hooks.OnStart(c)
	}
}

// served is called after the teller released its slot. The hook runs before
// the pending count drops so the run cannot close underneath it.
func (m *Manager) served(r worker.Receipt) {
	if m.hooks.OnServed != nil {
		m.hooks.OnServed(r)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
	m.run.served[r.Customer.Class]++
	m.logger.WithFields(logrus.Fields{
		"run":      m.run.id,
		"class":    r.Customer.Class,
		"customer": r.Customer.Number,
		"duration": r.Duration(),
	}).Debug("customer served")
}

// abandoned is called for a customer that was dispatched but never reached
// a teller because the run was interrupted.
func (m *Manager) abandoned(c customer.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
	m.run.abandoned++
	m.logger.WithFields(logrus.Fields{"run": m.run.id, "class": c.Class, "customer": c.Number}).Warn("customer not served")
}

// release drops the pending count. m.mu must be held.
func (m *Manager) release() {
	if m.pending <= 0 {
		panic(fmt.Sprintf("manager: pending work count would drop to %d", m.pending-1))
	}
	m.pending--
	if m.pending == 0 {
		m.cond.Broadcast()
	}
}

func (m *Manager) dispatcherStopped(class customer.Class) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatching--
	if m.dispatching == 0 && m.state == Running {
		m.state = Draining
	}
	m.logger.WithFields(logrus.Fields{"run": m.run.id, "class": class, "pending": m.pending}).Debug("dispatcher stopped")
	m.cond.Broadcast()
}

// awaitCompletion blocks until both dispatchers have stopped issuing work and
// every dispatched customer has been accounted for.
func (m *Manager) awaitCompletion() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.pending > 0 || m.dispatching > 0 {
		m.cond.Wait()
	}
	m.state = Closed
}

func (m *Manager) finalize(interrupted bool) Summary {
	m.mu.Lock()

	r := m.run
	if r == nil || m.state != Closed {
		m.mu.Unlock()
		panic(fmt.Sprintf("manager: finalize in state %s", m.state))
	}
	if m.pending != 0 {
		m.mu.Unlock()
		panic(fmt.Sprintf("manager: finalize with %d customers pending", m.pending))
	}

	unserved := r.abandoned
	for class, q := range m.queues {
		if !interrupted && !q.IsEmpty() {
			m.mu.Unlock()
			panic(fmt.Sprintf("manager: finalize with %d %s customers queued", q.Len(), class))
		}
		unserved += q.Len()
	}

	finishedAt := time.Now()
	elapsed := finishedAt.Sub(r.startedAt)
	summary := Summary{
		ID:             r.id,
		Customers:      r.customers,
		Served:         make(map[string]int, len(customer.Classes)),
		Unserved:       unserved,
		StartedAt:      r.startedAt,
		FinishedAt:     finishedAt,
		Elapsed:        elapsed,
		ElapsedSeconds: elapsed.Seconds(),
	}
	for _, class := range customer.Classes {
		summary.Served[class.String()] = r.served[class]
	}

	m.lastPools = m.poolStatsLocked()
	m.history = append(m.history, summary)
	m.run = nil
	m.queues = nil
	m.pools = nil
	m.state = Idle
	m.mu.Unlock()

	m.logger.WithFields(logrus.Fields{
		"run":       summary.ID,
		"customers": summary.Customers,
		"unserved":  summary.Unserved,
		"elapsed":   summary.Elapsed,
	}).Info("bank closed")

	if m.hooks.OnFinalize != nil {
		m.hooks.OnFinalize(summary)
	}
	return summary
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Pools reports the pools of the run in progress, or of the last closed run
// when the manager is idle.
func (m *Manager) Pools() []worker.PoolStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pools == nil {
		return append([]worker.PoolStats(nil), m.lastPools...)
	}
	return m.poolStatsLocked()
}

func (m *Manager) poolStatsLocked() []worker.PoolStats {
	stats := make([]worker.PoolStats, 0, len(m.pools))
	for _, class := range customer.Classes {
		if pool, ok := m.pools[class]; ok {
			stats = append(stats, pool.Stats())
		}
	}
	return stats
}

func (m *Manager) History() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Summary(nil), m.history...)
}

func (m *Manager) Last() (Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return Summary{}, false
	}
	return m.history[len(m.history)-1], true
}
