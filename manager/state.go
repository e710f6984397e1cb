package manager

import (
	"time"

	"bank-manager-with-go/customer"

	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	Running
	Draining
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Summary is the report of one closed run.
type Summary struct {
	ID             uuid.UUID      `json:"id"`
	Customers      int            `json:"customers"`
	Served         map[string]int `json:"served"`
	Unserved       int            `json:"unserved"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	Elapsed        time.Duration  `json:"-"`
	ElapsedSeconds float64        `json:"elapsed_seconds"`
}

func (s Summary) ServedBy(class customer.Class) int {
	return s.Served[class.String()]
}

func (s Summary) TotalServed() int {
	total := 0
	for _, n := range s.Served {
		total += n
	}
	return total
}

// run is the bookkeeping of the run in progress. It only lives between
// begin and finalize.
type run struct {
	id        uuid.UUID
	customers int
	served    map[customer.Class]int
	abandoned int
	startedAt time.Time
}
