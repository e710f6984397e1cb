package customer

import (
	"strings"

	"github.com/pkg/errors"
)

type Class int

const (
	Deposit Class = iota
	Loan
)

// Classes lists every customer class in dispatch order.
var Classes = []Class{Deposit, Loan}

var ErrUnknownClass = errors.New("unknown customer class")

func (c Class) String() string {
	switch c {
	case Deposit:
		return "deposit"
	case Loan:
		return "loan"
	default:
		return "unknown"
	}
}

func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return Deposit, nil
	case "loan":
		return Loan, nil
	default:
		return 0, errors.Wrapf(ErrUnknownClass, "%q", s)
	}
}

// Customer is created when the queues are populated and never changes afterwards.
type Customer struct {
	Number int
	Class  Class
}
