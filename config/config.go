package config

import (
	"time"

	"bank-manager-with-go/customer"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMinCustomers    = 10
	DefaultMaxCustomers    = 30
	DefaultDepositTellers  = 2
	DefaultLoanTellers     = 1
	DefaultDepositDuration = 700 * time.Millisecond
	DefaultLoanDuration    = 1100 * time.Millisecond
)

var ErrInvalidConfig = errors.New("invalid config")

type (
	Config struct {
		LogLevel logrus.Level
		Bank     Bank
		Deposit  Desk
		Loan     Desk
		API      API
	}

	Bank struct {
		MinCustomers int
		MaxCustomers int
		// Seed fixes the customer generator; 0 picks a random seed.
		Seed uint64
	}

	// Desk configures the tellers serving one customer class.
	Desk struct {
		Tellers  int
		Duration time.Duration
		Jitter   time.Duration
	}

	// API is disabled while Port is 0.
	API struct {
		Address string
		Port    int
	}
)

func Default() *Config {
	return &Config{
		LogLevel: logrus.InfoLevel,
		Bank: Bank{
			MinCustomers: DefaultMinCustomers,
			MaxCustomers: DefaultMaxCustomers,
		},
		Deposit: Desk{
			Tellers:  DefaultDepositTellers,
			Duration: DefaultDepositDuration,
		},
		Loan: Desk{
			Tellers:  DefaultLoanTellers,
			Duration: DefaultLoanDuration,
		},
		API: API{
			Address: "localhost",
		},
	}
}

func (c *Config) Desk(class customer.Class) Desk {
	if class == customer.Loan {
		return c.Loan
	}
	return c.Deposit
}

func (c *Config) Validate() error {
	if c.Bank.MinCustomers < 0 {
		return errors.Wrapf(ErrInvalidConfig, "min customers %d is negative", c.Bank.MinCustomers)
	}
	if c.Bank.MaxCustomers < c.Bank.MinCustomers {
		return errors.Wrapf(ErrInvalidConfig, "max customers %d is below min customers %d", c.Bank.MaxCustomers, c.Bank.MinCustomers)
	}
	for _, class := range customer.Classes {
		desk := c.Desk(class)
		if desk.Tellers < 1 {
			return errors.Wrapf(ErrInvalidConfig, "%s desk needs at least one teller, got %d", class, desk.Tellers)
		}
		if desk.Duration < 0 || desk.Jitter < 0 {
			return errors.Wrapf(ErrInvalidConfig, "%s desk durations must not be negative", class)
		}
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return errors.Wrapf(ErrInvalidConfig, "api port %d out of range", c.API.Port)
	}
	return nil
}
