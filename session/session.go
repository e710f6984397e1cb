package session

import (
	"bufio"
	"context"
	"io"
	"strings"

	"bank-manager-with-go/customer"
	"bank-manager-with-go/manager"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type choice int

const (
	choiceInvalid choice = iota
	choiceOpen
	choiceExit
)

func parseChoice(line string) choice {
	switch strings.TrimSpace(line) {
	case "1":
		return choiceOpen
	case "2":
		return choiceExit
	default:
		return choiceInvalid
	}
}

// Runner is what a session needs from the manager.
type Runner interface {
	Run(ctx context.Context, customers []customer.Customer) (manager.Summary, error)
}

// Session drives runs from the menu, one at a time, until exit is chosen or
// input ends.
type Session struct {
	runner    Runner
	generator *Generator
	console   *Console
	in        *bufio.Scanner
	logger    logrus.FieldLogger
}

func New(runner Runner, generator *Generator, in io.Reader, console *Console, logger logrus.FieldLogger) *Session {
	return &Session{
		runner:    runner,
		generator: generator,
		console:   console,
		in:        bufio.NewScanner(in),
		logger:    logger,
	}
}

func (s *Session) Run(ctx context.Context) error {
	for {
		s.console.Menu()

		line, ok, err := s.readLine(ctx)
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Debug("input closed")
			return nil
		}

		switch parseChoice(line) {
		case choiceOpen:
			if err := s.open(ctx); err != nil {
				return err
			}
		case choiceExit:
			return nil
		default:
			s.console.WrongInput()
		}
	}
}

func (s *Session) open(ctx context.Context) error {
	customers := s.generator.Customers()
	s.logger.WithField("customers", len(customers)).Debug("customers arrived")

	summary, err := s.runner.Run(ctx, customers)
	if err != nil && summary.ID == uuid.Nil {
		return err
	}
	s.console.Closed(summary)
	return err
}

type lineResult struct {
	text string
	ok   bool
	err  error
}

// readLine returns when a line is read, input ends or ctx is done. A read
// abandoned on ctx is left to the exiting process.
func (s *Session) readLine(ctx context.Context) (string, bool, error) {
	result := make(chan lineResult, 1)
	go func() {
		ok := s.in.Scan()
		result <- lineResult{text: s.in.Text(), ok: ok, err: s.in.Err()}
	}()

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case r := <-result:
		return r.text, r.ok, r.err
	}
}
