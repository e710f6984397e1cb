package session

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"bank-manager-with-go/config"
	"bank-manager-with-go/customer"
	"bank-manager-with-go/manager"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestSession(t *testing.T, input string, seed uint64) (*Session, *manager.Manager, *bytes.Buffer) {
	t.Helper()

	cfg := config.Default()
	cfg.Deposit.Duration = time.Millisecond
	cfg.Loan.Duration = time.Millisecond

	out := &bytes.Buffer{}
	console := NewConsole(out)
	m, err := manager.New(cfg, testLogger(), manager.WithHooks(console.Hooks()))
	require.NoError(t, err)

	gen := NewGenerator(cfg.Bank.MinCustomers, cfg.Bank.MaxCustomers, seed)
	return New(m, gen, strings.NewReader(input), console, testLogger()), m, out
}

func Test_Session_ExitWithoutRun(t *testing.T) {
	s, m, out := newTestSession(t, "2\n", 1)

	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, m.History())
	assert.Equal(t, menuText+promptText, out.String())
}

func Test_Session_WrongInputRepromptsWithoutRun(t *testing.T) {
	s, m, out := newTestSession(t, "3\nabc\n\n2\n", 1)

	require.NoError(t, s.Run(context.Background()))

	assert.Empty(t, m.History())
	assert.Equal(t, 3, strings.Count(out.String(), wrongInputText))
	assert.Equal(t, 4, strings.Count(out.String(), promptText))
}

func Test_Session_EndOfInputExits(t *testing.T) {
	s, m, _ := newTestSession(t, "", 1)

	require.NoError(t, s.Run(context.Background()))
	assert.Empty(t, m.History())
}

func Test_Session_TwoRunsReportOnlyTheirOwnCustomers(t *testing.T) {
	s, m, out := newTestSession(t, "1\n1\n2\n", 42)

	require.NoError(t, s.Run(context.Background()))

	history := m.History()
	require.Len(t, history, 2)
	for _, summary := range history {
		assert.GreaterOrEqual(t, summary.Customers, config.DefaultMinCustomers)
		assert.LessOrEqual(t, summary.Customers, config.DefaultMaxCustomers)
		assert.Equal(t, summary.Customers, summary.TotalServed())
		assert.Zero(t, summary.Unserved)
	}

	text := out.String()
	assert.Equal(t, 2, strings.Count(text, "All work is done."))
	total := history[0].Customers + history[1].Customers
	assert.Equal(t, total, strings.Count(text, "started"))
	assert.Equal(t, total, strings.Count(text, "finished"))
}

func Test_Session_CancelledWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	cfg := config.Default()
	console := NewConsole(io.Discard)
	m, err := manager.New(cfg, testLogger())
	require.NoError(t, err)
	s := New(m, NewGenerator(1, 1, 1), pr, console, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("session did not stop")
	}
}

func Test_parseChoice(t *testing.T) {
	assert.Equal(t, choiceOpen, parseChoice(" 1 "))
	assert.Equal(t, choiceExit, parseChoice("2"))
	assert.Equal(t, choiceInvalid, parseChoice("12"))
	assert.Equal(t, choiceInvalid, parseChoice(""))
}

func Test_Generator_Customers(t *testing.T) {
	gen := NewGenerator(10, 30, 7)

	for run := 0; run < 20; run++ {
		cs := gen.Customers()
		require.GreaterOrEqual(t, len(cs), 10)
		require.LessOrEqual(t, len(cs), 30)
		for i, c := range cs {
			assert.Equal(t, i+1, c.Number)
			assert.Contains(t, customer.Classes, c.Class)
		}
	}
}

func Test_Generator_SameSeedSameCustomers(t *testing.T) {
	assert.Equal(t, NewGenerator(10, 30, 99).Customers(), NewGenerator(10, 30, 99).Customers())
}

func Test_Generator_FixedCount(t *testing.T) {
	assert.Len(t, NewGenerator(0, 0, 3).Customers(), 0)
	assert.Len(t, NewGenerator(5, 5, 3).Customers(), 5)
}
