package session

import (
	"fmt"
	"io"
	"sync"

	"bank-manager-with-go/customer"
	"bank-manager-with-go/manager"
	"bank-manager-with-go/worker"
)

const (
	menuText       = "1 : Open bank\n2 : Exit\n"
	promptText     = "Input: "
	wrongInputText = "Wrong input. Please choose again."
)

// Console writes the user facing text. Tellers report from their own
// goroutines, so every write takes the lock.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Menu() {
	c.printf("%s%s", menuText, promptText)
}

func (c *Console) WrongInput() {
	c.printf("%s\n", wrongInputText)
}

func (c *Console) Started(cu customer.Customer) {
	c.printf("Customer %d started %s service.\n", cu.Number, cu.Class)
}

func (c *Console) Finished(r worker.Receipt) {
	c.printf("Customer %d finished %s service.\n", r.Customer.Number, r.Customer.Class)
}

func (c *Console) Closed(s manager.Summary) {
	c.printf("All work is done. Served %d customers today; total working time was %.2f seconds.\n",
		s.TotalServed(), s.Elapsed.Seconds())
}

// Hooks prints a line whenever a teller starts or finishes with a customer.
func (c *Console) Hooks() manager.Hooks {
	return manager.Hooks{
		OnStart:  c.Started,
		OnServed: c.Finished,
	}
}
