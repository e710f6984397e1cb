package session

import (
	"math/rand/v2"

	"bank-manager-with-go/customer"
)

// Generator draws the customers of a run: a count in [min, max], each one
// assigned a class at random and numbered from 1.
type Generator struct {
	minCount, maxCount int
	rng                *rand.Rand
}

func NewGenerator(minCount, maxCount int, seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{
		minCount: minCount,
		maxCount: maxCount,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (g *Generator) Customers() []customer.Customer {
	n := g.minCount + g.rng.IntN(g.maxCount-g.minCount+1)
	out := make([]customer.Customer, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, customer.Customer{
			Number: i,
			Class:  customer.Classes[g.rng.IntN(len(customer.Classes))],
		})
	}
	return out
}
