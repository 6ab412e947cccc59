// Package ledger derives net balances from stored expenses and reduces
// them into settling transactions.
//
// Everything here is a pure function over an in-memory snapshot: no
// storage, no clock, no mutation of the inputs.
package ledger

import (
	"math"

	"github.com/Pram0n0/Travelog/internal/models"
)

// Epsilon is the settled threshold: balances within it of zero count as
// even.
const Epsilon = 0.01

// Ledger is the currency-partitioned balance map: currency -> member ->
// net amount. Positive means the member is owed money, negative that they
// owe. Currencies never mix.
type Ledger map[string]map[string]float64

// Settlement is one settling transaction in a plan: From pays To.
type Settlement struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Balances folds one currency's expenses into per-member net balances.
// Every payer contribution adds, every split amount subtracts; the fold is
// commutative over the expense list, so ordering never matters.
//
// Former members still carrying split entries get a balance entry too;
// money is conserved regardless of who left.
func Balances(expenses []models.Expense, members []string) map[string]float64 {
	balances := make(map[string]float64, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	for i := range expenses {
		e := &expenses[i]
		if e.PaidBy.IsMultiple() {
			for _, payer := range e.PaidBy.Multiple {
				balances[payer.Member] += payer.Amount
			}
		} else {
			balances[e.PaidBy.Single] += e.Amount
		}
		for member, amount := range e.SplitAmounts {
			balances[member] -= amount
		}
	}

	return balances
}

// Build partitions a group's expenses by currency and folds each bucket
// independently. Missing currency codes fall back to the default.
func Build(g *models.Group) Ledger {
	byCurrency := make(map[string][]models.Expense)
	for i := range g.Expenses {
		c := g.Expenses[i].Currency
		if c == "" {
			c = models.DefaultCurrency
		}
		byCurrency[c] = append(byCurrency[c], g.Expenses[i])
	}

	l := make(Ledger, len(byCurrency))
	for _, currency := range g.Currencies {
		l[currency] = Balances(byCurrency[currency], g.Members)
	}
	// Currencies that slipped past the group's cached set still settle.
	for currency, expenses := range byCurrency {
		if _, ok := l[currency]; !ok {
			l[currency] = Balances(expenses, g.Members)
		}
	}
	return l
}

// Settled reports whether member is within Epsilon of even in every
// currency.
func (l Ledger) Settled(member string) bool {
	for _, balances := range l {
		if math.Abs(balances[member]) > Epsilon {
			return false
		}
	}
	return true
}

// Settlements reduces one currency's balances into a plan of transactions
// that zeroes them. Greedy two-pointer matching over creditors and
// debtors taken in the given member order; the order only affects
// tie-breaks, not soundness, and keeps the plan deterministic.
//
// The plan is informational. Nothing is persisted from it; actual
// settlement happens through the payment workflow.
func Settlements(balances map[string]float64, order []string) []Settlement {
	type party struct {
		member string
		amount float64
	}
	var creditors, debtors []party

	for _, member := range order {
		balance := balances[member]
		if balance > Epsilon {
			creditors = append(creditors, party{member, balance})
		} else if balance < -Epsilon {
			debtors = append(debtors, party{member, -balance})
		}
	}

	var plan []Settlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		settled := math.Min(debtors[i].amount, creditors[j].amount)
		plan = append(plan, Settlement{
			From:   debtors[i].member,
			To:     creditors[j].member,
			Amount: settled,
		})
		debtors[i].amount -= settled
		creditors[j].amount -= settled
		if debtors[i].amount < Epsilon {
			i++
		}
		if creditors[j].amount < Epsilon {
			j++
		}
	}

	return plan
}
