package models

import (
	"sort"
	"strings"
	"time"
)

// DefaultCurrency is assumed whenever an expense or payment omits one.
const DefaultCurrency = "USD"

// Group is the aggregate root: a named set of members plus everything they
// owe each other.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Lisbon Trip").
	Name string `json:"name"`

	// Code is the join token, stored uppercase and matched
	// case-insensitively.
	Code string `json:"code"`

	// Members is the list of usernames in this group, in join order.
	Members []string `json:"members"`

	// Currencies is the set of currency codes in use, recomputed from the
	// expense list on every expense mutation.
	Currencies []string `json:"currencies"`

	// Expenses is the full expense history, settlements included.
	Expenses []Expense `json:"expenses"`

	// Payments is the full payment history, including rejected ones.
	Payments []Payment `json:"payments"`

	// PaymentRequests holds the live nudges; at most one per
	// (from, to, currency) tuple.
	PaymentRequests []PaymentRequest `json:"paymentRequests"`

	// CreatedBy is the username of the member who created the group.
	CreatedBy string `json:"createdBy"`

	// CreatedAt is when the group was created.
	CreatedAt time.Time `json:"createdAt"`

	// Version is the optimistic concurrency token, managed by the store.
	// It is not part of the document itself.
	Version int64 `json:"-"`
}

// HasMember reports whether username is a current member.
func (g *Group) HasMember(username string) bool {
	for _, m := range g.Members {
		if m == username {
			return true
		}
	}
	return false
}

// FindExpense returns the expense with the given ID, or nil.
func (g *Group) FindExpense(id string) *Expense {
	for i := range g.Expenses {
		if g.Expenses[i].ID == id {
			return &g.Expenses[i]
		}
	}
	return nil
}

// FindPayment returns the payment with the given ID, or nil.
func (g *Group) FindPayment(id string) *Payment {
	for i := range g.Payments {
		if g.Payments[i].ID == id {
			return &g.Payments[i]
		}
	}
	return nil
}

// RemoveExpense deletes the expense with the given ID and reports whether
// it was present.
func (g *Group) RemoveExpense(id string) bool {
	for i := range g.Expenses {
		if g.Expenses[i].ID == id {
			g.Expenses = append(g.Expenses[:i], g.Expenses[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveMember deletes username from the member list and reports whether
// it was present.
func (g *Group) RemoveMember(username string) bool {
	for i, m := range g.Members {
		if m == username {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return true
		}
	}
	return false
}

// RecomputeCurrencies rebuilds the currency set from the expense list.
// Groups always carry at least the default currency.
func (g *Group) RecomputeCurrencies() {
	seen := map[string]bool{DefaultCurrency: true}
	currencies := []string{DefaultCurrency}
	for i := range g.Expenses {
		c := g.Expenses[i].Currency
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		currencies = append(currencies, c)
	}
	sort.Strings(currencies[1:])
	g.Currencies = currencies
}

// NormalizeCode uppercases a join code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
