package models

import "time"

// SplitType identifies the rule used to divide an expense among its
// participants.
type SplitType string

const (
	SplitEqually     SplitType = "equally"
	SplitUnequally   SplitType = "unequally"
	SplitPercentages SplitType = "percentages"
	SplitAdjustment  SplitType = "adjustment"
	SplitShares      SplitType = "shares"
)

// PayerShare is one payer's contribution to a multi-payer expense.
type PayerShare struct {
	Member string  `json:"member"`
	Amount float64 `json:"amount"`
}

// PaidBy identifies who fronted an expense. Exactly one of Single or
// Multiple is set.
type PaidBy struct {
	// Single is the payer's username for a single-payer expense.
	Single string `json:"single,omitempty"`

	// Multiple lists each payer's contribution; their sum is the expense
	// total.
	Multiple []PayerShare `json:"multiple,omitempty"`
}

// IsMultiple reports whether this is a multi-payer expense.
func (p PaidBy) IsMultiple() bool {
	return len(p.Multiple) > 0
}

// Payers returns every payer's username.
func (p PaidBy) Payers() []string {
	if !p.IsMultiple() {
		return []string{p.Single}
	}
	names := make([]string, len(p.Multiple))
	for i, share := range p.Multiple {
		names[i] = share.Member
	}
	return names
}

// Expense is one spending record. SplitAmounts is resolved at write time
// and immutable afterwards; balances are always re-derived from it.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable label.
	Description string `json:"description"`

	// Amount is the total paid, always positive. For multi-payer expenses
	// it equals the sum of the payer shares.
	Amount float64 `json:"amount"`

	// Currency is the ISO currency code.
	Currency string `json:"currency"`

	// PaidBy identifies the payer(s).
	PaidBy PaidBy `json:"paidBy"`

	// SplitType is the strategy that produced SplitAmounts.
	SplitType SplitType `json:"splitType"`

	// SplitAmounts maps each participant to the amount they owe. The
	// values sum to Amount within 0.01.
	SplitAmounts map[string]float64 `json:"splitAmounts"`

	// SplitBetween lists the participants, kept for display; set from the
	// participant list when the split is resolved.
	SplitBetween []string `json:"splitBetween"`

	// Date is when the expense was recorded.
	Date time.Time `json:"date"`

	// CreatedBy is the username of the member who added the expense.
	CreatedBy string `json:"createdBy"`

	// ModifiedDate and ModifiedBy are set on edit.
	ModifiedDate *time.Time `json:"modifiedDate,omitempty"`
	ModifiedBy   string     `json:"modifiedBy,omitempty"`

	// IsSettlement marks expenses synthesized from a confirmed payment.
	IsSettlement bool `json:"isSettlement,omitempty"`

	// SettledPaymentID links a settlement expense back to its payment.
	SettledPaymentID string `json:"settledPaymentId,omitempty"`
}
