package models

import "time"

// PaymentStatus is the lifecycle state of a payment. Confirmed and
// rejected are terminal.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentRejected  PaymentStatus = "rejected"
)

// Payment is a debtor-proposed settlement awaiting the creditor's
// confirmation. Only confirmed payments affect balances, and only through
// the settlement expense appended on confirmation.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string `json:"id"`

	// From is the debtor proposing to pay.
	From string `json:"from"`

	// To is the creditor; only they may confirm or reject.
	To string `json:"to"`

	// Amount is the proposed payment amount, always positive.
	Amount float64 `json:"amount"`

	// Currency is the ISO currency code.
	Currency string `json:"currency"`

	// Status is pending until the creditor acts.
	Status PaymentStatus `json:"status"`

	// CreatedAt is when the debtor proposed the payment.
	CreatedAt time.Time `json:"createdAt"`

	// ConfirmedAt / RejectedAt stamp the terminal transition.
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	RejectedAt  *time.Time `json:"rejectedAt,omitempty"`

	// LastReminderSent tracks the reminder cooldown.
	LastReminderSent *time.Time `json:"lastReminderSent,omitempty"`
}

// PaymentRequest is a creditor's nudge ("please pay me"). It has no
// balance effect; it only exists until dismissed or superseded by a
// payment between the same pair and currency.
type PaymentRequest struct {
	// ID is the unique identifier for the request (UUID format).
	ID string `json:"id"`

	// From is the creditor asking to be paid.
	From string `json:"from"`

	// To is the debtor being asked.
	To string `json:"to"`

	// Amount is the requested amount.
	Amount float64 `json:"amount"`

	// Currency is the ISO currency code.
	Currency string `json:"currency"`

	// LastSent tracks the request cooldown.
	LastSent time.Time `json:"lastSent"`
}
