// Package workflow implements the payment lifecycle on a group snapshot:
// propose, confirm or reject payments, nudge with requests and reminders.
//
// Functions here mutate the passed-in group only; loading it and saving
// it atomically is the caller's job, and the caller must hold the group
// exclusively for the whole load-mutate-save round trip. Rule checks
// (pending status, cooldowns) run against the snapshot, so under that
// discipline a double confirm cannot slip through.
package workflow

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/Pram0n0/Travelog/internal/models"
)

// Cooldown is how long a repeat request or reminder between the same
// parties is refused.
const Cooldown = time.Hour

var (
	ErrRecipientNotMember = errors.New("recipient is not a member of this group")
	ErrInvalidAmount      = errors.New("amount must be greater than 0")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrRequestNotFound    = errors.New("payment request not found")
	ErrNotRecipient       = errors.New("only the recipient can confirm or reject this payment")
	ErrNotSender          = errors.New("only the sender can send reminders")
	ErrAlreadyProcessed   = errors.New("this payment has already been processed")
	ErrNotPending         = errors.New("can only remind about pending payments")
	ErrInvalidAction      = errors.New("invalid action")
	ErrNotRequestTarget   = errors.New("only the recipient can dismiss this request")
)

// CooldownError reports how long the caller must wait before repeating a
// request or reminder.
type CooldownError struct {
	MinutesRemaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("please wait %d more minute(s) before sending another request", e.MinutesRemaining)
}

// Action is the recipient's decision on a pending payment.
type Action string

const (
	ActionConfirm Action = "confirm"
	ActionReject  Action = "reject"
)

// CreatePayment appends a pending payment proposed by the debtor. Any
// live requests between the pair for this currency, in either direction,
// are superseded by the proposal and removed.
func CreatePayment(g *models.Group, clock Clock, from, to string, amount float64, currency string) (*models.Payment, error) {
	if !g.HasMember(to) {
		return nil, ErrRecipientNotMember
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}

	payment := models.Payment{
		ID:        uuid.New().String(),
		From:      from,
		To:        to,
		Amount:    amount,
		Currency:  currency,
		Status:    models.PaymentPending,
		CreatedAt: clock.Now(),
	}
	g.Payments = append(g.Payments, payment)
	removeMatchingRequests(g, from, to, currency)

	return g.FindPayment(payment.ID), nil
}

// ResolvePayment applies the recipient's confirm or reject decision.
// Confirming appends the settlement expense that actually zeroes the
// balance: the payer effectively paid the recipient directly, so the
// recipient owes the full amount back on this record. The transition is
// terminal; resolving twice fails with ErrAlreadyProcessed.
func ResolvePayment(g *models.Group, clock Clock, actor, paymentID string, action Action) (*models.Payment, error) {
	payment := g.FindPayment(paymentID)
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.To != actor {
		return nil, ErrNotRecipient
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrAlreadyProcessed
	}

	now := clock.Now()
	switch action {
	case ActionConfirm:
		payment.Status = models.PaymentConfirmed
		payment.ConfirmedAt = &now
		removeMatchingRequests(g, payment.From, payment.To, payment.Currency)
		g.Expenses = append(g.Expenses, settlementExpense(payment, now))
		g.RecomputeCurrencies()

	case ActionReject:
		payment.Status = models.PaymentRejected
		payment.RejectedAt = &now

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	return payment, nil
}

// RequestPayment upserts the creditor's nudge keyed by (from, to,
// currency). An existing request inside the cooldown window is refused
// with the minutes remaining; outside it, amount and lastSent are updated
// in place instead of duplicating the request.
func RequestPayment(g *models.Group, clock Clock, from, to string, amount float64, currency string) (*models.PaymentRequest, error) {
	if !g.HasMember(to) {
		return nil, ErrRecipientNotMember
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}
	now := clock.Now()

	for i := range g.PaymentRequests {
		r := &g.PaymentRequests[i]
		if r.From != from || r.To != to || r.Currency != currency {
			continue
		}
		if err := checkCooldown(now, r.LastSent); err != nil {
			return nil, err
		}
		r.Amount = amount
		r.LastSent = now
		return r, nil
	}

	g.PaymentRequests = append(g.PaymentRequests, models.PaymentRequest{
		ID:       uuid.New().String(),
		From:     from,
		To:       to,
		Amount:   amount,
		Currency: currency,
		LastSent: now,
	})
	return &g.PaymentRequests[len(g.PaymentRequests)-1], nil
}

// SendReminder stamps a reminder on a pending payment, sent by the
// payment's debtor. The cooldown mirrors the request one.
func SendReminder(g *models.Group, clock Clock, actor, paymentID string) (*models.Payment, error) {
	payment := g.FindPayment(paymentID)
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.From != actor {
		return nil, ErrNotSender
	}
	if payment.Status != models.PaymentPending {
		return nil, ErrNotPending
	}

	now := clock.Now()
	if payment.LastReminderSent != nil {
		if err := checkCooldown(now, *payment.LastReminderSent); err != nil {
			return nil, err
		}
	}
	payment.LastReminderSent = &now
	return payment, nil
}

// DismissRequest removes a request; only its recipient may do so.
func DismissRequest(g *models.Group, actor, requestID string) error {
	for i := range g.PaymentRequests {
		r := &g.PaymentRequests[i]
		if r.ID != requestID {
			continue
		}
		if r.To != actor {
			return ErrNotRequestTarget
		}
		g.PaymentRequests = append(g.PaymentRequests[:i], g.PaymentRequests[i+1:]...)
		return nil
	}
	return ErrRequestNotFound
}

func checkCooldown(now, lastSent time.Time) error {
	elapsed := now.Sub(lastSent)
	if elapsed >= Cooldown {
		return nil
	}
	remaining := Cooldown - elapsed
	return &CooldownError{MinutesRemaining: int(math.Ceil(remaining.Minutes()))}
}

func settlementExpense(payment *models.Payment, now time.Time) models.Expense {
	return models.Expense{
		ID:          uuid.New().String(),
		Description: fmt.Sprintf("Settlement: %s paid %s", payment.From, payment.To),
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		PaidBy:      models.PaidBy{Single: payment.From},
		SplitType:   models.SplitUnequally,
		SplitAmounts: map[string]float64{
			payment.To: payment.Amount,
		},
		SplitBetween:     []string{payment.From, payment.To},
		Date:             now,
		CreatedBy:        payment.From,
		IsSettlement:     true,
		SettledPaymentID: payment.ID,
	}
}

func removeMatchingRequests(g *models.Group, from, to, currency string) {
	kept := g.PaymentRequests[:0]
	for _, r := range g.PaymentRequests {
		samePair := (r.From == from && r.To == to) || (r.From == to && r.To == from)
		if samePair && r.Currency == currency {
			continue
		}
		kept = append(kept, r)
	}
	g.PaymentRequests = kept
}
