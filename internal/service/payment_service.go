package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/storage"
	"github.com/Pram0n0/Travelog/internal/workflow"
)

// PaymentService drives the payment workflow: proposing payments,
// confirming or rejecting them, and the request/reminder nudges. All
// state-machine rules live in internal/workflow; this layer adds
// membership authorization and the atomic load-mutate-save round trip.
type PaymentService struct {
	store storage.Store
	clock workflow.Clock
}

// NewPaymentService creates a PaymentService with the given storage
// backend and clock.
func NewPaymentService(store storage.Store, clock workflow.Clock) *PaymentService {
	return &PaymentService{store: store, clock: clock}
}

// CreatePayment records the actor's proposal to pay another member.
func (s *PaymentService) CreatePayment(ctx context.Context, actor, groupID, to string, amount float64, currency string) (*models.Payment, error) {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}

	payment, err := workflow.CreatePayment(group, s.clock, actor, to, amount, currency)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}
	if err := saveGroup(ctx, s.store, group); err != nil {
		return nil, err
	}

	slog.Info("Payment created",
		"group_id", groupID,
		"payment_id", payment.ID,
		"from", payment.From,
		"to", payment.To,
		"amount", payment.Amount,
		"currency", payment.Currency,
	)
	return payment, nil
}

// ResolvePayment applies the recipient's confirm or reject decision. The
// pending check runs on the snapshot saved in this same round trip, so a
// concurrent double confirm loses the version race instead of writing a
// second settlement expense.
func (s *PaymentService) ResolvePayment(ctx context.Context, actor, groupID, paymentID string, action workflow.Action) (*models.Payment, error) {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}

	payment, err := workflow.ResolvePayment(group, s.clock, actor, paymentID, action)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}
	if err := saveGroup(ctx, s.store, group); err != nil {
		return nil, err
	}

	slog.Info("Payment resolved",
		"group_id", groupID,
		"payment_id", paymentID,
		"status", payment.Status,
		"resolved_by", actor,
	)
	return payment, nil
}

// RequestPayment upserts the actor's nudge asking another member to pay.
func (s *PaymentService) RequestPayment(ctx context.Context, actor, groupID, to string, amount float64, currency string) (*models.PaymentRequest, error) {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}

	request, err := workflow.RequestPayment(group, s.clock, actor, to, amount, currency)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}
	if err := saveGroup(ctx, s.store, group); err != nil {
		return nil, err
	}

	slog.Info("Payment request sent",
		"group_id", groupID,
		"request_id", request.ID,
		"from", request.From,
		"to", request.To,
	)
	return request, nil
}

// SendReminder stamps a reminder on the actor's pending payment.
func (s *PaymentService) SendReminder(ctx context.Context, actor, groupID, paymentID string) (*models.Payment, error) {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}

	payment, err := workflow.SendReminder(group, s.clock, actor, paymentID)
	if err != nil {
		return nil, mapWorkflowErr(err)
	}
	if err := saveGroup(ctx, s.store, group); err != nil {
		return nil, err
	}

	slog.Info("Reminder sent", "group_id", groupID, "payment_id", paymentID)
	return payment, nil
}

// DismissRequest removes a request addressed to the actor.
func (s *PaymentService) DismissRequest(ctx context.Context, actor, groupID, requestID string) error {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return err
	}

	if err := workflow.DismissRequest(group, actor, requestID); err != nil {
		return mapWorkflowErr(err)
	}
	if err := saveGroup(ctx, s.store, group); err != nil {
		return err
	}

	slog.Info("Payment request dismissed", "group_id", groupID, "request_id", requestID)
	return nil
}

// mapWorkflowErr translates state-machine sentinels into the service
// error taxonomy.
func mapWorkflowErr(err error) error {
	var cooldown *workflow.CooldownError
	switch {
	case errors.As(err, &cooldown):
		return &Error{Kind: KindConflict, Err: err, RetryAfterMinutes: cooldown.MinutesRemaining}
	case errors.Is(err, workflow.ErrPaymentNotFound),
		errors.Is(err, workflow.ErrRequestNotFound):
		return notFoundErr(err)
	case errors.Is(err, workflow.ErrNotRecipient),
		errors.Is(err, workflow.ErrNotSender),
		errors.Is(err, workflow.ErrNotRequestTarget):
		return authorizationErr(err)
	case errors.Is(err, workflow.ErrAlreadyProcessed):
		return conflictErr(err)
	case errors.Is(err, workflow.ErrRecipientNotMember),
		errors.Is(err, workflow.ErrInvalidAmount),
		errors.Is(err, workflow.ErrNotPending),
		errors.Is(err, workflow.ErrInvalidAction):
		return validationErr(err)
	default:
		return err
	}
}
