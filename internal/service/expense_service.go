package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/splitter"
	"github.com/Pram0n0/Travelog/internal/storage"
	"github.com/Pram0n0/Travelog/internal/workflow"
)

var (
	errNotCreator        = errors.New("only the creator can modify this expense")
	errSettlementLocked  = errors.New("settlement records cannot be edited or deleted")
	errPayerNotMember    = errors.New("every payer must be a member of this group")
	errSplitWithOutsider = errors.New("every participant must be a member of this group")
)

// ExpenseInput is the raw expense a member submits. For multi-payer
// expenses Payers is set and Amount is derived from it; otherwise PaidBy
// names the single payer and Amount is the entered total.
type ExpenseInput struct {
	Description  string
	Amount       float64
	Currency     string
	PaidBy       string
	Payers       []models.PayerShare
	SplitType    models.SplitType
	Participants []string

	// Strategy-specific parameters, consulted per SplitType.
	Exact       map[string]float64
	Percents    map[string]float64
	Adjustments map[string]float64
	Shares      map[string]float64
}

// ExpensePatch is a partial expense edit. Nil fields keep the stored
// value. A patch that only changes Currency may be applied by any member;
// everything else is creator-only.
type ExpensePatch struct {
	Description  *string
	Amount       *float64
	Currency     *string
	PaidBy       *string
	Payers       []models.PayerShare
	SplitType    *models.SplitType
	Participants []string

	Exact       map[string]float64
	Percents    map[string]float64
	Adjustments map[string]float64
	Shares      map[string]float64
}

// ExpenseService handles expense writes. Split amounts are resolved here,
// at write time, and never recomputed on read.
type ExpenseService struct {
	store storage.Store
	clock workflow.Clock
}

// NewExpenseService creates an ExpenseService with the given storage
// backend.
func NewExpenseService(store storage.Store, clock workflow.Clock) *ExpenseService {
	return &ExpenseService{store: store, clock: clock}
}

// AddExpense resolves and appends a new expense to the group.
func (s *ExpenseService) AddExpense(ctx context.Context, actor, groupID string, input ExpenseInput) (*models.Expense, error) {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}

	expense, err := buildExpense(group, actor, input, s.clock)
	if err != nil {
		return nil, err
	}

	group.Expenses = append(group.Expenses, *expense)
	group.RecomputeCurrencies()
	if err := saveGroup(ctx, s.store, group); err != nil {
		return nil, err
	}

	slog.Info("Expense added",
		"group_id", groupID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"currency", expense.Currency,
		"split_type", expense.SplitType,
	)
	return expense, nil
}

// EditExpense applies a patch to an existing expense. Only the creator
// may edit, except for currency conversions, which any member may apply
// so the group can normalize to one currency. Settlement expenses belong
// to the payment workflow and accept nothing but currency conversions.
// Split-affecting changes re-resolve the split amounts; the patch is
// rejected if the new amounts cannot satisfy the sum invariant.
func (s *ExpenseService) EditExpense(ctx context.Context, actor, groupID, expenseID string, patch ExpensePatch) (*models.Expense, error) {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}

	expense := group.FindExpense(expenseID)
	if expense == nil {
		return nil, notFoundf("expense %s not found", expenseID)
	}
	conversion := patch.isCurrencyConversion(expense.Currency)
	if expense.IsSettlement && !conversion {
		return nil, authorizationErr(errSettlementLocked)
	}
	if expense.CreatedBy != actor && !conversion {
		return nil, authorizationErr(errNotCreator)
	}

	if patch.Description != nil {
		expense.Description = *patch.Description
	}
	if patch.Currency != nil {
		expense.Currency = *patch.Currency
	}

	if patch.touchesSplit() {
		input := ExpenseInput{
			Description:  expense.Description,
			Amount:       expense.Amount,
			Currency:     expense.Currency,
			PaidBy:       expense.PaidBy.Single,
			Payers:       expense.PaidBy.Multiple,
			SplitType:    expense.SplitType,
			Participants: expense.SplitBetween,
			Exact:        patch.Exact,
			Percents:     patch.Percents,
			Adjustments:  patch.Adjustments,
			Shares:       patch.Shares,
		}
		if patch.Amount != nil {
			input.Amount = *patch.Amount
		}
		if patch.PaidBy != nil {
			input.PaidBy = *patch.PaidBy
			input.Payers = nil
		}
		if patch.Payers != nil {
			input.Payers = patch.Payers
			input.PaidBy = ""
		}
		if patch.SplitType != nil {
			input.SplitType = *patch.SplitType
		}
		if patch.Participants != nil {
			input.Participants = patch.Participants
		}

		resolved, err := buildExpense(group, expense.CreatedBy, input, s.clock)
		if err != nil {
			return nil, err
		}
		expense.Amount = resolved.Amount
		expense.PaidBy = resolved.PaidBy
		expense.SplitType = resolved.SplitType
		expense.SplitAmounts = resolved.SplitAmounts
		expense.SplitBetween = resolved.SplitBetween
	}

	now := s.clock.Now()
	expense.ModifiedDate = &now
	expense.ModifiedBy = actor

	group.RecomputeCurrencies()
	if err := saveGroup(ctx, s.store, group); err != nil {
		return nil, err
	}

	slog.Info("Expense edited", "group_id", groupID, "expense_id", expenseID, "modified_by", actor)
	return expense, nil
}

// DeleteExpense removes an expense; only the creator may delete it.
func (s *ExpenseService) DeleteExpense(ctx context.Context, actor, groupID, expenseID string) error {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return err
	}

	expense := group.FindExpense(expenseID)
	if expense == nil {
		return notFoundf("expense %s not found", expenseID)
	}
	if expense.IsSettlement {
		return authorizationErr(errSettlementLocked)
	}
	if expense.CreatedBy != actor {
		return authorizationErr(errNotCreator)
	}

	group.RemoveExpense(expenseID)
	group.RecomputeCurrencies()
	if err := saveGroup(ctx, s.store, group); err != nil {
		return err
	}

	slog.Info("Expense deleted", "group_id", groupID, "expense_id", expenseID)
	return nil
}

// buildExpense validates membership of payers and participants, resolves
// the split, and assembles the immutable expense record.
func buildExpense(group *models.Group, creator string, input ExpenseInput, clock workflow.Clock) (*models.Expense, error) {
	paidBy := models.PaidBy{Single: input.PaidBy, Multiple: input.Payers}
	if paidBy.IsMultiple() {
		paidBy.Single = ""
	} else if paidBy.Single == "" {
		paidBy.Single = creator
	}

	amount := input.Amount
	if paidBy.IsMultiple() {
		amount = splitter.PayerTotal(paidBy.Multiple)
	}

	for _, payer := range paidBy.Payers() {
		if !group.HasMember(payer) {
			return nil, validationErr(fmt.Errorf("%w: %s", errPayerNotMember, payer))
		}
	}
	for _, p := range input.Participants {
		if !group.HasMember(p) {
			return nil, validationErr(fmt.Errorf("%w: %s", errSplitWithOutsider, p))
		}
	}

	splitType := input.SplitType
	if splitType == "" {
		splitType = models.SplitEqually
	}

	amounts, err := splitter.Resolve(splitter.Input{
		Total:        amount,
		Strategy:     splitType,
		Participants: input.Participants,
		Exact:        input.Exact,
		Percents:     input.Percents,
		Adjustments:  input.Adjustments,
		Shares:       input.Shares,
	})
	if err != nil {
		if errors.Is(err, splitter.ErrSumMismatch) {
			return nil, invariantErr(err)
		}
		return nil, validationErr(err)
	}

	currency := input.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	return &models.Expense{
		ID:           uuid.New().String(),
		Description:  input.Description,
		Amount:       amount,
		Currency:     currency,
		PaidBy:       paidBy,
		SplitType:    splitType,
		SplitAmounts: amounts,
		SplitBetween: append([]string(nil), input.Participants...),
		Date:         clock.Now(),
		CreatedBy:    creator,
	}, nil
}

// isCurrencyConversion reports whether the patch changes the currency and
// nothing else. A patch restating the stored currency is not a
// conversion and gets no special treatment.
func (p ExpensePatch) isCurrencyConversion(current string) bool {
	return p.Currency != nil && *p.Currency != current &&
		p.Description == nil && p.Amount == nil && p.PaidBy == nil &&
		p.Payers == nil && p.SplitType == nil && p.Participants == nil &&
		p.Exact == nil && p.Percents == nil && p.Adjustments == nil && p.Shares == nil
}

// touchesSplit reports whether the patch requires re-resolving the split
// amounts.
func (p ExpensePatch) touchesSplit() bool {
	return p.Amount != nil || p.PaidBy != nil || p.Payers != nil ||
		p.SplitType != nil || p.Participants != nil ||
		p.Exact != nil || p.Percents != nil || p.Adjustments != nil || p.Shares != nil
}
