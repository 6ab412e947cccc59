// Package service implements the application operations over a
// storage.Store. Services load a group, mutate the snapshot, and save it
// back; the store's version check serializes concurrent writers, and any
// failure leaves the stored group untouched.
package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/Pram0n0/Travelog/internal/ledger"
	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/storage"
	"github.com/Pram0n0/Travelog/internal/workflow"
)

var (
	errNotMember          = errors.New("you are not a member of this group")
	errAlreadyMember      = errors.New("you are already a member of this group")
	errOutstandingBalance = errors.New("cannot leave group with unsettled balances; settle all debts first")
	errGroupNameRequired  = errors.New("group name is required")
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GroupService handles group membership and the derived balance views.
type GroupService struct {
	store storage.Store
	clock workflow.Clock
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store, clock workflow.Clock) *GroupService {
	return &GroupService{store: store, clock: clock}
}

// CreateGroup creates a group with the actor as its only member and a
// fresh join code.
func (s *GroupService) CreateGroup(ctx context.Context, actor, name string) (*models.Group, error) {
	if name == "" {
		return nil, validationErr(errGroupNameRequired)
	}

	group := &models.Group{
		Name:       name,
		Code:       newJoinCode(),
		Members:    []string{actor},
		Currencies: []string{models.DefaultCurrency},
		CreatedBy:  actor,
		CreatedAt:  s.clock.Now(),
	}

	// Join codes are short; retry on the rare collision.
	for attempt := 0; ; attempt++ {
		err := s.store.CreateGroup(ctx, group)
		if err == nil {
			break
		}
		if errors.Is(err, storage.ErrCodeTaken) && attempt < 4 {
			group.Code = newJoinCode()
			continue
		}
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "created_by", actor)
	return group, nil
}

// GetGroup retrieves a group the actor belongs to.
func (s *GroupService) GetGroup(ctx context.Context, actor, groupID string) (*models.Group, error) {
	return loadMemberGroup(ctx, s.store, actor, groupID)
}

// ListGroups retrieves every group the actor belongs to.
func (s *GroupService) ListGroups(ctx context.Context, actor string) ([]*models.Group, error) {
	groups, err := s.store.ListGroupsByMember(ctx, actor)
	if err != nil {
		slog.Error("ListGroups failed", "username", actor, "error", err)
		return nil, err
	}
	return groups, nil
}

// JoinGroup adds the actor to the group with the given join code.
func (s *GroupService) JoinGroup(ctx context.Context, actor, code string) (*models.Group, error) {
	group, err := s.store.GetGroupByCode(ctx, models.NormalizeCode(code))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("no group with code %q", code)
		}
		return nil, err
	}
	if group.HasMember(actor) {
		return nil, validationErr(errAlreadyMember)
	}

	group.Members = append(group.Members, actor)
	if err := saveGroup(ctx, s.store, group); err != nil {
		return nil, err
	}

	slog.Info("Member joined group", "group_id", group.ID, "username", actor)
	return group, nil
}

// LeaveGroup removes the actor from the group, provided their balance is
// settled in every currency the group has used. The last member leaving
// deletes the group; a group with zero members cannot exist.
func (s *GroupService) LeaveGroup(ctx context.Context, actor, groupID string) error {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return err
	}

	if !ledger.Build(group).Settled(actor) {
		return conflictErr(errOutstandingBalance)
	}

	group.RemoveMember(actor)
	if len(group.Members) == 0 {
		if err := s.store.DeleteGroup(ctx, groupID); err != nil {
			slog.Error("LeaveGroup: delete failed", "group_id", groupID, "error", err)
			return err
		}
		slog.Info("Group deleted, last member left", "group_id", groupID, "username", actor)
		return nil
	}

	if err := saveGroup(ctx, s.store, group); err != nil {
		return err
	}
	slog.Info("Member left group", "group_id", groupID, "username", actor)
	return nil
}

// Balances returns the currency-partitioned net balances for a group the
// actor belongs to.
func (s *GroupService) Balances(ctx context.Context, actor, groupID string) (ledger.Ledger, error) {
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}
	return ledger.Build(group), nil
}

// SettlementPlan returns the settling transactions for one currency.
// Former members can still carry a balance when old expenses naming them
// are later edited or deleted, so the plan covers every balance entry,
// not just current members.
func (s *GroupService) SettlementPlan(ctx context.Context, actor, groupID, currency string) ([]ledger.Settlement, error) {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	group, err := loadMemberGroup(ctx, s.store, actor, groupID)
	if err != nil {
		return nil, err
	}
	balances := ledger.Build(group)[currency]
	return ledger.Settlements(balances, settlementOrder(group.Members, balances)), nil
}

// settlementOrder is the member list extended with any former members
// still present in the balance map, appended in sorted order to keep the
// plan deterministic.
func settlementOrder(members []string, balances map[string]float64) []string {
	current := make(map[string]bool, len(members))
	for _, m := range members {
		current[m] = true
	}
	var former []string
	for m := range balances {
		if !current[m] {
			former = append(former, m)
		}
	}
	if len(former) == 0 {
		return members
	}
	sort.Strings(former)
	return append(append(make([]string, 0, len(members)+len(former)), members...), former...)
}

func newJoinCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(code)
}
