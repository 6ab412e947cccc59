package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/storage"
)

type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

func newStubClock() *stubClock {
	return &stubClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func newGroupService(store storage.Store) *GroupService {
	return NewGroupService(store, newStubClock())
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, kind, svcErr.Kind)
	return svcErr
}

func TestCreateGroup(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)

	group, err := svc.CreateGroup(context.Background(), "alice", "Tokyo Trip")
	require.NoError(t, err)

	assert.NotEmpty(t, group.ID)
	assert.Len(t, group.Code, 6)
	assert.Equal(t, group.Code, models.NormalizeCode(group.Code))
	assert.Equal(t, []string{"alice"}, group.Members)
	assert.Equal(t, []string{models.DefaultCurrency}, group.Currencies)
	assert.Equal(t, "alice", group.CreatedBy)
}

func TestCreateGroupRequiresName(t *testing.T) {
	svc := newGroupService(newMemStore())

	_, err := svc.CreateGroup(context.Background(), "alice", "")
	requireKind(t, err, KindValidation)
}

func TestGetGroupMembersOnly(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)

	got, err := svc.GetGroup(ctx, "alice", group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)

	_, err = svc.GetGroup(ctx, "mallory", group.ID)
	requireKind(t, err, KindAuthorization)

	_, err = svc.GetGroup(ctx, "alice", "missing")
	requireKind(t, err, KindNotFound)
}

func TestJoinGroup(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)

	// Join codes match case-insensitively.
	joined, err := svc.JoinGroup(ctx, "bob", "  "+lower(group.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, joined.Members)

	_, err = svc.JoinGroup(ctx, "bob", group.Code)
	requireKind(t, err, KindValidation)

	_, err = svc.JoinGroup(ctx, "carol", "NOPE42")
	requireKind(t, err, KindNotFound)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func TestListGroups(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	_, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)
	_, err = svc.CreateGroup(ctx, "alice", "Ski Weekend")
	require.NoError(t, err)
	_, err = svc.CreateGroup(ctx, "bob", "Poker Night")
	require.NoError(t, err)

	groups, err := svc.ListGroups(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	groups, err = svc.ListGroups(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestLeaveGroupSettledWithinEpsilon(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)
	_, err = svc.JoinGroup(ctx, "bob", group.Code)
	require.NoError(t, err)

	// bob carries a 0.005 rounding residue, inside the settled threshold.
	stored, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	stored.Expenses = append(stored.Expenses, models.Expense{
		ID:           "e1",
		Amount:       10.005,
		Currency:     "USD",
		PaidBy:       models.PaidBy{Single: "alice"},
		SplitAmounts: map[string]float64{"alice": 10, "bob": 0.005},
	})
	require.NoError(t, store.SaveGroup(ctx, stored))

	require.NoError(t, svc.LeaveGroup(ctx, "bob", group.ID))

	after, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, after.Members)
}

func TestLeaveGroupBlockedByOutstandingBalance(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)
	_, err = svc.JoinGroup(ctx, "bob", group.Code)
	require.NoError(t, err)

	stored, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	stored.Expenses = append(stored.Expenses, models.Expense{
		ID:           "e1",
		Amount:       2,
		Currency:     "USD",
		PaidBy:       models.PaidBy{Single: "alice"},
		SplitAmounts: map[string]float64{"alice": 1, "bob": 1},
	})
	require.NoError(t, store.SaveGroup(ctx, stored))

	err = svc.LeaveGroup(ctx, "bob", group.ID)
	requireKind(t, err, KindConflict)

	// Being owed money blocks leaving too.
	err = svc.LeaveGroup(ctx, "alice", group.ID)
	requireKind(t, err, KindConflict)
}

func TestLeaveGroupLastMemberDeletes(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)

	require.NoError(t, svc.LeaveGroup(ctx, "alice", group.ID))

	_, err = store.GetGroup(ctx, group.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestBalances(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)
	_, err = svc.JoinGroup(ctx, "bob", group.Code)
	require.NoError(t, err)

	stored, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	stored.Expenses = append(stored.Expenses, models.Expense{
		ID:           "e1",
		Amount:       100,
		Currency:     "USD",
		PaidBy:       models.PaidBy{Single: "alice"},
		SplitAmounts: map[string]float64{"alice": 50, "bob": 50},
	})
	require.NoError(t, store.SaveGroup(ctx, stored))

	balances, err := svc.Balances(ctx, "bob", group.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50, balances["USD"]["alice"], 0.01)
	assert.InDelta(t, -50, balances["USD"]["bob"], 0.01)
}

func TestSettlementPlan(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)
	_, err = svc.JoinGroup(ctx, "bob", group.Code)
	require.NoError(t, err)

	stored, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	stored.Expenses = append(stored.Expenses, models.Expense{
		ID:           "e1",
		Amount:       80,
		Currency:     "USD",
		PaidBy:       models.PaidBy{Single: "alice"},
		SplitAmounts: map[string]float64{"alice": 40, "bob": 40},
	})
	require.NoError(t, store.SaveGroup(ctx, stored))

	// Empty currency defaults to USD.
	plan, err := svc.SettlementPlan(ctx, "alice", group.ID, "")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "bob", plan[0].From)
	assert.Equal(t, "alice", plan[0].To)
	assert.InDelta(t, 40, plan[0].Amount, 0.01)

	plan, err = svc.SettlementPlan(ctx, "alice", group.ID, "EUR")
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestSettlementPlanCoversFormerMembers(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)

	// A member who left can reappear in the balances when an old expense
	// naming them is edited later; only their split entry remains.
	stored, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	stored.Expenses = append(stored.Expenses, models.Expense{
		ID:           "e1",
		Amount:       30,
		Currency:     "USD",
		PaidBy:       models.PaidBy{Single: "alice"},
		SplitAmounts: map[string]float64{"ghost": 30},
	})
	require.NoError(t, store.SaveGroup(ctx, stored))

	plan, err := svc.SettlementPlan(ctx, "alice", group.ID, "USD")
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "ghost", plan[0].From)
	assert.Equal(t, "alice", plan[0].To)
	assert.InDelta(t, 30, plan[0].Amount, 0.01)
}

func TestSaveConflictSurfacesAsConflict(t *testing.T) {
	store := newMemStore()
	svc := newGroupService(store)
	ctx := context.Background()

	group, err := svc.CreateGroup(ctx, "alice", "Tokyo Trip")
	require.NoError(t, err)

	store.saveErr = storage.ErrVersionConflict
	_, err = svc.JoinGroup(ctx, "bob", group.Code)
	requireKind(t, err, KindConflict)
}
