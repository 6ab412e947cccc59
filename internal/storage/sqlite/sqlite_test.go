package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleGroup() *models.Group {
	return &models.Group{
		Name:       "Tokyo Trip",
		Code:       "ABC123",
		Members:    []string{"alice", "bob"},
		Currencies: []string{"USD"},
		CreatedBy:  "alice",
	}
}

func TestCreateAndGetGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := sampleGroup()
	require.NoError(t, store.CreateGroup(ctx, group))
	assert.NotEmpty(t, group.ID)
	assert.False(t, group.CreatedAt.IsZero())
	assert.Equal(t, int64(1), group.Version)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, group.Name, got.Name)
	assert.Equal(t, group.Members, got.Members)
	assert.Equal(t, int64(1), got.Version)
}

func TestGetGroupNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetGroup(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestGetGroupByCode(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := sampleGroup()
	require.NoError(t, store.CreateGroup(ctx, group))

	got, err := store.GetGroupByCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)

	_, err = store.GetGroupByCode(ctx, "ZZZZZZ")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateGroupCodeCollision(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateGroup(ctx, sampleGroup()))

	dup := sampleGroup()
	err := store.CreateGroup(ctx, dup)
	assert.ErrorIs(t, err, storage.ErrCodeTaken)
}

func TestListGroupsByMember(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g1 := sampleGroup()
	require.NoError(t, store.CreateGroup(ctx, g1))

	g2 := sampleGroup()
	g2.Name = "Ski Weekend"
	g2.Code = "XYZ789"
	g2.Members = []string{"alice"}
	require.NoError(t, store.CreateGroup(ctx, g2))

	groups, err := store.ListGroupsByMember(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	groups, err = store.ListGroupsByMember(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, g1.ID, groups[0].ID)

	groups, err = store.ListGroupsByMember(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSaveGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := sampleGroup()
	require.NoError(t, store.CreateGroup(ctx, group))

	group.Members = append(group.Members, "carol")
	group.Expenses = append(group.Expenses, models.Expense{
		ID:           "e1",
		Description:  "Dinner",
		Amount:       90,
		Currency:     "USD",
		PaidBy:       models.PaidBy{Single: "alice"},
		SplitAmounts: map[string]float64{"alice": 30, "bob": 30, "carol": 30},
		Date:         time.Now(),
		CreatedBy:    "alice",
	})
	require.NoError(t, store.SaveGroup(ctx, group))
	assert.Equal(t, int64(2), group.Version)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, got.Members)
	require.Len(t, got.Expenses, 1)
	assert.InDelta(t, 30, got.Expenses[0].SplitAmounts["carol"], 0.01)
	assert.Equal(t, int64(2), got.Version)

	// The member index follows the document.
	groups, err := store.ListGroupsByMember(ctx, "carol")
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestSaveGroupVersionConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := sampleGroup()
	require.NoError(t, store.CreateGroup(ctx, group))

	// Two writers load the same version; the slower one loses.
	first, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	second, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)

	first.Name = "First edit"
	require.NoError(t, store.SaveGroup(ctx, first))

	second.Name = "Second edit"
	err = store.SaveGroup(ctx, second)
	assert.ErrorIs(t, err, storage.ErrVersionConflict)

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, "First edit", got.Name)
}

func TestSaveGroupNotFound(t *testing.T) {
	store := newTestStore(t)

	group := sampleGroup()
	group.ID = "missing"
	group.Version = 1
	err := store.SaveGroup(context.Background(), group)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteGroup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := sampleGroup()
	require.NoError(t, store.CreateGroup(ctx, group))

	require.NoError(t, store.DeleteGroup(ctx, group.ID))

	_, err := store.GetGroup(ctx, group.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Member index rows go with the group.
	groups, err := store.ListGroupsByMember(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, groups)

	err = store.DeleteGroup(ctx, group.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice", "alice@example.com", "hash")
	require.NoError(t, store.CreateUser(ctx, user))
	assert.NotEmpty(t, user.ID)

	got, err := store.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)

	got, err = store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = store.GetUserByUsername(ctx, "nobody")
	assert.Error(t, err)

	// Username and email are unique.
	err = store.CreateUser(ctx, models.NewUser("alice", "other@example.com", "hash"))
	assert.Error(t, err)
	err = store.CreateUser(ctx, models.NewUser("alice2", "alice@example.com", "hash"))
	assert.Error(t, err)
}
