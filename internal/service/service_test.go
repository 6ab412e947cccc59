package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/storage"
)

// memStore is an in-memory storage.Store for tests. Like the real store
// it hands out snapshots, not shared pointers, and enforces the version
// check on save.
type memStore struct {
	mu     sync.Mutex
	groups map[string]*models.Group

	// saveErr, when set, is returned by the next SaveGroup call and then
	// cleared.
	saveErr error
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{groups: make(map[string]*models.Group)}
}

func (m *memStore) CreateGroup(_ context.Context, group *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.groups {
		if g.Code == group.Code {
			return storage.ErrCodeTaken
		}
	}
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt.IsZero() {
		group.CreatedAt = time.Now()
	}
	group.Version = 1
	m.groups[group.ID] = snapshot(group)
	return nil
}

func (m *memStore) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.groups[groupID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return snapshot(g), nil
}

func (m *memStore) GetGroupByCode(_ context.Context, code string) (*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, g := range m.groups {
		if strings.EqualFold(g.Code, code) {
			return snapshot(g), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) ListGroupsByMember(_ context.Context, username string) ([]*models.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Group
	for _, g := range m.groups {
		if g.HasMember(username) {
			out = append(out, snapshot(g))
		}
	}
	return out, nil
}

func (m *memStore) SaveGroup(_ context.Context, group *models.Group) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		err := m.saveErr
		m.saveErr = nil
		return err
	}

	stored, ok := m.groups[group.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.Version != group.Version {
		return storage.ErrVersionConflict
	}
	group.Version++
	m.groups[group.ID] = snapshot(group)
	return nil
}

func (m *memStore) DeleteGroup(_ context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.groups[groupID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.groups, groupID)
	return nil
}

func (m *memStore) Close() error { return nil }

func snapshot(g *models.Group) *models.Group {
	raw, err := json.Marshal(g)
	if err != nil {
		panic(err)
	}
	var copied models.Group
	if err := json.Unmarshal(raw, &copied); err != nil {
		panic(err)
	}
	copied.Version = g.Version
	return &copied
}
