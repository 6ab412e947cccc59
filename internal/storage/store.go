// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/Pram0n0/Travelog/internal/models"
)

var (
	// ErrNotFound is returned when the requested group does not exist.
	ErrNotFound = errors.New("group not found")

	// ErrVersionConflict is returned by SaveGroup when the stored version
	// moved since the group was loaded. The caller's snapshot is stale
	// and its mutation was not applied.
	ErrVersionConflict = errors.New("group was modified concurrently")

	// ErrCodeTaken is returned when a join code collides on create.
	ErrCodeTaken = errors.New("group code already in use")
)

// Store defines the interface for group persistence. A group is saved as
// one atomic unit; concurrent writers against the same group serialize
// through the version check on SaveGroup.
//
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. ID, CreatedAt and Version are
	// populated by the store if unset.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByCode retrieves a group by join code, case-insensitively.
	GetGroupByCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsByMember retrieves every group the user belongs to.
	ListGroupsByMember(ctx context.Context, username string) ([]*models.Group, error)

	// SaveGroup atomically replaces the stored group if and only if its
	// version still matches group.Version, then bumps the version on the
	// passed-in group. Returns ErrVersionConflict otherwise.
	SaveGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group entirely.
	DeleteGroup(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
