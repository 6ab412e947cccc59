package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Pram0n0/Travelog/internal/models"
	"github.com/Pram0n0/Travelog/internal/storage"
)

// loadMemberGroup fetches a group and authorizes the actor as a member.
// Every mutating operation starts here.
func loadMemberGroup(ctx context.Context, store storage.Store, actor, groupID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, notFoundf("group %s not found", groupID)
		}
		return nil, err
	}
	if !group.HasMember(actor) {
		return nil, authorizationErr(errNotMember)
	}
	return group, nil
}

// saveGroup persists the mutated snapshot, surfacing a stale write as a
// conflict the caller can retry.
func saveGroup(ctx context.Context, store storage.Store, group *models.Group) error {
	if err := store.SaveGroup(ctx, group); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return conflictErr(err)
		}
		slog.Error("SaveGroup failed", "group_id", group.ID, "error", err)
		return err
	}
	return nil
}
