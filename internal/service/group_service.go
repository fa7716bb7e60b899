package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/billbook/internal/metrics"
	"github.com/mmynk/billbook/internal/models"
	"github.com/mmynk/billbook/internal/storage"
)

// GroupService creates and lists groups.
type GroupService struct {
	store   storage.Store
	metrics metrics.Recorder
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, recorder metrics.Recorder) *GroupService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &GroupService{store: store, metrics: recorder}
}

// CreateGroup creates a new group owned by userID.
func (s *GroupService) CreateGroup(ctx context.Context, userID, name, description string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	slog.Info("CreateGroup request received", "name", name, "user_id", userID)

	if name == "" {
		return nil, ErrNameRequired
	}

	group := &models.Group{
		Name:        name,
		Description: strings.TrimSpace(description),
		UserID:      userID,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.metrics.IncGroupCreated()
	slog.Info("Group created", "group_id", group.ID)
	return group, nil
}

// GetGroup retrieves a group by ID. Returns ErrGroupNotFound for unknown IDs.
func (s *GroupService) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		slog.Error("GetGroup failed", "group_id", id, "error", err)
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return group, nil
}

// ListGroups retrieves every group in creation order. Groups are not
// scoped to their owner.
func (s *GroupService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}
