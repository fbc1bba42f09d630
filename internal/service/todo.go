package service

import (
	"context"
	"log/slog"

	"github.com/docketapp/docket-server/internal/domain"
	"github.com/docketapp/docket-server/internal/store"
)

// TodoService orchestrates todo item and label operations.
// Ownership scoping is enforced by the store; the service validates
// requests and adds logging around mutations.
type TodoService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTodoService creates a new todo service.
func NewTodoService(store store.Store, logger *slog.Logger) *TodoService {
	return &TodoService{
		store:  store,
		logger: logger,
	}
}

// CreateItemRequest contains the data for a new todo item.
type CreateItemRequest struct {
	Description string `json:"description" validate:"required"`
}

// UpdateItemRequest contains the replacement description for an item.
type UpdateItemRequest struct {
	Description string `json:"description" validate:"required"`
}

// LabelRequest contains a label name for attach and detach operations.
type LabelRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// RenameLabelRequest identifies a label by its current name and carries the new one.
type RenameLabelRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	NewName string `json:"new_name" validate:"required,max=100"`
}

// ListItems returns a page of the user's items matching the search filter.
func (s *TodoService) ListItems(ctx context.Context, userID int64, params store.PagingParams) (*store.PagedResult[*domain.TodoItem], error) {
	return s.store.ListItems(ctx, userID, params)
}

// GetItem returns a single item with its labels.
func (s *TodoService) GetItem(ctx context.Context, userID, itemID int64) (*domain.TodoItem, error) {
	return s.store.GetItem(ctx, userID, itemID)
}

// CreateItem creates a new todo item for the user.
func (s *TodoService) CreateItem(ctx context.Context, userID int64, req CreateItemRequest) (*domain.TodoItem, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	item, err := s.store.CreateItem(ctx, userID, req.Description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("todo item created",
		"item_id", item.ID,
		"user_id", userID,
	)

	return item, nil
}

// UpdateItem replaces an item's description.
func (s *TodoService) UpdateItem(ctx context.Context, userID, itemID int64, req UpdateItemRequest) (*domain.TodoItem, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	item, err := s.store.UpdateItem(ctx, userID, itemID, req.Description)
	if err != nil {
		return nil, err
	}

	s.logger.Info("todo item updated",
		"item_id", itemID,
		"user_id", userID,
	)

	return item, nil
}

// DeleteItem removes an item and all labels attached to it.
func (s *TodoService) DeleteItem(ctx context.Context, userID, itemID int64) error {
	if err := s.store.DeleteItem(ctx, userID, itemID); err != nil {
		return err
	}

	s.logger.Info("todo item deleted",
		"item_id", itemID,
		"user_id", userID,
	)

	return nil
}

// ListLabels returns all labels on an item.
func (s *TodoService) ListLabels(ctx context.Context, userID, itemID int64) ([]*domain.Label, error) {
	return s.store.ListLabels(ctx, userID, itemID)
}

// AddLabel attaches a label to an item.
// Attaching a name that is already present returns the existing label.
func (s *TodoService) AddLabel(ctx context.Context, userID, itemID int64, req LabelRequest) (*domain.Label, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	label, err := s.store.CreateLabel(ctx, userID, itemID, req.Name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("label added",
		"item_id", itemID,
		"user_id", userID,
		"label", label.Name,
	)

	return label, nil
}

// RenameLabel changes a label's name, keeping its identity.
func (s *TodoService) RenameLabel(ctx context.Context, userID, itemID int64, req RenameLabelRequest) (*domain.Label, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	label, err := s.store.UpdateLabel(ctx, userID, itemID, req.Name, req.NewName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("label renamed",
		"item_id", itemID,
		"user_id", userID,
		"from", req.Name,
		"to", req.NewName,
	)

	return label, nil
}

// RemoveLabel detaches a label from an item by name.
func (s *TodoService) RemoveLabel(ctx context.Context, userID, itemID int64, name string) error {
	if err := s.store.DeleteLabel(ctx, userID, itemID, name); err != nil {
		return err
	}

	s.logger.Info("label removed",
		"item_id", itemID,
		"user_id", userID,
		"label", name,
	)

	return nil
}
