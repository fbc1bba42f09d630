package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/docketapp/docket-server/internal/service"
)

func (s *Server) registerLabelRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLabels",
		Method:      http.MethodGet,
		Path:        "/api/v1/todos/{id}/labels",
		Summary:     "List labels",
		Description: "Returns all labels on a todo item",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLabels)

	huma.Register(s.api, huma.Operation{
		OperationID: "addLabel",
		Method:      http.MethodPost,
		Path:        "/api/v1/todos/{id}/labels",
		Summary:     "Add label",
		Description: "Attaches a label to a todo item. Adding a name that is already present returns the existing label.",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "renameLabel",
		Method:      http.MethodPut,
		Path:        "/api/v1/todos/{id}/labels",
		Summary:     "Rename label",
		Description: "Renames a label identified by its current name, keeping its identity",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRenameLabel)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeLabel",
		Method:      http.MethodDelete,
		Path:        "/api/v1/todos/{id}/labels/{name}",
		Summary:     "Remove label",
		Description: "Detaches a label from a todo item by name",
		Tags:        []string{"Labels"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveLabel)
}

// === DTOs ===

// ListLabelsInput contains parameters for listing labels.
type ListLabelsInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Item ID"`
}

// ListLabelsResponse contains the labels on an item.
type ListLabelsResponse struct {
	Labels []LabelResponse `json:"labels" doc:"Labels on this item"`
}

// ListLabelsOutput wraps the list labels response for Huma.
type ListLabelsOutput struct {
	Body ListLabelsResponse
}

// AddLabelRequest is the request body for attaching a label.
type AddLabelRequest struct {
	Name string `json:"name" validate:"required,max=100" doc:"Label name"`
}

// AddLabelInput wraps the add label request for Huma.
type AddLabelInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Item ID"`
	Body          AddLabelRequest
}

// LabelOutput wraps a single label response for Huma.
type LabelOutput struct {
	Body LabelResponse
}

// RenameLabelRequest is the request body for renaming a label.
type RenameLabelRequest struct {
	Name    string `json:"name" validate:"required,max=100" doc:"Current label name"`
	NewName string `json:"new_name" validate:"required,max=100" doc:"Replacement label name"`
}

// RenameLabelInput wraps the rename label request for Huma.
type RenameLabelInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Item ID"`
	Body          RenameLabelRequest
}

// RemoveLabelInput contains parameters for removing a label.
type RemoveLabelInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Item ID"`
	Name          string `path:"name" doc:"Label name"`
}

// === Handlers ===

func (s *Server) handleListLabels(ctx context.Context, input *ListLabelsInput) (*ListLabelsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	labels, err := s.services.Todo.ListLabels(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]LabelResponse, len(labels))
	for i, l := range labels {
		resp[i] = mapLabelResponse(l)
	}

	return &ListLabelsOutput{Body: ListLabelsResponse{Labels: resp}}, nil
}

func (s *Server) handleAddLabel(ctx context.Context, input *AddLabelInput) (*LabelOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	label, err := s.services.Todo.AddLabel(ctx, userID, input.ID, service.LabelRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &LabelOutput{Body: mapLabelResponse(label)}, nil
}

func (s *Server) handleRenameLabel(ctx context.Context, input *RenameLabelInput) (*LabelOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	label, err := s.services.Todo.RenameLabel(ctx, userID, input.ID, service.RenameLabelRequest{
		Name:    input.Body.Name,
		NewName: input.Body.NewName,
	})
	if err != nil {
		return nil, err
	}

	return &LabelOutput{Body: mapLabelResponse(label)}, nil
}

func (s *Server) handleRemoveLabel(ctx context.Context, input *RemoveLabelInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Todo.RemoveLabel(ctx, userID, input.ID, input.Name); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Label removed"}}, nil
}
