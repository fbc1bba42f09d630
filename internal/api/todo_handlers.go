package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/docketapp/docket-server/internal/domain"
	"github.com/docketapp/docket-server/internal/service"
	"github.com/docketapp/docket-server/internal/store"
)

func (s *Server) registerTodoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTodos",
		Method:      http.MethodGet,
		Path:        "/api/v1/todos",
		Summary:     "List todo items",
		Description: "Returns a page of the current user's items, optionally filtered by a search term matched against descriptions and label names",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListTodos)

	huma.Register(s.api, huma.Operation{
		OperationID: "createTodo",
		Method:      http.MethodPost,
		Path:        "/api/v1/todos",
		Summary:     "Create todo item",
		Description: "Creates a new todo item owned by the current user",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTodo)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTodo",
		Method:      http.MethodGet,
		Path:        "/api/v1/todos/{id}",
		Summary:     "Get todo item",
		Description: "Returns a todo item by ID with its labels",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetTodo)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTodo",
		Method:      http.MethodPut,
		Path:        "/api/v1/todos/{id}",
		Summary:     "Update todo item",
		Description: "Replaces a todo item's description",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTodo)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTodo",
		Method:      http.MethodDelete,
		Path:        "/api/v1/todos/{id}",
		Summary:     "Delete todo item",
		Description: "Deletes a todo item and all labels attached to it",
		Tags:        []string{"Todos"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTodo)
}

// === DTOs ===

// LabelResponse contains label data in API responses.
type LabelResponse struct {
	ID           int64     `json:"id" doc:"Label ID"`
	Name         string    `json:"name" doc:"Label name"`
	LastModified time.Time `json:"last_modified" doc:"Last modification time"`
}

// TodoItemResponse contains todo item data in API responses.
type TodoItemResponse struct {
	ID           int64           `json:"id" doc:"Item ID"`
	Description  string          `json:"description" doc:"Item description"`
	LastModified time.Time       `json:"last_modified" doc:"Last modification time"`
	Labels       []LabelResponse `json:"labels" doc:"Labels attached to this item"`
}

// ListTodosInput contains parameters for listing todo items.
type ListTodosInput struct {
	Authorization string `header:"Authorization"`
	Search        string `query:"search" doc:"Case-insensitive substring matched against descriptions and label names"`
	Skip          int    `query:"skip" doc:"Number of filtered results to skip"`
	Take          int    `query:"take" doc:"Maximum results to return (default 20, max 100)"`
}

// PagedTodosResponse contains one page of todo items.
type PagedTodosResponse struct {
	PageContent []TodoItemResponse `json:"page_content" doc:"Items on this page"`
	StartIndex  int                `json:"start_index" doc:"Offset of the first item in the filtered set"`
	Total       int                `json:"total" doc:"Total filtered items across all pages"`
}

// ListTodosOutput wraps the paged todos response for Huma.
type ListTodosOutput struct {
	Body PagedTodosResponse
}

// CreateTodoRequest is the request body for creating a todo item.
type CreateTodoRequest struct {
	Description string `json:"description" validate:"required" doc:"Item description"`
}

// CreateTodoInput wraps the create todo request for Huma.
type CreateTodoInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateTodoRequest
}

// TodoOutput wraps a single todo item response for Huma.
type TodoOutput struct {
	Body TodoItemResponse
}

// GetTodoInput contains parameters for getting a todo item.
type GetTodoInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Item ID"`
}

// UpdateTodoRequest is the request body for updating a todo item.
type UpdateTodoRequest struct {
	Description string `json:"description" validate:"required" doc:"Replacement description"`
}

// UpdateTodoInput wraps the update todo request for Huma.
type UpdateTodoInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Item ID"`
	Body          UpdateTodoRequest
}

// DeleteTodoInput contains parameters for deleting a todo item.
type DeleteTodoInput struct {
	Authorization string `header:"Authorization"`
	ID            int64  `path:"id" doc:"Item ID"`
}

// === Handlers ===

func (s *Server) handleListTodos(ctx context.Context, input *ListTodosInput) (*ListTodosOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Todo.ListItems(ctx, userID, store.PagingParams{
		Search: input.Search,
		Skip:   input.Skip,
		Take:   input.Take,
	})
	if err != nil {
		return nil, err
	}

	items := make([]TodoItemResponse, len(page.PageContent))
	for i, item := range page.PageContent {
		items[i] = mapTodoItemResponse(item)
	}

	return &ListTodosOutput{
		Body: PagedTodosResponse{
			PageContent: items,
			StartIndex:  page.StartIndex,
			Total:       page.Total,
		},
	}, nil
}

func (s *Server) handleCreateTodo(ctx context.Context, input *CreateTodoInput) (*TodoOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Todo.CreateItem(ctx, userID, service.CreateItemRequest{
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &TodoOutput{Body: mapTodoItemResponse(item)}, nil
}

func (s *Server) handleGetTodo(ctx context.Context, input *GetTodoInput) (*TodoOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Todo.GetItem(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &TodoOutput{Body: mapTodoItemResponse(item)}, nil
}

func (s *Server) handleUpdateTodo(ctx context.Context, input *UpdateTodoInput) (*TodoOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	item, err := s.services.Todo.UpdateItem(ctx, userID, input.ID, service.UpdateItemRequest{
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &TodoOutput{Body: mapTodoItemResponse(item)}, nil
}

func (s *Server) handleDeleteTodo(ctx context.Context, input *DeleteTodoInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Todo.DeleteItem(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Todo item deleted"}}, nil
}

// === Helpers ===

func mapLabelResponse(l *domain.Label) LabelResponse {
	return LabelResponse{
		ID:           l.ID,
		Name:         l.Name,
		LastModified: l.LastModified,
	}
}

func mapTodoItemResponse(item *domain.TodoItem) TodoItemResponse {
	labels := make([]LabelResponse, len(item.Labels))
	for i, l := range item.Labels {
		labels[i] = mapLabelResponse(l)
	}
	return TodoItemResponse{
		ID:           item.ID,
		Description:  item.Description,
		LastModified: item.LastModified,
		Labels:       labels,
	}
}
