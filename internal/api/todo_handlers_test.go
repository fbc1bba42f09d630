package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTodo creates a todo item through the API.
func (ts *testServer) createTestTodo(t *testing.T, token, description string) TodoItemResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/todos",
		"Authorization: Bearer "+token,
		map[string]any{"description": description})
	require.Equal(t, http.StatusOK, resp.Code, "create todo failed: %s", resp.Body.String())

	var body TodoItemResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestCreateTodo(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	item := ts.createTestTodo(t, auth.AccessToken, "buy milk")

	assert.NotZero(t, item.ID)
	assert.Equal(t, "buy milk", item.Description)
	assert.NotZero(t, item.LastModified)
	assert.NotNil(t, item.Labels)
	assert.Empty(t, item.Labels)
}

func TestCreateTodo_Validation(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	resp := ts.api.Post("/api/v1/todos",
		"Authorization: Bearer "+auth.AccessToken,
		map[string]any{"description": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCreateTodo_Unauthorized(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/todos", map[string]any{"description": "no auth"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestGetTodo(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	created := ts.createTestTodo(t, auth.AccessToken, "buy milk")

	resp := ts.api.Get(fmt.Sprintf("/api/v1/todos/%d", created.ID),
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body TodoItemResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, created.ID, body.ID)
	assert.Equal(t, "buy milk", body.Description)
}

func TestGetTodo_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	resp := ts.api.Get("/api/v1/todos/9999",
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetTodo_ForeignOwner(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerTestUser(t, "alice")
	bob := ts.registerTestUser(t, "bob")

	item := ts.createTestTodo(t, alice.AccessToken, "alice's task")

	// Another user's item reads as missing, not forbidden.
	resp := ts.api.Get(fmt.Sprintf("/api/v1/todos/%d", item.ID),
		"Authorization: Bearer "+bob.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateTodo(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	created := ts.createTestTodo(t, auth.AccessToken, "old text")

	resp := ts.api.Put(fmt.Sprintf("/api/v1/todos/%d", created.ID),
		"Authorization: Bearer "+auth.AccessToken,
		map[string]any{"description": "new text"})
	assert.Equal(t, http.StatusOK, resp.Code)

	var body TodoItemResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, created.ID, body.ID)
	assert.Equal(t, "new text", body.Description)
}

func TestUpdateTodo_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	resp := ts.api.Put("/api/v1/todos/9999",
		"Authorization: Bearer "+auth.AccessToken,
		map[string]any{"description": "text"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteTodo(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	created := ts.createTestTodo(t, auth.AccessToken, "short-lived")

	resp := ts.api.Delete(fmt.Sprintf("/api/v1/todos/%d", created.ID),
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get(fmt.Sprintf("/api/v1/todos/%d", created.ID),
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListTodos(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	for i := 0; i < 3; i++ {
		ts.createTestTodo(t, auth.AccessToken, fmt.Sprintf("task %d", i))
	}

	resp := ts.api.Get("/api/v1/todos",
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body PagedTodosResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Total)
	assert.Equal(t, 0, body.StartIndex)
	assert.Len(t, body.PageContent, 3)
}

func TestListTodos_Paging(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	for i := 0; i < 5; i++ {
		ts.createTestTodo(t, auth.AccessToken, fmt.Sprintf("task %d", i))
	}

	resp := ts.api.Get("/api/v1/todos?skip=3&take=2",
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body PagedTodosResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Total)
	assert.Equal(t, 3, body.StartIndex)
	require.Len(t, body.PageContent, 2)
	assert.Equal(t, "task 3", body.PageContent[0].Description)

	// Out-of-range skip yields an empty page with the true total.
	resp = ts.api.Get("/api/v1/todos?skip=50",
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Total)
	assert.Empty(t, body.PageContent)
}

func TestListTodos_Search(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	groceries := ts.createTestTodo(t, auth.AccessToken, "Buy Groceries")
	ts.createTestTodo(t, auth.AccessToken, "walk the dog")
	dentist := ts.createTestTodo(t, auth.AccessToken, "book dentist")

	labelResp := ts.api.Post(fmt.Sprintf("/api/v1/todos/%d/labels", dentist.ID),
		"Authorization: Bearer "+auth.AccessToken,
		map[string]any{"name": "Errands"})
	require.Equal(t, http.StatusOK, labelResp.Code)

	// Caseless match against descriptions.
	resp := ts.api.Get("/api/v1/todos?search=groceries",
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body PagedTodosResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, groceries.ID, body.PageContent[0].ID)

	// Caseless match against label names too.
	resp = ts.api.Get("/api/v1/todos?search=errand",
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, dentist.ID, body.PageContent[0].ID)
}

func TestListTodos_ScopedToOwner(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerTestUser(t, "alice")
	bob := ts.registerTestUser(t, "bob")

	ts.createTestTodo(t, alice.AccessToken, "alice's task")
	ts.createTestTodo(t, bob.AccessToken, "bob's task")

	resp := ts.api.Get("/api/v1/todos",
		"Authorization: Bearer "+alice.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body PagedTodosResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "alice's task", body.PageContent[0].Description)
}
