package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addTestLabel attaches a label to an item through the API.
func (ts *testServer) addTestLabel(t *testing.T, token string, itemID int64, name string) LabelResponse {
	t.Helper()

	resp := ts.api.Post(fmt.Sprintf("/api/v1/todos/%d/labels", itemID),
		"Authorization: Bearer "+token,
		map[string]any{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "add label failed: %s", resp.Body.String())

	var body LabelResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestAddAndListLabels(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")
	item := ts.createTestTodo(t, auth.AccessToken, "task")

	label := ts.addTestLabel(t, auth.AccessToken, item.ID, "urgent")
	assert.NotZero(t, label.ID)
	assert.Equal(t, "urgent", label.Name)

	resp := ts.api.Get(fmt.Sprintf("/api/v1/todos/%d/labels", item.ID),
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var body ListLabelsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Labels, 1)
	assert.Equal(t, "urgent", body.Labels[0].Name)
}

func TestAddLabel_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")
	item := ts.createTestTodo(t, auth.AccessToken, "task")

	first := ts.addTestLabel(t, auth.AccessToken, item.ID, "urgent")

	// Re-adding the same name succeeds and returns the existing label.
	second := ts.addTestLabel(t, auth.AccessToken, item.ID, "urgent")
	assert.Equal(t, first.ID, second.ID)

	resp := ts.api.Get(fmt.Sprintf("/api/v1/todos/%d/labels", item.ID),
		"Authorization: Bearer "+auth.AccessToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var body ListLabelsResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body.Labels, 1)
}

func TestAddLabel_MissingItem(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")

	resp := ts.api.Post("/api/v1/todos/9999/labels",
		"Authorization: Bearer "+auth.AccessToken,
		map[string]any{"name": "urgent"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddLabel_ForeignItem(t *testing.T) {
	ts := setupTestServer(t)
	alice := ts.registerTestUser(t, "alice")
	bob := ts.registerTestUser(t, "bob")

	item := ts.createTestTodo(t, alice.AccessToken, "alice's task")

	resp := ts.api.Post(fmt.Sprintf("/api/v1/todos/%d/labels", item.ID),
		"Authorization: Bearer "+bob.AccessToken,
		map[string]any{"name": "urgent"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRenameLabel(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")
	item := ts.createTestTodo(t, auth.AccessToken, "task")

	label := ts.addTestLabel(t, auth.AccessToken, item.ID, "urgnet")

	resp := ts.api.Put(fmt.Sprintf("/api/v1/todos/%d/labels", item.ID),
		"Authorization: Bearer "+auth.AccessToken,
		map[string]any{"name": "urgnet", "new_name": "urgent"})
	assert.Equal(t, http.StatusOK, resp.Code)

	var body LabelResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, label.ID, body.ID, "rename should keep the label's identity")
	assert.Equal(t, "urgent", body.Name)
}

func TestRenameLabel_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")
	item := ts.createTestTodo(t, auth.AccessToken, "task")

	resp := ts.api.Put(fmt.Sprintf("/api/v1/todos/%d/labels", item.ID),
		"Authorization: Bearer "+auth.AccessToken,
		map[string]any{"name": "missing", "new_name": "urgent"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRemoveLabel(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")
	item := ts.createTestTodo(t, auth.AccessToken, "task")

	ts.addTestLabel(t, auth.AccessToken, item.ID, "urgent")

	resp := ts.api.Delete(fmt.Sprintf("/api/v1/todos/%d/labels/urgent", item.ID),
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	listResp := ts.api.Get(fmt.Sprintf("/api/v1/todos/%d/labels", item.ID),
		"Authorization: Bearer "+auth.AccessToken)
	require.Equal(t, http.StatusOK, listResp.Code)

	var body ListLabelsResponse
	require.NoError(t, json.Unmarshal(listResp.Body.Bytes(), &body))
	assert.Empty(t, body.Labels)

	// The parent item is untouched.
	itemResp := ts.api.Get(fmt.Sprintf("/api/v1/todos/%d", item.ID),
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusOK, itemResp.Code)
}

func TestRemoveLabel_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	auth := ts.registerTestUser(t, "alice")
	item := ts.createTestTodo(t, auth.AccessToken, "task")

	resp := ts.api.Delete(fmt.Sprintf("/api/v1/todos/%d/labels/missing", item.ID),
		"Authorization: Bearer "+auth.AccessToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestLabels_Unauthorized(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/todos/1/labels")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
