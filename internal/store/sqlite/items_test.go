package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/docketapp/docket-server/internal/store"
)

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	item, err := s.CreateItem(ctx, u.ID, "buy milk")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("CreateItem did not assign an ID")
	}
	if item.OwnerID != u.ID {
		t.Errorf("OwnerID: got %d, want %d", item.OwnerID, u.ID)
	}

	got, err := s.GetItem(ctx, u.ID, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Description != "buy milk" {
		t.Errorf("Description: got %q, want %q", got.Description, "buy milk")
	}
	if got.Labels == nil {
		t.Error("Labels should be an empty slice, not nil")
	}
	if got.LastModified.Unix() != item.LastModified.Unix() {
		t.Errorf("LastModified: got %v, want %v", got.LastModified, item.LastModified)
	}
}

func TestCreateItem_EmptyDescription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	_, err := s.CreateItem(ctx, u.ID, "")
	if err == nil {
		t.Fatal("expected error for empty description")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrInvalidInput.Code {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateItem_MissingUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateItem(context.Background(), 9999, "orphan task")
	if err == nil {
		t.Fatal("expected error for missing user")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetItem_OwnershipScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := makeTestUser(t, s, "alice")
	bob := makeTestUser(t, s, "bob")

	item, err := s.CreateItem(ctx, alice.ID, "alice's task")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// Another user's lookup of the same id behaves as if the item
	// does not exist at all.
	_, err = s.GetItem(ctx, bob.ID, item.ID)
	if err == nil {
		t.Fatal("expected error for foreign-owned item")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	item, err := s.CreateItem(ctx, u.ID, "old text")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	updated, err := s.UpdateItem(ctx, u.ID, item.ID, "new text")
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if updated.Description != "new text" {
		t.Errorf("Description: got %q, want %q", updated.Description, "new text")
	}
	if updated.LastModified.Before(item.LastModified) {
		t.Errorf("LastModified should advance: got %v, was %v", updated.LastModified, item.LastModified)
	}
}

func TestUpdateItem_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := makeTestUser(t, s, "alice")
	bob := makeTestUser(t, s, "bob")

	item, err := s.CreateItem(ctx, alice.ID, "alice's task")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	var storeErr *store.Error

	_, err = s.UpdateItem(ctx, alice.ID, 9999, "text")
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("missing id: expected ErrNotFound, got %v", err)
	}

	// Foreign-owned update is indistinguishable from a missing item.
	_, err = s.UpdateItem(ctx, bob.ID, item.ID, "hijack")
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("foreign owner: expected ErrNotFound, got %v", err)
	}

	got, err := s.GetItem(ctx, alice.ID, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.Description != "alice's task" {
		t.Errorf("item should be unchanged, got %q", got.Description)
	}
}

func TestDeleteItem_CascadesLabels(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	item, err := s.CreateItem(ctx, u.ID, "labeled task")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := s.CreateLabel(ctx, u.ID, item.ID, "urgent"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	if _, err := s.CreateLabel(ctx, u.ID, item.ID, "home"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}

	if err := s.DeleteItem(ctx, u.ID, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	var storeErr *store.Error
	_, err = s.GetItem(ctx, u.ID, item.ID)
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	_, err = s.ListLabels(ctx, u.ID, item.ID)
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("ListLabels after delete: expected ErrNotFound, got %v", err)
	}

	// No orphaned labels survive the delete.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM labels WHERE todo_item_id = ?", item.ID).Scan(&count); err != nil {
		t.Fatalf("count labels: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 labels after cascade, got %d", count)
	}
}

func TestDeleteItem_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := makeTestUser(t, s, "alice")
	bob := makeTestUser(t, s, "bob")

	item, err := s.CreateItem(ctx, alice.ID, "task")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	var storeErr *store.Error
	err = s.DeleteItem(ctx, bob.ID, item.ID)
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListItems_OwnershipScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := makeTestUser(t, s, "alice")
	bob := makeTestUser(t, s, "bob")

	for i := 0; i < 3; i++ {
		if _, err := s.CreateItem(ctx, alice.ID, fmt.Sprintf("alice task %d", i)); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}
	if _, err := s.CreateItem(ctx, bob.ID, "bob task"); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	result, err := s.ListItems(ctx, alice.ID, store.PagingParams{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if result.Total != 3 {
		t.Errorf("Total: got %d, want 3", result.Total)
	}
	for _, item := range result.PageContent {
		if item.OwnerID != alice.ID {
			t.Errorf("foreign item %d leaked into alice's list", item.ID)
		}
	}
}

func TestListItems_MissingUser(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ListItems(context.Background(), 9999, store.PagingParams{})
	if err == nil {
		t.Fatal("expected error for missing user")
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListItems_Paging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	for i := 0; i < 25; i++ {
		if _, err := s.CreateItem(ctx, u.ID, fmt.Sprintf("task %02d", i)); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}

	// Default page size applies when take is unset.
	result, err := s.ListItems(ctx, u.ID, store.PagingParams{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(result.PageContent) != store.DefaultTake {
		t.Errorf("default page: got %d items, want %d", len(result.PageContent), store.DefaultTake)
	}
	if result.Total != 25 {
		t.Errorf("Total: got %d, want 25", result.Total)
	}
	if result.StartIndex != 0 {
		t.Errorf("StartIndex: got %d, want 0", result.StartIndex)
	}

	// Second page.
	result, err = s.ListItems(ctx, u.ID, store.PagingParams{Skip: 20, Take: 20})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(result.PageContent) != 5 {
		t.Errorf("second page: got %d items, want 5", len(result.PageContent))
	}
	if result.Total != 25 {
		t.Errorf("Total: got %d, want 25", result.Total)
	}
	if result.StartIndex != 20 {
		t.Errorf("StartIndex: got %d, want 20", result.StartIndex)
	}
	if result.PageContent[0].Description != "task 20" {
		t.Errorf("first item on second page: got %q, want %q", result.PageContent[0].Description, "task 20")
	}

	// Out-of-range skip yields an empty page with the true total.
	result, err = s.ListItems(ctx, u.ID, store.PagingParams{Skip: 100})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(result.PageContent) != 0 {
		t.Errorf("out-of-range skip: got %d items, want 0", len(result.PageContent))
	}
	if result.PageContent == nil {
		t.Error("PageContent should be an empty slice, not nil")
	}
	if result.Total != 25 {
		t.Errorf("Total: got %d, want 25", result.Total)
	}

	// Negative skip and zero take fall back to defaults.
	result, err = s.ListItems(ctx, u.ID, store.PagingParams{Skip: -5, Take: -1})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(result.PageContent) != store.DefaultTake {
		t.Errorf("normalized params: got %d items, want %d", len(result.PageContent), store.DefaultTake)
	}
	if result.StartIndex != 0 {
		t.Errorf("StartIndex: got %d, want 0", result.StartIndex)
	}
}

func TestListItems_TakeCapped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	for i := 0; i < store.MaxTake+10; i++ {
		if _, err := s.CreateItem(ctx, u.ID, fmt.Sprintf("task %03d", i)); err != nil {
			t.Fatalf("CreateItem: %v", err)
		}
	}

	result, err := s.ListItems(ctx, u.ID, store.PagingParams{Take: 1000})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(result.PageContent) != store.MaxTake {
		t.Errorf("capped page: got %d items, want %d", len(result.PageContent), store.MaxTake)
	}
	if result.Total != store.MaxTake+10 {
		t.Errorf("Total: got %d, want %d", result.Total, store.MaxTake+10)
	}
}

func TestListItems_Search(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	groceries, err := s.CreateItem(ctx, u.ID, "Buy Groceries")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := s.CreateItem(ctx, u.ID, "walk the dog"); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	dentist, err := s.CreateItem(ctx, u.ID, "book dentist")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := s.CreateLabel(ctx, u.ID, dentist.ID, "Errands"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}

	// Caseless match against descriptions.
	result, err := s.ListItems(ctx, u.ID, store.PagingParams{Search: "groceries"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("search by description: got %d results, want 1", result.Total)
	}
	if result.PageContent[0].ID != groceries.ID {
		t.Errorf("search by description matched item %d, want %d", result.PageContent[0].ID, groceries.ID)
	}

	// Caseless match against label names too.
	result, err = s.ListItems(ctx, u.ID, store.PagingParams{Search: "errand"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("search by label: got %d results, want 1", result.Total)
	}
	if result.PageContent[0].ID != dentist.ID {
		t.Errorf("search by label matched item %d, want %d", result.PageContent[0].ID, dentist.ID)
	}

	// No match.
	result, err = s.ListItems(ctx, u.ID, store.PagingParams{Search: "missing"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("no-match search: got %d results, want 0", result.Total)
	}
	if len(result.PageContent) != 0 {
		t.Errorf("no-match search: got %d items, want 0", len(result.PageContent))
	}
}

func TestListItems_SearchUnicodeFold(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	item, err := s.CreateItem(ctx, u.ID, "Besuch im CAFÉ planen")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	result, err := s.ListItems(ctx, u.ID, store.PagingParams{Search: "café"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if result.Total != 1 || result.PageContent[0].ID != item.ID {
		t.Errorf("folded search: got %d results, want the café item", result.Total)
	}
}

func TestListItems_LoadsLabels(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser(t, s, "alice")

	item, err := s.CreateItem(ctx, u.ID, "task with labels")
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if _, err := s.CreateLabel(ctx, u.ID, item.ID, "one"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}
	if _, err := s.CreateLabel(ctx, u.ID, item.ID, "two"); err != nil {
		t.Fatalf("CreateLabel: %v", err)
	}

	result, err := s.ListItems(ctx, u.ID, store.PagingParams{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(result.PageContent) != 1 {
		t.Fatalf("got %d items, want 1", len(result.PageContent))
	}
	labels := result.PageContent[0].Labels
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}
	names := map[string]bool{}
	for _, l := range labels {
		names[l.Name] = true
		if l.TodoItemID != item.ID {
			t.Errorf("label %q attached to item %d, want %d", l.Name, l.TodoItemID, item.ID)
		}
	}
	if !names["one"] || !names["two"] {
		t.Errorf("label names: got %v, want one and two", names)
	}
}
