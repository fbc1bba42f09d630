package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docketapp/docket-server/internal/domain"
	"github.com/docketapp/docket-server/internal/normalize"
	"github.com/docketapp/docket-server/internal/store"
)

// itemColumns is the ordered list of columns selected in todo item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, owner_id, description, last_modified`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.TodoItem.
// Labels are left nil; callers load them explicitly.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.TodoItem, error) {
	var t domain.TodoItem

	var lastModified string

	err := scanner.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Description,
		&lastModified,
	)
	if err != nil {
		return nil, err
	}

	t.LastModified, err = parseTime(lastModified)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// listItemsWithLabels loads all items owned by a user in ascending id
// order, with their labels attached. Two explicit queries: one for the
// items, one batch for the labels.
func (s *Store) listItemsWithLabels(ctx context.Context, userID int64) ([]*domain.TodoItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM todo_items WHERE owner_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.TodoItem
	byID := make(map[int64]*domain.TodoItem)
	for rows.Next() {
		t, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
		byID[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return items, nil
	}

	labelRows, err := s.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE owner_id = ? ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query labels: %w", err)
	}
	defer labelRows.Close()

	for labelRows.Next() {
		l, err := scanLabel(labelRows)
		if err != nil {
			return nil, err
		}
		if item, ok := byID[l.TodoItemID]; ok {
			item.Labels = append(item.Labels, l)
		}
	}
	if err := labelRows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// matchesSearch reports whether an item matches the search string: a
// caseless substring of its description or of any attached label name.
func matchesSearch(t *domain.TodoItem, search string) bool {
	if normalize.ContainsFold(t.Description, search) {
		return true
	}
	for _, l := range t.Labels {
		if normalize.ContainsFold(l.Name, search) {
			return true
		}
	}
	return false
}

// ListItems returns one page of the user's items, filtered by the
// optional search string and sliced by skip/take. Total reflects the
// filtered count before slicing.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) ListItems(ctx context.Context, userID int64, params store.PagingParams) (*store.PagedResult[*domain.TodoItem], error) {
	exists, err := s.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}

	params.Validate()

	candidates, err := s.listItemsWithLabels(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := candidates
	if params.Search != "" {
		filtered = filtered[:0:0]
		for _, t := range candidates {
			if matchesSearch(t, params.Search) {
				filtered = append(filtered, t)
			}
		}
	}

	total := len(filtered)

	// Slice [skip, skip+take). An out-of-range skip yields an empty page.
	page := []*domain.TodoItem{}
	if params.Skip < total {
		end := params.Skip + params.Take
		if end > total {
			end = total
		}
		page = filtered[params.Skip:end]
	}

	return &store.PagedResult[*domain.TodoItem]{
		PageContent: page,
		StartIndex:  params.Skip,
		Total:       total,
	}, nil
}

// GetItem retrieves a single item by id within the owner's scope, with
// its labels loaded.
// Returns store.ErrNotFound if no item matches both owner and id.
func (s *Store) GetItem(ctx context.Context, userID, itemID int64) (*domain.TodoItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM todo_items WHERE id = ? AND owner_id = ?`, itemID, userID)

	t, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("todo item not found")
	}
	if err != nil {
		return nil, err
	}

	t.Labels, err = s.loadItemLabels(ctx, s.db, itemID)
	if err != nil {
		return nil, fmt.Errorf("load item labels: %w", err)
	}

	return t, nil
}

// CreateItem inserts a new item owned by userID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) CreateItem(ctx context.Context, userID int64, description string) (*domain.TodoItem, error) {
	if description == "" {
		return nil, store.ErrInvalidInput.WithMessage("description must not be empty")
	}

	exists, err := s.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todo_items (owner_id, description, last_modified)
		VALUES (?, ?, ?)`,
		userID,
		description,
		formatTime(now),
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &domain.TodoItem{
		ID:           id,
		OwnerID:      userID,
		Description:  description,
		LastModified: now,
	}, nil
}

// UpdateItem replaces an item's description and refreshes its
// last-modified timestamp. The mutation and timestamp are one statement,
// so there is no partially updated state.
// Returns store.ErrNotFound if no item matches (owner, id).
func (s *Store) UpdateItem(ctx context.Context, userID, itemID int64, description string) (*domain.TodoItem, error) {
	if description == "" {
		return nil, store.ErrInvalidInput.WithMessage("description must not be empty")
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE todo_items SET description = ?, last_modified = ?
		WHERE id = ? AND owner_id = ?`,
		description,
		formatTime(now),
		itemID,
		userID,
	)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound.WithMessage("todo item not found")
	}

	return s.GetItem(ctx, userID, itemID)
}

// DeleteItem performs a hard delete on an item within the owner's scope.
// The ON DELETE CASCADE on labels removes all attached labels in the
// same statement, so no orphaned labels are ever observable.
// Returns store.ErrNotFound if no item matches (owner, id).
func (s *Store) DeleteItem(ctx context.Context, userID, itemID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM todo_items WHERE id = ? AND owner_id = ?`, itemID, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("todo item not found")
	}
	return nil
}
