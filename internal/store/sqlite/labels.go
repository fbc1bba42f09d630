package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/docketapp/docket-server/internal/domain"
	"github.com/docketapp/docket-server/internal/store"
)

// labelColumns is the ordered list of columns selected in label queries.
// Must match the scan order in scanLabel.
const labelColumns = `id, todo_item_id, owner_id, name, last_modified`

// querier is the subset of sql.DB and sql.Tx used by label helpers, so
// ownership checks can run both standalone and inside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanLabel scans a sql.Row (or sql.Rows via its Scan method) into a domain.Label.
func scanLabel(scanner interface{ Scan(dest ...any) error }) (*domain.Label, error) {
	var l domain.Label

	var lastModified string

	err := scanner.Scan(
		&l.ID,
		&l.TodoItemID,
		&l.OwnerID,
		&l.Name,
		&lastModified,
	)
	if err != nil {
		return nil, err
	}

	l.LastModified, err = parseTime(lastModified)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// itemExists reports whether an item exists within the owner's scope.
func itemExists(ctx context.Context, q querier, userID, itemID int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		`SELECT 1 FROM todo_items WHERE id = ? AND owner_id = ?`, itemID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// loadItemLabels loads all labels for one item in ascending id order.
func (s *Store) loadItemLabels(ctx context.Context, q querier, itemID int64) ([]*domain.Label, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE todo_item_id = ? ORDER BY id ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []*domain.Label
	for rows.Next() {
		l, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if labels == nil {
		labels = []*domain.Label{}
	}

	return labels, nil
}

// validateLabelName applies the label constraints shared by create and rename.
func validateLabelName(name string) error {
	if name == "" {
		return store.ErrInvalidInput.WithMessage("label name must not be empty")
	}
	if len(name) > domain.MaxLabelNameLength {
		return store.ErrInvalidInput.WithMessage(
			fmt.Sprintf("label name must be at most %d characters", domain.MaxLabelNameLength))
	}
	return nil
}

// ListLabels returns the labels attached to an item within the owner's scope.
// Returns store.ErrNotFound if the item does not exist under that owner.
func (s *Store) ListLabels(ctx context.Context, userID, itemID int64) ([]*domain.Label, error) {
	exists, err := itemExists(ctx, s.db, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound.WithMessage("todo item not found")
	}

	return s.loadItemLabels(ctx, s.db, itemID)
}

// CreateLabel attaches a label to an item, idempotent by name: if a
// label with the same name already exists under that item, the existing
// label is returned unchanged. The existence check and insert run in one
// transaction so a concurrent item delete cannot race the insert.
// Returns store.ErrNotFound if the item does not exist under that owner.
func (s *Store) CreateLabel(ctx context.Context, userID, itemID int64, name string) (*domain.Label, error) {
	if err := validateLabelName(name); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(ctx, tx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound.WithMessage("todo item not found")
	}

	// Dedup is by exact name within this parent item only.
	row := tx.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE todo_item_id = ? AND name = ?`, itemID, name)
	existing, err := scanLabel(row)
	if err == nil {
		return existing, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO labels (todo_item_id, owner_id, name, last_modified)
		VALUES (?, ?, ?, ?)`,
		itemID,
		userID,
		name,
		formatTime(now),
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.Label{
		ID:           id,
		TodoItemID:   itemID,
		OwnerID:      userID,
		Name:         name,
		LastModified: now,
	}, nil
}

// UpdateLabel renames a label in place and refreshes its last-modified
// timestamp. Duplicate names after a rename are permitted: no collision
// check runs against newName.
// Returns store.ErrNotFound if the item, or a label matching
// currentName under it, does not exist within the owner's scope.
func (s *Store) UpdateLabel(ctx context.Context, userID, itemID int64, currentName, newName string) (*domain.Label, error) {
	if err := validateLabelName(newName); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(ctx, tx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, store.ErrNotFound.WithMessage("todo item not found")
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE todo_item_id = ? AND name = ?`, itemID, currentName)
	l, err := scanLabel(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("label not found")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
		UPDATE labels SET name = ?, last_modified = ? WHERE id = ?`,
		newName,
		formatTime(now),
		l.ID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	l.Name = newName
	l.LastModified = now
	return l, nil
}

// DeleteLabel removes a label by name from an item within the owner's
// scope. Deleting a label never affects the parent item.
// Returns store.ErrNotFound if the item or a label matching name under
// it is absent.
func (s *Store) DeleteLabel(ctx context.Context, userID, itemID int64, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	exists, err := itemExists(ctx, tx, userID, itemID)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound.WithMessage("todo item not found")
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM labels WHERE todo_item_id = ? AND name = ?`, itemID, name)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("label not found")
	}

	return tx.Commit()
}
