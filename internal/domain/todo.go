package domain

import "time"

// MaxLabelNameLength is the longest label name the store accepts.
const MaxLabelNameLength = 100

// TodoItem is a task owned by exactly one user.
// Items form a flat collection under their owner; there is no list level.
type TodoItem struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	Description  string    `json:"description"`
	LastModified time.Time `json:"last_modified"`

	// Labels attached to this item. Populated only by queries that
	// explicitly load them; order is not meaningful.
	Labels []*Label `json:"labels,omitempty"`
}

// Touch updates the LastModified timestamp.
func (t *TodoItem) Touch() {
	t.LastModified = time.Now().UTC()
}

// Label is a free-text marker attached to exactly one todo item.
// Names are unique within a single parent item, enforced by the
// repository rather than a database constraint.
type Label struct {
	ID           int64     `json:"id"`
	TodoItemID   int64     `json:"todo_item_id"`
	OwnerID      int64     `json:"owner_id"`
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
}

// Touch updates the LastModified timestamp.
func (l *Label) Touch() {
	l.LastModified = time.Now().UTC()
}
