// Package store defines the persistence contract for the Docket server
// along with shared error and paging types. The sqlite subpackage holds
// the only production implementation.
package store

import (
	"context"
	"time"

	"github.com/docketapp/docket-server/internal/domain"
)

// Store is the ownership-scoped repository contract.
//
// Every item and label operation is scoped by the authenticated owner's
// user id: callers can only see and mutate rows whose owner_id matches.
// Missing or foreign-owned rows surface as ErrNotFound.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	UserExists(ctx context.Context, userID int64) (bool, error)

	// Todo items
	ListItems(ctx context.Context, userID int64, params PagingParams) (*PagedResult[*domain.TodoItem], error)
	GetItem(ctx context.Context, userID, itemID int64) (*domain.TodoItem, error)
	CreateItem(ctx context.Context, userID int64, description string) (*domain.TodoItem, error)
	UpdateItem(ctx context.Context, userID, itemID int64, description string) (*domain.TodoItem, error)
	DeleteItem(ctx context.Context, userID, itemID int64) error

	// Labels
	ListLabels(ctx context.Context, userID, itemID int64) ([]*domain.Label, error)
	CreateLabel(ctx context.Context, userID, itemID int64, name string) (*domain.Label, error)
	UpdateLabel(ctx context.Context, userID, itemID int64, currentName, newName string) (*domain.Label, error)
	DeleteLabel(ctx context.Context, userID, itemID int64, name string) error

	// Sessions
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	RotateSession(ctx context.Context, sessionID, refreshTokenHash string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sessionID string) error
	DeleteExpiredSessions(ctx context.Context) (int64, error)

	Close() error
}
