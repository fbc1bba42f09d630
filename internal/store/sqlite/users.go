package sqlite

import (
	"context"
	"database/sql"

	"github.com/docketapp/docket-server/internal/domain"
	"github.com/docketapp/docket-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, username, display_name, password_hash, role`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt string
		updatedAt string
		role      string
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&u.Username,
		&u.DisplayName,
		&u.PasswordHash,
		&role,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)

	return &u, nil
}

// CreateUser inserts a new user and assigns its store-generated ID.
// Returns store.ErrAlreadyExists on duplicate username.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (created_at, updated_at, username, display_name, password_hash, role)
		VALUES (?, ?, ?, ?, ?, ?)`,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
		u.Username,
		u.DisplayName,
		u.PasswordHash,
		string(u.Role),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("username already taken")
		}
		return err
	}

	u.ID, err = result.LastInsertId()
	return err
}

// GetUser retrieves a user by its ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByUsername retrieves a user by its unique username.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UserExists reports whether a user with the given ID exists.
func (s *Store) UserExists(ctx context.Context, userID int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
