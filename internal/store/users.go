package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskman/internal/auth"
	"taskman/internal/models"
)

const userColumns = "id, name, email, password, age, created_at, updated_at"

// UserStore persists user accounts and their active session tokens.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts an already-validated user whose password field holds a
// bcrypt hash. A duplicate email surfaces as ErrDuplicateEmail.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email, password, age) VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query, user.Name, user.Email, user.Password, user.Age).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetByIDAndToken resolves a user only when the given token string is still
// on that user's active-token list. A verified signature alone is not
// enough: logout removes the row and the token stops working.
func (s *UserStore) GetByIDAndToken(ctx context.Context, id int, token string) (*models.User, error) {
	query := `SELECT u.id, u.name, u.email, u.password, u.age, u.created_at, u.updated_at FROM users u JOIN user_tokens t ON t.user_id = u.id WHERE u.id = $1 AND t.token = $2`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id, token))
}

// GetByCredentials looks a user up by email and checks the password. Both
// an unknown email and a wrong password return ErrInvalidCredentials, and
// both paths perform one bcrypt comparison.
func (s *UserStore) GetByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Update persists profile mutations. The password column receives whatever
// hash the caller put on the struct; re-hashing on change is the handler's
// responsibility.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = $1, email = $2, password = $3, age = $4, updated_at = CURRENT_TIMESTAMP WHERE id = $5 RETURNING updated_at`

	err := s.db.QueryRowContext(ctx, query, user.Name, user.Email, user.Password, user.Age, user.ID).
		Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// Delete removes the user, all their session tokens, and every task they
// own in a single transaction.
func (s *UserStore) Delete(ctx context.Context, id int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, id); err != nil {
		return fmt.Errorf("delete user tasks: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("delete user tokens: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// AddToken appends a freshly minted session token to the user's active list.
func (s *UserStore) AddToken(ctx context.Context, userID int, token string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`, userID, token)
	if err != nil {
		return fmt.Errorf("add token: %w", err)
	}
	return nil
}

// RemoveToken revokes exactly one session token.
func (s *UserStore) RemoveToken(ctx context.Context, userID int, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// ClearTokens revokes every session the user has.
func (s *UserStore) ClearTokens(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}

// GetAvatar returns the stored avatar bytes; ErrNotFound covers both a
// missing user and a user without an avatar.
func (s *UserStore) GetAvatar(ctx context.Context, userID int) ([]byte, error) {
	var avatar []byte
	err := s.db.QueryRowContext(ctx, `SELECT avatar FROM users WHERE id = $1`, userID).Scan(&avatar)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get avatar: %w", err)
	}
	if len(avatar) == 0 {
		return nil, ErrNotFound
	}
	return avatar, nil
}

func (s *UserStore) SetAvatar(ctx context.Context, userID int, avatar []byte) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET avatar = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, avatar, userID)
	if err != nil {
		return fmt.Errorf("set avatar: %w", err)
	}
	return requireRowAffected(result)
}

func (s *UserStore) ClearAvatar(ctx context.Context, userID int) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET avatar = NULL, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("clear avatar: %w", err)
	}
	return requireRowAffected(result)
}

func (s *UserStore) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Age, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}

func requireRowAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
