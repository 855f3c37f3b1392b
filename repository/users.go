package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookmarket/data"
)

type users interface {
	RegisterUser(ctx context.Context, user *data.User) error
	GetUserByID(ctx context.Context, userID int64) (*data.User, error)
	GetUserByEmail(ctx context.Context, email string) (*data.User, error)
	UpdateUser(ctx context.Context, user *data.User) error
	GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error)
}

const userSelect = `
		SELECT users.id, users.created_at, users.name, users.email, users.phone,
			users.password_hash, users.activated, users.version
		FROM users`

func scanUser(row rowScanner) (*data.User, error) {
	var user data.User
	err := row.Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.Password.Hash,
		&user.Activated,
		&user.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// RegisterUser registers a new user.
func (r *repository) RegisterUser(ctx context.Context, user *data.User) error {
	query := `
		INSERT INTO users (name, email, phone, password_hash, activated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version`
	args := []any{user.Name, user.Email, user.Phone, user.Password.Hash, user.Activated}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Version,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetUserByID retrieves a user record by its ID.
func (r *repository) GetUserByID(ctx context.Context, userID int64) (*data.User, error) {
	if userID < 1 {
		return nil, ErrRecordNotFound
	}
	query := userSelect + `
		WHERE users.id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.db.QueryRowContext(ctx, query, userID))
}

// GetUserByEmail retrieves a user record by its email.
func (r *repository) GetUserByEmail(ctx context.Context, email string) (*data.User, error) {
	query := userSelect + `
		WHERE users.email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

// UpdateUser updates a user record.
func (r *repository) UpdateUser(ctx context.Context, user *data.User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, phone = $3, password_hash = $4, activated = $5, version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version`
	args := []any{
		user.Name,
		user.Email,
		user.Phone,
		user.Password.Hash,
		user.Activated,
		user.ID,
		user.Version,
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.Version)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return ErrDuplicateRecord
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// GetUserForToken returns the user a live token of the given scope belongs to.
func (r *repository) GetUserForToken(ctx context.Context, tokenScope, tokenPlaintext string) (*data.User, error) {
	tokenHash := sha256.Sum256([]byte(tokenPlaintext))
	query := userSelect + `
		INNER JOIN tokens
		ON users.id = tokens.user_id
		WHERE tokens.hash = $1
		AND tokens.scope = $2
		AND tokens.expiry > $3`
	args := []any{tokenHash[:], tokenScope, time.Now()}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.db.QueryRowContext(ctx, query, args...))
}
