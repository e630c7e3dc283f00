package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/irsalhamdi/coursehub/database"
	"github.com/jmoiron/sqlx"
)

func Create(ctx context.Context, db sqlx.ExtContext, u User) error {
	const q = `
	INSERT INTO users (user_id, full_name, email, password_hash, role, is_paid, created_at, updated_at)
	VALUES (:user_id, :full_name, :email, :password_hash, :role, :is_paid, :created_at, :updated_at)`

	if err := database.NamedExecContext(ctx, db, q, u); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func Fetch(ctx context.Context, db sqlx.ExtContext, id string) (User, error) {
	const q = `
	SELECT user_id, full_name, email, password_hash, role, is_paid, created_at, updated_at
	FROM users
	WHERE user_id = $1`

	var u User
	if err := database.GetContext(ctx, db, &u, q, id); err != nil {
		return User{}, fmt.Errorf("selecting user[%s]: %w", id, err)
	}
	return u, nil
}

// FetchByEmail matches emails case-insensitively.
func FetchByEmail(ctx context.Context, db sqlx.ExtContext, email string) (User, error) {
	const q = `
	SELECT user_id, full_name, email, password_hash, role, is_paid, created_at, updated_at
	FROM users
	WHERE email = $1`

	var u User
	if err := database.GetContext(ctx, db, &u, q, NormalizeEmail(email)); err != nil {
		return User{}, fmt.Errorf("selecting user by email: %w", err)
	}
	return u, nil
}

func UpdatePaid(ctx context.Context, db sqlx.ExtContext, id string, paid bool, now time.Time) error {
	const q = `UPDATE users SET is_paid = $2, updated_at = $3 WHERE user_id = $1`

	n, err := database.ExecContext(ctx, db, q, id, paid, now)
	if err != nil {
		return fmt.Errorf("updating user[%s]: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("updating user[%s]: %w", id, database.ErrDBNotFound)
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
