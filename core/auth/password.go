package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/coursehub/core/user"
	"github.com/irsalhamdi/coursehub/database"
	"github.com/irsalhamdi/coursehub/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

// Register stores a new account with a bcrypt hash of the password.
func Register(ctx context.Context, db sqlx.ExtContext, us user.UserSignup, role string) (user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(us.Password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           validate.GenerateID(),
		FullName:     us.FullName,
		Email:        user.NormalizeEmail(us.Email),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Create(ctx, db, u); err != nil {
		if errors.Is(err, database.ErrDBDuplicatedEntry) {
			return user.User{}, fmt.Errorf("%w: %v", ErrEmailTaken, err)
		}
		return user.User{}, err
	}
	return u, nil
}

// Verify returns the account when the password matches. An unknown
// email and a wrong password fail the same way.
func Verify(ctx context.Context, db sqlx.ExtContext, email, password string) (user.User, error) {
	u, err := user.FetchByEmail(ctx, db, email)
	if err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return user.User{}, fmt.Errorf("unknown email: %w", ErrInvalidCredentials)
		}
		return user.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return user.User{}, fmt.Errorf("user[%s]: %w", u.ID, ErrInvalidCredentials)
	}
	return u, nil
}
