package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/api/weberr"
	"github.com/irsalhamdi/coursehub/core/claims"
	"github.com/irsalhamdi/coursehub/core/user"
	"github.com/irsalhamdi/coursehub/validate"
	"github.com/jmoiron/sqlx"
)

const AdminKeyHeader = "X-Admin-Key"

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	IsPaid bool   `json:"isPaid"`
}

func HandleSignup(db *sqlx.DB) web.Handler {
	return signup(db, claims.RoleUser, "User")
}

// HandleAdminSignup registers an admin. When adminKey is set the request
// must carry it in the X-Admin-Key header.
func HandleAdminSignup(db *sqlx.DB, adminKey string) web.Handler {
	h := signup(db, claims.RoleAdmin, "Admin")
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if adminKey != "" {
			got := r.Header.Get(AdminKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(adminKey)) != 1 {
				return weberr.Forbidden(errors.New("admin signup key mismatch"))
			}
		}
		return h(ctx, w, r)
	}
}

func signup(db *sqlx.DB, role string, label string) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var us user.UserSignup
		if err := web.Decode(w, r, &us); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(us); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := Register(ctx, db, us, role)
		if err != nil {
			if errors.Is(err, ErrEmailTaken) {
				return weberr.Conflict(err, label+" already exists")
			}
			return fmt.Errorf("registering %s: %w", role, err)
		}

		return web.Respond(ctx, w, struct {
			Message string `json:"message"`
			ID      string `json:"id"`
		}{label + " registered successfully", u.ID}, http.StatusCreated)
	}
}

func HandleLogin(db *sqlx.DB, tokens *Tokens) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cred Credentials
		if err := web.Decode(w, r, &cred); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(cred); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := Verify(ctx, db, cred.Email, cred.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				return weberr.InvalidCredentials(err)
			}
			return fmt.Errorf("verifying credentials: %w", err)
		}

		tok, err := tokens.Issue(u.ID, u.Role, u.IsPaid)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, LoginResponse{Token: tok, Role: u.Role, IsPaid: u.IsPaid}, http.StatusOK)
	}
}
