package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/api/weberr"
	"github.com/irsalhamdi/coursehub/core/claims"
	"github.com/irsalhamdi/coursehub/database"
	"github.com/irsalhamdi/coursehub/validate"
	"github.com/jmoiron/sqlx"
)

func HandleShowCurrent(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		u, err := Fetch(ctx, db, clm.UserID)
		if err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err, "User not found")
			}
			return fmt.Errorf("fetching current user: %w", err)
		}

		return web.Respond(ctx, w, u, http.StatusOK)
	}
}

// HandleUpdatePaid flips the paid flag of an account. Tokens issued
// before the change keep the old value until they expire.
func HandleUpdatePaid(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err, "User not found")
		}

		var up PaidUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}
		if err := validate.Check(up); err != nil {
			return weberr.BadRequest(err)
		}

		if err := UpdatePaid(ctx, db, id, *up.IsPaid, time.Now().UTC()); err != nil {
			if errors.Is(err, database.ErrDBNotFound) {
				return weberr.NotFound(err, "User not found")
			}
			return err
		}

		return web.RespondMessage(ctx, w, "User updated successfully", http.StatusOK)
	}
}
