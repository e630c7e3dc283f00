package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/api/weberr"
	"github.com/irsalhamdi/coursehub/core/claims"
	"github.com/irsalhamdi/coursehub/core/policy"
)

var errNoToken = errors.New("missing bearer token")

func bearer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errNoToken
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errors.New("expected authorization header format: Bearer <token>")
	}
	return parts[1], nil
}

// Authenticate requires a valid bearer token and stores its claims in
// the request context.
func Authenticate(tokens *Tokens) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			tok, err := bearer(r)
			if err != nil {
				return weberr.NotAuthorized(err)
			}

			clm, err := tokens.Parse(tok)
			if err != nil {
				return weberr.NotAuthorized(err)
			}

			return handler(claims.Set(ctx, clm), w, r)
		}
		return h
	}
	return m
}

// Require checks the caller against the access policy for op. With
// enforce off the route is open, though a valid token still sets claims.
func Require(tokens *Tokens, op policy.Operation, enforce bool) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			tok, err := bearer(r)
			if err != nil {
				if !enforce {
					return handler(ctx, w, r)
				}
				return weberr.NotAuthorized(err)
			}

			clm, err := tokens.Parse(tok)
			if err != nil {
				if !enforce {
					return handler(ctx, w, r)
				}
				return weberr.NotAuthorized(err)
			}
			ctx = claims.Set(ctx, clm)

			if enforce && !policy.CanPerform(clm.Role, clm.IsPaid, op) {
				return weberr.Forbidden(fmt.Errorf("user[%s] role[%s] paid[%v] denied %s", clm.UserID, clm.Role, clm.IsPaid, op))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
