// Package claims carries the authenticated caller through a request.
package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrNoClaims = errors.New("claims missing from context")

type Claims struct {
	UserID string
	Role   string
	IsPaid bool
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, ErrNoClaims
	}
	return v, nil
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
