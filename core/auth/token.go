package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/irsalhamdi/coursehub/core/claims"
)

// DefaultTokenTTL is how long a login stays valid when not configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	Role   string `json:"role"`
	IsPaid bool   `json:"isPaid"`
	jwt.RegisteredClaims
}

// Tokens issues and checks HS256 bearer tokens carrying the caller's
// role and paid status.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(userID, role string, isPaid bool) (string, error) {
	now := t.now()
	tc := tokenClaims{
		Role:   role,
		IsPaid: isPaid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return s, nil
}

func (t *Tokens) Parse(token string) (claims.Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return claims.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if tc.Subject == "" || !claims.ValidRole(tc.Role) {
		return claims.Claims{}, fmt.Errorf("%w: missing subject or role", ErrInvalidToken)
	}

	return claims.Claims{UserID: tc.Subject, Role: tc.Role, IsPaid: tc.IsPaid}, nil
}
