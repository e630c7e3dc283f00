// Package random produces short alphanumeric identifiers.
package random

import (
	crand "crypto/rand"
	"math/big"
	mrand "math/rand"
)

const charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// String is not suitable for secrets.
func String(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[mrand.Intn(len(charset))]
	}
	return string(b)
}

func StringSecure(length int) (string, error) {
	l := big.NewInt(int64(len(charset)))
	b := make([]byte, length)
	for i := range b {
		num, err := crand.Int(crand.Reader, l)
		if err != nil {
			return "", err
		}
		b[i] = charset[num.Int64()]
	}
	return string(b), nil
}

// Prefix returns a process-level tag, falling back to math/rand when the
// system source is unavailable.
func Prefix(length int) string {
	s, err := StringSecure(length)
	if err != nil {
		return String(length)
	}
	return s
}
