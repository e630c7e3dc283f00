package random

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	secure, err := StringSecure(32)
	if err != nil {
		t.Fatal(err)
	}

	for name, s := range map[string]string{
		"String":       String(32),
		"StringSecure": secure,
		"Prefix":       Prefix(32),
	} {
		if len(s) != 32 {
			t.Errorf("%s: expected length 32, got %d", name, len(s))
		}
		for _, c := range s {
			if !strings.ContainsRune(charset, c) {
				t.Errorf("%s: unexpected character %q", name, c)
			}
		}
	}

	if Prefix(16) == Prefix(16) {
		t.Error("expected distinct prefixes")
	}
}
