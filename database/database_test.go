package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/irsalhamdi/coursehub/config"
)

type failingTx struct{ err error }

func (f failingTx) Rollback() error { return f.err }

func TestRollbackKeepsCause(t *testing.T) {
	errTyped := errors.New("chapter exists")
	cause := fmt.Errorf("inserting chapter: %w", errTyped)

	if err := rollback(failingTx{}, cause); err != cause {
		t.Fatalf("expected the cause unchanged, got %v", err)
	}

	err := rollback(failingTx{err: errors.New("conn closed")}, cause)
	if !errors.Is(err, errTyped) {
		t.Fatalf("typed cause lost after failed rollback: %v", err)
	}
}

func TestStatusCheckBacksOff(t *testing.T) {
	db, err := Open(config.DB{
		User:       "postgres",
		Password:   "postgres",
		Host:       "127.0.0.1:1",
		Name:       "coursehub",
		DisableTLS: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err = StatusCheck(ctx, db)
	if err == nil {
		t.Fatal("expected an error from an unreachable database")
	}

	m := regexp.MustCompile(`after (\d+) attempts`).FindStringSubmatch(err.Error())
	if m == nil {
		t.Fatalf("unexpected error: %v", err)
	}
	attempts, _ := strconv.Atoi(m[1])
	if attempts > 5 {
		t.Errorf("expected a handful of attempts within the deadline, got %d", attempts)
	}
}
