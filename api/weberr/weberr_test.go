package weberr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResponse(t *testing.T) {
	base := errors.New("course not found")
	err := NotFound(base, "Course not found", WithFields(map[string]any{"course_id": "c1"}))
	wrapped := fmt.Errorf("handling request: %w", err)

	body, status, ok := Response(wrapped)
	if !ok {
		t.Fatal("expected a response through the wrap chain")
	}
	if status != http.StatusNotFound {
		t.Errorf("status: expected %d, got %d", http.StatusNotFound, status)
	}
	if diff := cmp.Diff(&ErrorResponse{Message: "Course not found"}, body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	fields, ok := Fields(wrapped)
	if !ok {
		t.Fatal("expected fields through the wrap chain")
	}
	if fields["course_id"] != "c1" {
		t.Errorf("fields: got %v", fields)
	}

	if !errors.Is(wrapped, base) {
		t.Error("expected the original error to stay reachable")
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	err := InternalError(errors.New("pq: connection refused"))

	body, status, ok := Response(err)
	if !ok || status != http.StatusInternalServerError {
		t.Fatalf("unexpected response: %v %d", ok, status)
	}
	if body.(*ErrorResponse).Message != "Internal server error" {
		t.Errorf("leaked message: %q", body.(*ErrorResponse).Message)
	}
}

func TestNoResponse(t *testing.T) {
	if _, _, ok := Response(errors.New("plain")); ok {
		t.Error("plain errors carry no response")
	}
}

func TestFieldsMerge(t *testing.T) {
	inner := Wrap(errors.New("boom"), WithFields(map[string]any{"course_id": "c1", "step": "inner"}))
	outer := Wrap(fmt.Errorf("wrapped: %w", inner), WithFields(map[string]any{"step": "outer"}))

	fields, ok := Fields(outer)
	if !ok {
		t.Fatal("expected fields")
	}
	want := map[string]any{"course_id": "c1", "step": "outer"}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
