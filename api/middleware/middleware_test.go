package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/api/weberr"
	"github.com/irsalhamdi/coursehub/rate"
	"github.com/sirupsen/logrus"
)

func quietLog() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func serve(t *testing.T, h web.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	if err := h(r.Context(), w, r); err != nil {
		t.Fatalf("handler returned an error past the middleware: %v", err)
	}
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body weberr.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body.Message
}

func TestErrorsRendersResponse(t *testing.T) {
	h := web.WrapMiddleware([]web.Middleware{Errors(quietLog())},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return weberr.NotFound(errors.New("course not found"), "Course not found")
		})

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: expected %d, got %d", http.StatusNotFound, w.Code)
	}
	if got := decodeMessage(t, w); got != "Course not found" {
		t.Errorf("message: got %q", got)
	}
}

func TestErrorsHidesUntypedErrors(t *testing.T) {
	h := web.WrapMiddleware([]web.Middleware{Errors(quietLog())},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return errors.New("pq: password authentication failed")
		})

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: expected %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if got := decodeMessage(t, w); got != "Internal server error" {
		t.Errorf("message: got %q", got)
	}
}

func TestPanicsRecovered(t *testing.T) {
	h := web.WrapMiddleware([]web.Middleware{Errors(quietLog()), Panics()},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			panic("boom")
		})

	w := serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: expected %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := web.WrapMiddleware([]web.Middleware{RequestID()},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			seen = ContextRequestID(ctx)
			return nil
		})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc-123")
	w := serve(t, h, r)
	if seen != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected caller id to be kept, got ctx=%q header=%q", seen, w.Header().Get(RequestIDHeader))
	}

	serve(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || seen == "abc-123" {
		t.Errorf("expected a generated id, got %q", seen)
	}
}

func TestRateLimit(t *testing.T) {
	lim := rate.NewLimiter(1, time.Minute, rate.Every(time.Hour))
	defer lim.Stop()

	h := web.WrapMiddleware([]web.Middleware{Errors(quietLog()), RateLimit(lim)},
		func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		})

	r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	if w := serve(t, h, r); w.Code != http.StatusNoContent {
		t.Fatalf("first call: expected %d, got %d", http.StatusNoContent, w.Code)
	}
	if w := serve(t, h, r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second call: expected %d, got %d", http.StatusTooManyRequests, w.Code)
	}
}
