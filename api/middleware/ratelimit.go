package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/api/weberr"
	"github.com/irsalhamdi/coursehub/rate"
)

// RateLimit throttles callers by remote address.
func RateLimit(lim *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !lim.Allow(host) {
				return weberr.TooManyRequests(errors.New("client " + host + " exceeded its rate"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
