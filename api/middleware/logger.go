package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/sirupsen/logrus"
	"github.com/zenazn/goji/web/mutil"
)

// Logger records one line per request. Server errors log at Error so
// they stand out from routine traffic.
func Logger(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			entry := log.WithFields(logrus.Fields{
				"req_id": ContextRequestID(ctx),
				"method": r.Method,
				"path":   r.URL.Path,
				"remote": r.RemoteAddr,
			})
			if r.URL.RawQuery != "" {
				entry = entry.WithField("query", r.URL.RawQuery)
			}

			start := time.Now()
			lw := mutil.WrapWriter(w)
			err := handler(ctx, lw, r)

			entry = entry.WithFields(logrus.Fields{
				"status":  lw.Status(),
				"bytes":   lw.BytesWritten(),
				"elapsed": time.Since(start).String(),
			})
			if lw.Status() >= http.StatusInternalServerError {
				entry.Error("request completed")
			} else {
				entry.Info("request completed")
			}
			return err
		}
		return h
	}
	return m
}
