package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs every failed request and renders its response. Errors
// without a response attached become a generic 500 so internals never
// reach the caller.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := logrus.Fields{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			body, code, ok := weberr.Response(err)
			if !ok {
				body, code = &weberr.ErrorResponse{Message: "Internal server error"}, http.StatusInternalServerError
			}
			fields["status"] = code

			if code >= http.StatusInternalServerError {
				log.WithFields(fields).Error("ERROR")
			} else {
				log.WithFields(fields).Warn("request failed")
			}

			return web.Respond(ctx, w, body, code)
		}
		return h
	}
	return m
}
