package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/irsalhamdi/coursehub/api/middleware"
	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/core/auth"
	"github.com/irsalhamdi/coursehub/core/course"
	"github.com/irsalhamdi/coursehub/core/policy"
	"github.com/irsalhamdi/coursehub/core/user"
	"github.com/irsalhamdi/coursehub/rate"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Courses    *course.Repository
	Tokens     *auth.Tokens
	// EnforcePolicy gates every course route behind the access policy.
	EnforcePolicy bool
	AdminKey      string
	// AuthLimiter throttles the signup and login routes. Nil disables it.
	AuthLimiter *rate.Limiter
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	var throttle web.Middleware
	if cfg.AuthLimiter != nil {
		throttle = middleware.RateLimit(cfg.AuthLimiter)
	}

	authen := auth.Authenticate(cfg.Tokens)
	catalog := auth.Require(cfg.Tokens, policy.ReadCatalog, cfg.EnforcePolicy)
	read := auth.Require(cfg.Tokens, policy.ReadContent, cfg.EnforcePolicy)
	manage := auth.Require(cfg.Tokens, policy.ManageContent, cfg.EnforcePolicy)
	admin := auth.Require(cfg.Tokens, policy.ManageUsers, true)

	health := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, struct {
			Status string `json:"status"`
		}{"ok"}, http.StatusOK)
	}
	a.Handle(http.MethodGet, "/health", health)

	a.Handle(http.MethodPost, "/auth/signup", auth.HandleSignup(cfg.DB), throttle)
	a.Handle(http.MethodPost, "/auth/admin-signup", auth.HandleAdminSignup(cfg.DB, cfg.AdminKey), throttle)
	a.Handle(http.MethodPost, "/auth/login", auth.HandleLogin(cfg.DB, cfg.Tokens), throttle)

	a.Handle(http.MethodGet, "/users/current", user.HandleShowCurrent(cfg.DB), authen)
	a.Handle(http.MethodPut, "/users/{id}/paid", user.HandleUpdatePaid(cfg.DB), admin)

	repo := cfg.Courses

	// Static segments are registered before the {courseId} patterns.
	a.Handle(http.MethodGet, "/courses/getcourses", course.HandleListSummaries(repo), catalog)
	a.Handle(http.MethodGet, "/courses/videos/{videoId}", course.HandleFindVideo(repo), read)
	a.Handle(http.MethodGet, "/courses", course.HandleList(repo), catalog)
	a.Handle(http.MethodPost, "/courses", course.HandleCreate(repo), manage)

	a.Handle(http.MethodGet, "/courses/{courseId}/details", course.HandleDetails(repo), read)
	a.Handle(http.MethodPut, "/courses/{courseId}", course.HandleUpdate(repo), manage)
	a.Handle(http.MethodDelete, "/courses/{courseId}", course.HandleDelete(repo), manage)

	a.Handle(http.MethodGet, "/courses/{courseId}/chapters", course.HandleChapters(repo), read)
	a.Handle(http.MethodPost, "/courses/{courseId}/chapter", course.HandleAddChapter(repo), manage)
	a.Handle(http.MethodPut, "/courses/{courseId}/chapter/{chapterNumber}/title", course.HandleRenameChapter(repo), manage)
	a.Handle(http.MethodDelete, "/courses/{courseId}/chapter/{chapterNumber}", course.HandleRemoveChapter(repo), manage)

	a.Handle(http.MethodGet, "/courses/{courseId}/chapter/{chapterNumber}/videos", course.HandleVideosPage(repo), read)
	a.Handle(http.MethodPost, "/courses/{courseId}/chapter/{chapterNumber}/video", course.HandleAddVideo(repo), manage)
	a.Handle(http.MethodPut, "/courses/{courseId}/chapter/{chapterNumber}/video/{videoId}", course.HandleRenameVideo(repo), manage)
	a.Handle(http.MethodDelete, "/courses/{courseId}/chapter/{chapterNumber}/video/{videoId}", course.HandleRemoveVideo(repo), manage)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
