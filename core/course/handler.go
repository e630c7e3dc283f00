package course

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/coursehub/api/web"
	"github.com/irsalhamdi/coursehub/api/weberr"
	"github.com/irsalhamdi/coursehub/validate"
)

// webErr maps repository failures onto HTTP responses. Anything it does
// not recognise is left for the Errors middleware to answer with a 500.
func webErr(err error, fields map[string]any) error {
	opt := weberr.WithFields(fields)
	switch {
	case errors.Is(err, ErrNoCourses):
		return weberr.NotFound(err, "No courses found", opt)
	case errors.Is(err, ErrCourseNotFound):
		return weberr.NotFound(err, "Course not found", opt)
	case errors.Is(err, ErrChapterNotFound):
		return weberr.NotFound(err, "Chapter not found", opt)
	case errors.Is(err, ErrVideoNotFound):
		return weberr.NotFound(err, "Video not found", opt)
	case errors.Is(err, ErrChapterExists):
		return weberr.Conflict(err, "Chapter number already exists", opt)
	case IsValidation(err):
		return weberr.BadRequest(err, opt)
	}
	return err
}

func decode(w http.ResponseWriter, r *http.Request, val any) error {
	if err := web.Decode(w, r, val); err != nil {
		return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}
	if err := validate.Check(val); err != nil {
		return weberr.BadRequest(err)
	}
	return nil
}

func chapterNumber(r *http.Request) (int, error) {
	n, err := web.ParamInt(r, "chapterNumber")
	if err != nil {
		return 0, weberr.BadRequest(err)
	}
	return n, nil
}

func HandleList(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courses, err := repo.ListCourses(ctx)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, courses, http.StatusOK)
	}
}

func HandleListSummaries(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		summaries, err := repo.ListCourseSummaries(ctx)
		if err != nil {
			return webErr(err, nil)
		}
		return web.Respond(ctx, w, struct {
			Courses []Summary `json:"courses"`
		}{summaries}, http.StatusOK)
	}
}

func HandleCreate(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cn CourseNew
		if err := decode(w, r, &cn); err != nil {
			return err
		}

		id, err := repo.CreateCourse(ctx, cn)
		if err != nil {
			return webErr(err, nil)
		}

		return web.Respond(ctx, w, struct {
			Message string `json:"message"`
			ID      string `json:"id"`
		}{"Course added successfully", id}, http.StatusCreated)
	}
}

func HandleUpdate(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")

		var up CourseUp
		if err := decode(w, r, &up); err != nil {
			return err
		}

		c, err := repo.UpdateCourse(ctx, courseID, up)
		if err != nil {
			return webErr(err, map[string]any{"course_id": courseID})
		}
		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")

		if err := repo.DeleteCourse(ctx, courseID); err != nil {
			return webErr(err, map[string]any{"course_id": courseID})
		}
		return web.RespondMessage(ctx, w, "Course removed successfully", http.StatusOK)
	}
}

func HandleDetails(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")

		d, err := repo.CourseDetails(ctx, courseID)
		if err != nil {
			return webErr(err, map[string]any{"course_id": courseID})
		}
		return web.Respond(ctx, w, d, http.StatusOK)
	}
}

func HandleChapters(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")

		chapters, err := repo.Chapters(ctx, courseID)
		if err != nil {
			return webErr(err, map[string]any{"course_id": courseID})
		}
		return web.Respond(ctx, w, struct {
			Chapters []Chapter `json:"chapters"`
		}{chapters}, http.StatusOK)
	}
}

func HandleAddChapter(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")

		var chn ChapterNew
		if err := decode(w, r, &chn); err != nil {
			return err
		}

		if err := repo.AddChapter(ctx, courseID, *chn.Number, chn.Title); err != nil {
			return webErr(err, map[string]any{"course_id": courseID, "chapter": *chn.Number})
		}
		return web.RespondMessage(ctx, w, "Chapter added successfully", http.StatusCreated)
	}
}

func HandleRenameChapter(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")
		number, err := chapterNumber(r)
		if err != nil {
			return err
		}

		var up TitleUp
		if err := decode(w, r, &up); err != nil {
			return err
		}

		if err := repo.RenameChapter(ctx, courseID, number, up.Title); err != nil {
			return webErr(err, map[string]any{"course_id": courseID, "chapter": number})
		}
		return web.RespondMessage(ctx, w, "Chapter title updated successfully", http.StatusOK)
	}
}

func HandleRemoveChapter(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")
		number, err := chapterNumber(r)
		if err != nil {
			return err
		}

		if err := repo.RemoveChapter(ctx, courseID, number); err != nil {
			return webErr(err, map[string]any{"course_id": courseID, "chapter": number})
		}
		return web.RespondMessage(ctx, w, "Chapter removed successfully", http.StatusOK)
	}
}

func HandleAddVideo(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")
		number, err := chapterNumber(r)
		if err != nil {
			return err
		}

		var vn VideoNew
		if err := decode(w, r, &vn); err != nil {
			return err
		}

		v, err := repo.AddVideo(ctx, courseID, number, vn)
		if err != nil {
			return webErr(err, map[string]any{"course_id": courseID, "chapter": number})
		}
		return web.Respond(ctx, w, struct {
			Message string `json:"message"`
			Video   Video  `json:"video"`
		}{"Video added successfully", v}, http.StatusCreated)
	}
}

func HandleRenameVideo(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")
		videoID := web.Param(r, "videoId")
		number, err := chapterNumber(r)
		if err != nil {
			return err
		}

		var up TitleUp
		if err := decode(w, r, &up); err != nil {
			return err
		}

		v, err := repo.RenameVideo(ctx, courseID, number, videoID, up.Title)
		if err != nil {
			return webErr(err, map[string]any{"course_id": courseID, "chapter": number, "video_id": videoID})
		}
		return web.Respond(ctx, w, struct {
			Message string `json:"message"`
			Video   Video  `json:"video"`
		}{"Video title updated successfully", v}, http.StatusOK)
	}
}

func HandleRemoveVideo(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")
		videoID := web.Param(r, "videoId")
		number, err := chapterNumber(r)
		if err != nil {
			return err
		}

		if err := repo.RemoveVideo(ctx, courseID, number, videoID); err != nil {
			return webErr(err, map[string]any{"course_id": courseID, "chapter": number, "video_id": videoID})
		}
		return web.RespondMessage(ctx, w, "Video removed successfully", http.StatusOK)
	}
}

func HandleVideosPage(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		courseID := web.Param(r, "courseId")
		number, err := chapterNumber(r)
		if err != nil {
			return err
		}

		page, err := web.QueryInt(r, "page", DefaultPage)
		if err != nil {
			return weberr.BadRequest(err)
		}
		limit, err := web.QueryInt(r, "limit", DefaultLimit)
		if err != nil {
			return weberr.BadRequest(err)
		}

		p, err := repo.VideosPage(ctx, courseID, number, page, limit)
		if err != nil {
			return webErr(err, map[string]any{"course_id": courseID, "chapter": number})
		}

		return web.Respond(ctx, w, VideoPage{
			TotalVideos: p.TotalItems,
			TotalPages:  p.TotalPages,
			CurrentPage: p.CurrentPage,
			Videos:      p.Items,
		}, http.StatusOK)
	}
}

func HandleFindVideo(repo *Repository) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		videoID := web.Param(r, "videoId")

		v, err := repo.FindVideo(ctx, videoID)
		if err != nil {
			return webErr(err, map[string]any{"video_id": videoID})
		}
		return web.Respond(ctx, w, v, http.StatusOK)
	}
}
