package course

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/irsalhamdi/coursehub/validate"
)

// Repository owns the Course aggregate and enforces the hierarchy rules
// on top of a Store.
type Repository struct {
	store Store
	now   func() time.Time
}

func NewRepository(store Store) *Repository {
	return &Repository{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repository) CreateCourse(ctx context.Context, cn CourseNew) (string, error) {
	if blank(cn.Title) {
		return "", invalid("title", "is required")
	}

	seen := make(map[int]bool, len(cn.Chapters))
	chapters := make([]Chapter, 0, len(cn.Chapters))
	for i, chn := range cn.Chapters {
		if chn.Number == nil {
			return "", invalid(fmt.Sprintf("chapters[%d].number", i), "is required")
		}
		if blank(chn.Title) {
			return "", invalid(fmt.Sprintf("chapters[%d].title", i), "is required")
		}
		if seen[*chn.Number] {
			return "", fmt.Errorf("chapter[%d] repeated in request: %w", *chn.Number, ErrChapterExists)
		}
		seen[*chn.Number] = true

		exists, err := r.store.ChapterExists(ctx, *chn.Number)
		if err != nil {
			return "", fmt.Errorf("checking chapter[%d]: %w", *chn.Number, err)
		}
		if exists {
			return "", fmt.Errorf("chapter[%d]: %w", *chn.Number, ErrChapterExists)
		}

		videos := make([]Video, 0, len(chn.Videos))
		for j, vn := range chn.Videos {
			v, err := newVideo(fmt.Sprintf("chapters[%d].videos[%d].", i, j), vn)
			if err != nil {
				return "", err
			}
			videos = append(videos, v)
		}

		chapters = append(chapters, Chapter{Number: *chn.Number, Title: chn.Title, Videos: videos})
	}

	now := r.now()
	c := Course{
		ID:          validate.GenerateID(),
		Title:       cn.Title,
		Description: cn.Description,
		Chapters:    chapters,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	if err := r.store.Create(ctx, c); err != nil {
		return "", fmt.Errorf("creating course: %w", err)
	}
	return c.ID, nil
}

func (r *Repository) ListCourses(ctx context.Context) ([]Course, error) {
	courses, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// ListCourseSummaries fails with ErrNoCourses when there is nothing to
// list.
func (r *Repository) ListCourseSummaries(ctx context.Context) ([]Summary, error) {
	courses, err := r.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrNoCourses
	}

	out := make([]Summary, len(courses))
	for i, c := range courses {
		out[i] = Summary{ID: c.ID, Title: c.Title, Description: c.Description, Chapters: c.Chapters}
	}
	return out, nil
}

func (r *Repository) Course(ctx context.Context, courseID string) (Course, error) {
	if validate.CheckID(courseID) != nil {
		return Course{}, fmt.Errorf("course[%s]: %w", courseID, ErrCourseNotFound)
	}
	c, err := r.store.Fetch(ctx, courseID)
	if err != nil {
		return Course{}, fmt.Errorf("fetching course[%s]: %w", courseID, err)
	}
	return c, nil
}

func (r *Repository) CourseDetails(ctx context.Context, courseID string) (Details, error) {
	c, err := r.Course(ctx, courseID)
	if err != nil {
		return Details{}, err
	}
	return Details{Title: c.Title, Description: c.Description, TotalChapters: len(c.Chapters)}, nil
}

func (r *Repository) Chapters(ctx context.Context, courseID string) ([]Chapter, error) {
	c, err := r.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return c.Chapters, nil
}

// UpdateCourse applies the non-nil fields of up.
func (r *Repository) UpdateCourse(ctx context.Context, courseID string, up CourseUp) (Course, error) {
	if up.Title != nil && blank(*up.Title) {
		return Course{}, invalid("title", "must not be empty")
	}

	var out Course
	err := r.mutate(ctx, courseID, func(c *Course) error {
		if up.Title != nil {
			c.Title = *up.Title
		}
		if up.Description != nil {
			c.Description = *up.Description
		}
		out = *c
		return nil
	})
	if err != nil {
		return Course{}, err
	}
	return out, nil
}

func (r *Repository) DeleteCourse(ctx context.Context, courseID string) error {
	if validate.CheckID(courseID) != nil {
		return fmt.Errorf("course[%s]: %w", courseID, ErrCourseNotFound)
	}
	if err := r.store.Delete(ctx, courseID); err != nil {
		return fmt.Errorf("deleting course[%s]: %w", courseID, err)
	}
	return nil
}

func (r *Repository) AddChapter(ctx context.Context, courseID string, number int, title string) error {
	if blank(title) {
		return invalid("title", "is required")
	}

	exists, err := r.store.ChapterExists(ctx, number)
	if err != nil {
		return fmt.Errorf("checking chapter[%d]: %w", number, err)
	}
	if exists {
		// A missing course still reports as not found.
		if _, err := r.Course(ctx, courseID); err != nil {
			return err
		}
		return fmt.Errorf("chapter[%d]: %w", number, ErrChapterExists)
	}

	return r.mutate(ctx, courseID, func(c *Course) error {
		if c.chapter(number) >= 0 {
			return fmt.Errorf("chapter[%d]: %w", number, ErrChapterExists)
		}
		c.Chapters = append(c.Chapters, Chapter{Number: number, Title: title, Videos: []Video{}})
		return nil
	})
}

func (r *Repository) RenameChapter(ctx context.Context, courseID string, number int, title string) error {
	if blank(title) {
		return invalid("title", "is required")
	}

	return r.mutate(ctx, courseID, func(c *Course) error {
		i := c.chapter(number)
		if i < 0 {
			return fmt.Errorf("chapter[%d]: %w", number, ErrChapterNotFound)
		}
		c.Chapters[i].Title = title
		return nil
	})
}

// RemoveChapter deletes the chapter and its videos. Removing a chapter
// that does not exist succeeds.
func (r *Repository) RemoveChapter(ctx context.Context, courseID string, number int) error {
	return r.mutate(ctx, courseID, func(c *Course) error {
		i := c.chapter(number)
		if i < 0 {
			return ErrUnchanged
		}
		c.Chapters = append(c.Chapters[:i], c.Chapters[i+1:]...)
		return nil
	})
}

func (r *Repository) AddVideo(ctx context.Context, courseID string, number int, vn VideoNew) (Video, error) {
	v, err := newVideo("", vn)
	if err != nil {
		return Video{}, err
	}

	err = r.mutate(ctx, courseID, func(c *Course) error {
		i := c.chapter(number)
		if i < 0 {
			return fmt.Errorf("chapter[%d]: %w", number, ErrChapterNotFound)
		}
		c.Chapters[i].Videos = append(c.Chapters[i].Videos, v)
		return nil
	})
	if err != nil {
		return Video{}, err
	}
	return v, nil
}

func (r *Repository) RenameVideo(ctx context.Context, courseID string, number int, videoID string, title string) (Video, error) {
	if blank(title) {
		return Video{}, invalid("title", "is required")
	}

	var out Video
	err := r.mutate(ctx, courseID, func(c *Course) error {
		i := c.chapter(number)
		if i < 0 {
			return fmt.Errorf("chapter[%d]: %w", number, ErrChapterNotFound)
		}
		ch := &c.Chapters[i]
		j := ch.video(videoID)
		if j < 0 {
			return fmt.Errorf("video[%s] in chapter[%d]: %w", videoID, number, ErrVideoNotFound)
		}
		ch.Videos[j].Title = title
		out = ch.Videos[j]
		return nil
	})
	if err != nil {
		return Video{}, err
	}
	return out, nil
}

// RemoveVideo deletes the video from the chapter. The course and the
// chapter must exist; the video need not.
func (r *Repository) RemoveVideo(ctx context.Context, courseID string, number int, videoID string) error {
	return r.mutate(ctx, courseID, func(c *Course) error {
		i := c.chapter(number)
		if i < 0 {
			return fmt.Errorf("chapter[%d]: %w", number, ErrChapterNotFound)
		}
		ch := &c.Chapters[i]
		j := ch.video(videoID)
		if j < 0 {
			return ErrUnchanged
		}
		ch.Videos = append(ch.Videos[:j], ch.Videos[j+1:]...)
		return nil
	})
}

func (r *Repository) VideosPage(ctx context.Context, courseID string, number int, page, limit int) (Page[Video], error) {
	c, err := r.Course(ctx, courseID)
	if err != nil {
		return Page[Video]{}, err
	}
	i := c.chapter(number)
	if i < 0 {
		return Page[Video]{}, fmt.Errorf("chapter[%d] of course[%s]: %w", number, courseID, ErrChapterNotFound)
	}
	return Paginate(c.Chapters[i].Videos, page, limit), nil
}

// FindVideo looks a video up across every course and chapter. The store
// answers it with a full scan, so it gets slower as the catalog grows.
func (r *Repository) FindVideo(ctx context.Context, videoID string) (Video, error) {
	if validate.CheckID(videoID) != nil {
		return Video{}, fmt.Errorf("video[%s]: %w", videoID, ErrVideoNotFound)
	}
	v, err := r.store.FindVideo(ctx, videoID)
	if err != nil {
		return Video{}, fmt.Errorf("finding video[%s]: %w", videoID, err)
	}
	return v, nil
}

func (r *Repository) mutate(ctx context.Context, courseID string, fn func(*Course) error) error {
	if validate.CheckID(courseID) != nil {
		return fmt.Errorf("course[%s]: %w", courseID, ErrCourseNotFound)
	}

	err := r.store.Mutate(ctx, courseID, func(c *Course) error {
		if err := fn(c); err != nil {
			return err
		}
		c.UpdatedAt = r.now()
		return nil
	})
	if errors.Is(err, ErrUnchanged) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("updating course[%s]: %w", courseID, err)
	}
	return nil
}

// newVideo checks vn and assigns the video its id. prefix locates the
// video inside a larger request.
func newVideo(prefix string, vn VideoNew) (Video, error) {
	if blank(vn.URL) {
		return Video{}, invalid(prefix+"url", "is required")
	}
	if blank(vn.Title) {
		return Video{}, invalid(prefix+"title", "is required")
	}
	return Video{
		ID:          validate.GenerateID(),
		URL:         vn.URL,
		Title:       vn.Title,
		Description: vn.Description,
		Thumbnail:   vn.Thumbnail,
	}, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
