// Package coursedb stores courses in Postgres. Chapters and videos live
// in their own tables and are rewritten as a unit whenever their course
// changes.
package coursedb

import (
	"context"
	"errors"
	"fmt"

	"github.com/irsalhamdi/coursehub/core/course"
	"github.com/irsalhamdi/coursehub/database"
	"github.com/jmoiron/sqlx"
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type dbChapter struct {
	CourseID string `db:"course_id"`
	Number   int    `db:"number"`
	Title    string `db:"title"`
	Position int    `db:"position"`
}

type dbVideo struct {
	ChapterNumber int    `db:"chapter_number"`
	ID            string `db:"video_id"`
	URL           string `db:"url"`
	Title         string `db:"title"`
	Description   string `db:"description"`
	Thumbnail     string `db:"thumbnail"`
	Position      int    `db:"position"`
}

func (s *Store) Create(ctx context.Context, c course.Course) error {
	return database.Transaction(ctx, s.db, func(tx sqlx.ExtContext) error {
		const q = `
		INSERT INTO courses (course_id, title, description, created_at, updated_at, version)
		VALUES (:course_id, :title, :description, :created_at, :updated_at, :version)`

		if err := database.NamedExecContext(ctx, tx, q, c); err != nil {
			return fmt.Errorf("inserting course: %w", err)
		}
		return insertChapters(ctx, tx, c)
	})
}

func (s *Store) List(ctx context.Context) ([]course.Course, error) {
	const qc = `
	SELECT course_id, title, description, created_at, updated_at, version
	FROM courses
	ORDER BY created_at, course_id`

	var courses []course.Course
	if err := database.SelectContext(ctx, s.db, &courses, qc); err != nil {
		return nil, fmt.Errorf("selecting courses: %w", err)
	}

	const qch = `
	SELECT course_id, number, title, position
	FROM chapters
	ORDER BY course_id, position`

	var chapters []dbChapter
	if err := database.SelectContext(ctx, s.db, &chapters, qch); err != nil {
		return nil, fmt.Errorf("selecting chapters: %w", err)
	}

	const qv = `
	SELECT chapter_number, video_id, url, title, description, thumbnail, position
	FROM videos
	ORDER BY chapter_number, position`

	var videos []dbVideo
	if err := database.SelectContext(ctx, s.db, &videos, qv); err != nil {
		return nil, fmt.Errorf("selecting videos: %w", err)
	}

	byCourse := make(map[string][]dbChapter)
	for _, ch := range chapters {
		byCourse[ch.CourseID] = append(byCourse[ch.CourseID], ch)
	}
	for i := range courses {
		courses[i].Chapters = assemble(byCourse[courses[i].ID], videos)
	}

	if courses == nil {
		courses = []course.Course{}
	}
	return courses, nil
}

func (s *Store) Fetch(ctx context.Context, id string) (course.Course, error) {
	return fetch(ctx, s.db, id, false)
}

// Mutate locks the course row for the length of the transaction, so
// writers of the same course queue up while other courses proceed.
func (s *Store) Mutate(ctx context.Context, id string, fn func(*course.Course) error) error {
	return database.Transaction(ctx, s.db, func(tx sqlx.ExtContext) error {
		c, err := fetch(ctx, tx, id, true)
		if err != nil {
			return err
		}

		if err := fn(&c); err != nil {
			return err
		}

		const q = `
		UPDATE courses SET
			title = :title,
			description = :description,
			updated_at = :updated_at,
			version = version + 1
		WHERE course_id = :course_id`

		if err := database.NamedExecContext(ctx, tx, q, c); err != nil {
			return fmt.Errorf("updating course: %w", err)
		}

		const qd = `DELETE FROM chapters WHERE course_id = $1`
		if _, err := database.ExecContext(ctx, tx, qd, id); err != nil {
			return fmt.Errorf("clearing chapters: %w", err)
		}

		return insertChapters(ctx, tx, c)
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM courses WHERE course_id = $1`

	n, err := database.ExecContext(ctx, s.db, q, id)
	if err != nil {
		return fmt.Errorf("deleting course: %w", err)
	}
	if n == 0 {
		return course.ErrCourseNotFound
	}
	return nil
}

func (s *Store) ChapterExists(ctx context.Context, number int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM chapters WHERE number = $1)`

	var exists bool
	if err := database.GetContext(ctx, s.db, &exists, q, number); err != nil {
		return false, err
	}
	return exists, nil
}

// FindVideo has no index to use: the videos key leads with the chapter
// number, so Postgres walks the table.
func (s *Store) FindVideo(ctx context.Context, videoID string) (course.Video, error) {
	const q = `
	SELECT v.chapter_number, v.video_id, v.url, v.title, v.description, v.thumbnail, v.position
	FROM videos v
	JOIN chapters ch ON ch.number = v.chapter_number
	JOIN courses c ON c.course_id = ch.course_id
	WHERE v.video_id = $1
	ORDER BY c.created_at, c.course_id, ch.position, v.position
	LIMIT 1`

	var v dbVideo
	if err := database.GetContext(ctx, s.db, &v, q, videoID); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return course.Video{}, course.ErrVideoNotFound
		}
		return course.Video{}, err
	}
	return v.toVideo(), nil
}

func fetch(ctx context.Context, db sqlx.ExtContext, id string, lock bool) (course.Course, error) {
	q := `
	SELECT course_id, title, description, created_at, updated_at, version
	FROM courses
	WHERE course_id = $1`
	if lock {
		q += ` FOR UPDATE`
	}

	var c course.Course
	if err := database.GetContext(ctx, db, &c, q, id); err != nil {
		if errors.Is(err, database.ErrDBNotFound) {
			return course.Course{}, course.ErrCourseNotFound
		}
		return course.Course{}, fmt.Errorf("selecting course: %w", err)
	}

	const qch = `
	SELECT course_id, number, title, position
	FROM chapters
	WHERE course_id = $1
	ORDER BY position`

	var chapters []dbChapter
	if err := database.SelectContext(ctx, db, &chapters, qch, id); err != nil {
		return course.Course{}, fmt.Errorf("selecting chapters: %w", err)
	}

	const qv = `
	SELECT v.chapter_number, v.video_id, v.url, v.title, v.description, v.thumbnail, v.position
	FROM videos v
	JOIN chapters ch ON ch.number = v.chapter_number
	WHERE ch.course_id = $1
	ORDER BY v.chapter_number, v.position`

	var videos []dbVideo
	if err := database.SelectContext(ctx, db, &videos, qv, id); err != nil {
		return course.Course{}, fmt.Errorf("selecting videos: %w", err)
	}

	c.Chapters = assemble(chapters, videos)
	return c, nil
}

func insertChapters(ctx context.Context, tx sqlx.ExtContext, c course.Course) error {
	const qch = `
	INSERT INTO chapters (number, course_id, title, position)
	VALUES (:number, :course_id, :title, :position)`

	const qv = `
	INSERT INTO videos (chapter_number, video_id, url, title, description, thumbnail, position)
	VALUES (:chapter_number, :video_id, :url, :title, :description, :thumbnail, :position)`

	for i, ch := range c.Chapters {
		row := dbChapter{CourseID: c.ID, Number: ch.Number, Title: ch.Title, Position: i}
		if err := database.NamedExecContext(ctx, tx, qch, row); err != nil {
			if errors.Is(err, database.ErrDBDuplicatedEntry) {
				return fmt.Errorf("chapter[%d]: %w", ch.Number, course.ErrChapterExists)
			}
			return fmt.Errorf("inserting chapter[%d]: %w", ch.Number, err)
		}

		for j, v := range ch.Videos {
			row := dbVideo{
				ChapterNumber: ch.Number,
				ID:            v.ID,
				URL:           v.URL,
				Title:         v.Title,
				Description:   v.Description,
				Thumbnail:     v.Thumbnail,
				Position:      j,
			}
			if err := database.NamedExecContext(ctx, tx, qv, row); err != nil {
				return fmt.Errorf("inserting video[%s]: %w", v.ID, err)
			}
		}
	}
	return nil
}

// assemble nests videos under their chapters, keeping both in position
// order.
func assemble(chapters []dbChapter, videos []dbVideo) []course.Chapter {
	byChapter := make(map[int][]course.Video, len(chapters))
	for _, v := range videos {
		byChapter[v.ChapterNumber] = append(byChapter[v.ChapterNumber], v.toVideo())
	}

	out := make([]course.Chapter, 0, len(chapters))
	for _, ch := range chapters {
		vs := byChapter[ch.Number]
		if vs == nil {
			vs = []course.Video{}
		}
		out = append(out, course.Chapter{Number: ch.Number, Title: ch.Title, Videos: vs})
	}
	return out
}

func (v dbVideo) toVideo() course.Video {
	return course.Video{
		ID:          v.ID,
		URL:         v.URL,
		Title:       v.Title,
		Description: v.Description,
		Thumbnail:   v.Thumbnail,
	}
}
