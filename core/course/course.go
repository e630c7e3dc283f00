package course

import "time"

type Course struct {
	ID          string    `json:"id" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Chapters    []Chapter `json:"chapters" db:"-"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
	Version     int       `json:"-" db:"version"`
}

type Chapter struct {
	Number int     `json:"number" db:"number"`
	Title  string  `json:"title" db:"title"`
	Videos []Video `json:"videos" db:"-"`
}

type Video struct {
	ID          string `json:"id" db:"video_id"`
	URL         string `json:"url" db:"url"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	Thumbnail   string `json:"thumbnail,omitempty" db:"thumbnail"`
}

type CourseNew struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Chapters    []ChapterNew `json:"chapters" validate:"dive"`
}

type CourseUp struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

type ChapterNew struct {
	Number *int       `json:"number" validate:"required"`
	Title  string     `json:"title" validate:"required"`
	Videos []VideoNew `json:"videos" validate:"dive"`
}

type VideoNew struct {
	URL         string `json:"url" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

type TitleUp struct {
	Title string `json:"title" validate:"required"`
}

type Summary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
}

type Details struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TotalChapters int    `json:"totalChapters"`
}

// chapter returns the index of the chapter with the given number, or -1.
func (c *Course) chapter(number int) int {
	for i := range c.Chapters {
		if c.Chapters[i].Number == number {
			return i
		}
	}
	return -1
}

func (ch *Chapter) video(id string) int {
	for i := range ch.Videos {
		if ch.Videos[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the course.
func (c Course) Clone() Course {
	out := c
	out.Chapters = make([]Chapter, len(c.Chapters))
	for i, ch := range c.Chapters {
		out.Chapters[i] = ch
		out.Chapters[i].Videos = append([]Video(nil), ch.Videos...)
		if out.Chapters[i].Videos == nil {
			out.Chapters[i].Videos = []Video{}
		}
	}
	return out
}
