package course

import "context"

// Store persists Course aggregates. Implementations must run Mutate as
// one atomic read-modify-write per course, serialize concurrent Mutate
// calls on the same course without blocking other courses, and reject
// a chapter number already owned by another course with
// ErrChapterExists at commit time.
type Store interface {
	Create(ctx context.Context, c Course) error
	List(ctx context.Context) ([]Course, error)
	Fetch(ctx context.Context, id string) (Course, error)
	Mutate(ctx context.Context, id string, fn func(*Course) error) error
	Delete(ctx context.Context, id string) error
	ChapterExists(ctx context.Context, number int) (bool, error)

	// FindVideo scans every course for the video. The first match in
	// course creation order wins.
	FindVideo(ctx context.Context, videoID string) (Video, error)
}
