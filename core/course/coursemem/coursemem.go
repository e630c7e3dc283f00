// Package coursemem keeps courses in process memory. It honors the same
// contract as the Postgres store and backs tests and single-node runs.
package coursemem

import (
	"context"
	"fmt"
	"sync"

	"github.com/irsalhamdi/coursehub/core/course"
)

type entry struct {
	mu      sync.Mutex
	course  course.Course
	deleted bool
}

type Store struct {
	mu      sync.RWMutex
	courses map[string]*entry
	order   []string
	// numbers maps every chapter number in use to its course.
	numbers map[int]string
}

func New() *Store {
	return &Store{
		courses: make(map[string]*entry),
		numbers: make(map[int]string),
	}
}

func (s *Store) Create(ctx context.Context, c course.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[c.ID]; ok {
		return fmt.Errorf("course[%s] already stored", c.ID)
	}
	for _, ch := range c.Chapters {
		if _, ok := s.numbers[ch.Number]; ok {
			return fmt.Errorf("chapter[%d]: %w", ch.Number, course.ErrChapterExists)
		}
	}

	for _, ch := range c.Chapters {
		s.numbers[ch.Number] = c.ID
	}
	s.courses[c.ID] = &entry{course: c.Clone()}
	s.order = append(s.order, c.ID)
	return nil
}

func (s *Store) List(ctx context.Context) ([]course.Course, error) {
	s.mu.RLock()
	entries := make([]*entry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.courses[id])
	}
	s.mu.RUnlock()

	out := make([]course.Course, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted {
			out = append(out, e.course.Clone())
		}
		e.mu.Unlock()
	}
	return out, nil
}

func (s *Store) Fetch(ctx context.Context, id string) (course.Course, error) {
	e, err := s.entry(id)
	if err != nil {
		return course.Course{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return course.Course{}, course.ErrCourseNotFound
	}
	return e.course.Clone(), nil
}

// Mutate holds the course lock for the whole callback. The chapter
// index is checked and updated under the store lock right before the
// new state is swapped in.
func (s *Store) Mutate(ctx context.Context, id string, fn func(*course.Course) error) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return course.ErrCourseNotFound
	}

	next := e.course.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	next.Version = e.course.Version + 1

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range next.Chapters {
		if owner, ok := s.numbers[ch.Number]; ok && owner != id {
			return fmt.Errorf("chapter[%d]: %w", ch.Number, course.ErrChapterExists)
		}
	}
	for _, ch := range e.course.Chapters {
		delete(s.numbers, ch.Number)
	}
	for _, ch := range next.Chapters {
		s.numbers[ch.Number] = id
	}

	e.course = next
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return course.ErrCourseNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range e.course.Chapters {
		delete(s.numbers, ch.Number)
	}
	delete(s.courses, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	e.deleted = true
	return nil
}

func (s *Store) ChapterExists(ctx context.Context, number int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.numbers[number]
	return ok, nil
}

func (s *Store) FindVideo(ctx context.Context, videoID string) (course.Video, error) {
	courses, err := s.List(ctx)
	if err != nil {
		return course.Video{}, err
	}

	for _, c := range courses {
		for _, ch := range c.Chapters {
			for _, v := range ch.Videos {
				if v.ID == videoID {
					return v, nil
				}
			}
		}
	}
	return course.Video{}, course.ErrVideoNotFound
}

func (s *Store) entry(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.courses[id]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return e, nil
}
