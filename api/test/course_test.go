package test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/irsalhamdi/coursehub/core/course"
)

type courseTest struct {
	*TestEnv
	admin string
	paid  string
}

func newCourseTest(t *testing.T) *courseTest {
	env := NewTestEnv(t)
	admin := env.AdminToken(t)

	id := env.Signup(t, false, "Pat Paid", "pat@example.com", "pat-password")
	if code := env.Do(t, http.MethodPut, "/users/"+id+"/paid", admin, nil, map[string]any{"isPaid": true}, nil); code != http.StatusOK {
		t.Fatalf("marking paid: status %d", code)
	}

	return &courseTest{
		TestEnv: env,
		admin:   admin,
		paid:    env.Login(t, "pat@example.com", "pat-password").Token,
	}
}

func (ct *courseTest) createCourseOK(t *testing.T, title string, chapters ...map[string]any) string {
	t.Helper()

	body := map[string]any{"title": title, "description": title + " course"}
	if len(chapters) > 0 {
		body["chapters"] = chapters
	}

	var resp struct {
		ID string `json:"id"`
	}
	if code := ct.Do(t, http.MethodPost, "/courses", ct.admin, nil, body, &resp); code != http.StatusCreated {
		t.Fatalf("creating course %q: status %d", title, code)
	}
	return resp.ID
}

func (ct *courseTest) addChapter(t *testing.T, courseID string, number int, title string) int {
	t.Helper()
	body := map[string]any{"number": number, "title": title}
	return ct.Do(t, http.MethodPost, "/courses/"+courseID+"/chapter", ct.admin, nil, body, nil)
}

func (ct *courseTest) addVideoOK(t *testing.T, courseID string, number int, title string) course.Video {
	t.Helper()

	var resp struct {
		Video course.Video `json:"video"`
	}
	body := map[string]any{"url": "https://cdn.example.com/" + title + ".mp4", "title": title, "thumbnail": "https://cdn.example.com/" + title + ".png"}
	path := fmt.Sprintf("/courses/%s/chapter/%d/video", courseID, number)
	if code := ct.Do(t, http.MethodPost, path, ct.admin, nil, body, &resp); code != http.StatusCreated {
		t.Fatalf("adding video %q: status %d", title, code)
	}
	return resp.Video
}

func (ct *courseTest) videosPage(t *testing.T, courseID string, number, page, limit int) course.VideoPage {
	t.Helper()

	var p course.VideoPage
	path := fmt.Sprintf("/courses/%s/chapter/%d/videos?page=%d&limit=%d", courseID, number, page, limit)
	if code := ct.Do(t, http.MethodGet, path, ct.admin, nil, nil, &p); code != http.StatusOK {
		t.Fatalf("listing videos: status %d", code)
	}
	return p
}

func TestCourse(t *testing.T) {
	ct := newCourseTest(t)

	var msg struct {
		Message string `json:"message"`
	}
	if code := ct.Do(t, http.MethodGet, "/courses/getcourses", ct.paid, nil, nil, &msg); code != http.StatusNotFound {
		t.Fatalf("empty catalog: expected %d, got %d", http.StatusNotFound, code)
	}

	algebra := ct.createCourseOK(t, "Algebra", map[string]any{"number": 10, "title": "Preface"})
	other := ct.createCourseOK(t, "Other")

	t.Run("duplicate chapter across courses", func(t *testing.T) {
		if code := ct.addChapter(t, algebra, 1, "Intro"); code != http.StatusCreated {
			t.Fatalf("adding chapter: status %d", code)
		}
		if code := ct.addChapter(t, other, 1, "Dup"); code != http.StatusConflict {
			t.Fatalf("expected %d, got %d", http.StatusConflict, code)
		}
		if code := ct.addChapter(t, other, 10, "Dup"); code != http.StatusConflict {
			t.Fatalf("initial chapter number: expected %d, got %d", http.StatusConflict, code)
		}

		var chapters struct {
			Chapters []course.Chapter `json:"chapters"`
		}
		if code := ct.Do(t, http.MethodGet, "/courses/"+other+"/chapters", ct.admin, nil, nil, &chapters); code != http.StatusOK {
			t.Fatalf("chapters: status %d", code)
		}
		if len(chapters.Chapters) != 0 {
			t.Fatalf("conflict left chapters behind: %+v", chapters.Chapters)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		if code := ct.addChapter(t, other, 2, "Full"); code != http.StatusCreated {
			t.Fatalf("adding chapter: status %d", code)
		}

		p := ct.videosPage(t, algebra, 1, 1, 10)
		if diff := cmp.Diff(course.VideoPage{CurrentPage: 1, Videos: []course.Video{}}, p); diff != "" {
			t.Errorf("empty chapter mismatch (-want +got):\n%s", diff)
		}

		var all []course.Video
		for i := 0; i < 15; i++ {
			all = append(all, ct.addVideoOK(t, other, 2, fmt.Sprintf("lesson-%02d", i)))
		}

		p = ct.videosPage(t, other, 2, 2, 10)
		if p.TotalVideos != 15 || p.TotalPages != 2 || len(p.Videos) != 5 {
			t.Fatalf("unexpected page: %+v", p)
		}

		var got []course.Video
		for page := 1; page <= 4; page++ {
			got = append(got, ct.videosPage(t, other, 2, page, 4).Videos...)
		}
		if diff := cmp.Diff(all, got); diff != "" {
			t.Errorf("pages do not rebuild the chapter (-want +got):\n%s", diff)
		}
	})

	t.Run("rename and find video", func(t *testing.T) {
		v := ct.addVideoOK(t, algebra, 1, "old")

		var resp struct {
			Video course.Video `json:"video"`
		}
		path := fmt.Sprintf("/courses/%s/chapter/1/video/%s", algebra, v.ID)
		if code := ct.Do(t, http.MethodPut, path, ct.admin, nil, map[string]any{"title": "new"}, &resp); code != http.StatusOK {
			t.Fatalf("renaming: status %d", code)
		}
		want := v
		want.Title = "new"
		if diff := cmp.Diff(want, resp.Video); diff != "" {
			t.Errorf("echo mismatch (-want +got):\n%s", diff)
		}

		var found course.Video
		if code := ct.Do(t, http.MethodGet, "/courses/videos/"+v.ID, ct.admin, nil, nil, &found); code != http.StatusOK {
			t.Fatalf("finding: status %d", code)
		}
		if diff := cmp.Diff(want, found); diff != "" {
			t.Errorf("lookup mismatch (-want +got):\n%s", diff)
		}

		path = fmt.Sprintf("/courses/%s/chapter/1/video/%s", algebra, "00000000-0000-0000-0000-000000000000")
		if code := ct.Do(t, http.MethodPut, path, ct.admin, nil, map[string]any{"title": "x"}, nil); code != http.StatusNotFound {
			t.Fatalf("renaming missing video: expected %d, got %d", http.StatusNotFound, code)
		}
	})

	t.Run("idempotent removals", func(t *testing.T) {
		v := ct.addVideoOK(t, algebra, 1, "doomed")
		path := fmt.Sprintf("/courses/%s/chapter/1/video/%s", algebra, v.ID)
		for i := 0; i < 2; i++ {
			if code := ct.Do(t, http.MethodDelete, path, ct.admin, nil, nil, nil); code != http.StatusOK {
				t.Fatalf("video removal %d: status %d", i+1, code)
			}
		}

		for i := 0; i < 2; i++ {
			if code := ct.Do(t, http.MethodDelete, "/courses/"+algebra+"/chapter/5", ct.admin, nil, nil, nil); code != http.StatusOK {
				t.Fatalf("missing chapter removal %d: status %d", i+1, code)
			}
		}
	})

	t.Run("details and summaries", func(t *testing.T) {
		var d course.Details
		if code := ct.Do(t, http.MethodGet, "/courses/"+algebra+"/details", ct.admin, nil, nil, &d); code != http.StatusOK {
			t.Fatalf("details: status %d", code)
		}
		if diff := cmp.Diff(course.Details{Title: "Algebra", Description: "Algebra course", TotalChapters: 2}, d); diff != "" {
			t.Errorf("details mismatch (-want +got):\n%s", diff)
		}

		var resp struct {
			Courses []course.Summary `json:"courses"`
		}
		if code := ct.Do(t, http.MethodGet, "/courses/getcourses", ct.paid, nil, nil, &resp); code != http.StatusOK {
			t.Fatalf("summaries: status %d", code)
		}
		if len(resp.Courses) != 2 || resp.Courses[0].ID != algebra {
			t.Errorf("unexpected summaries: %+v", resp.Courses)
		}
	})

	t.Run("delete cascades", func(t *testing.T) {
		v := ct.addVideoOK(t, other, 2, "orphan")

		if code := ct.Do(t, http.MethodDelete, "/courses/"+other, ct.admin, nil, nil, nil); code != http.StatusOK {
			t.Fatalf("deleting course: status %d", code)
		}
		if code := ct.Do(t, http.MethodGet, "/courses/videos/"+v.ID, ct.admin, nil, nil, nil); code != http.StatusNotFound {
			t.Fatalf("video outlived its course: status %d", code)
		}
		if code := ct.addChapter(t, algebra, 2, "Reclaimed"); code != http.StatusCreated {
			t.Fatalf("chapter number not released: status %d", code)
		}
	})
}

func TestCreateCourseWithVideos(t *testing.T) {
	ct := newCourseTest(t)

	id := ct.createCourseOK(t, "Nested", map[string]any{
		"number": 9,
		"title":  "Intro",
		"videos": []map[string]any{
			{"url": "https://cdn.example.com/a.mp4", "title": "a"},
			{"url": "https://cdn.example.com/b.mp4", "title": "b", "description": "second"},
		},
	})

	p := ct.videosPage(t, id, 9, 1, 10)
	if p.TotalVideos != 2 || p.Videos[0].Title != "a" || p.Videos[1].Description != "second" {
		t.Fatalf("unexpected page: %+v", p)
	}

	var found course.Video
	if code := ct.Do(t, http.MethodGet, "/courses/videos/"+p.Videos[1].ID, ct.admin, nil, nil, &found); code != http.StatusOK {
		t.Fatalf("finding nested video: status %d", code)
	}
	if diff := cmp.Diff(p.Videos[1], found); diff != "" {
		t.Errorf("lookup mismatch (-want +got):\n%s", diff)
	}
}

func TestLargePage(t *testing.T) {
	ct := newCourseTest(t)
	id := ct.createCourseOK(t, "Long", map[string]any{"number": 1, "title": "All"})

	for i := 0; i < 150; i++ {
		ct.addVideoOK(t, id, 1, fmt.Sprintf("v%03d", i))
	}

	p := ct.videosPage(t, id, 1, 1, 150)
	if len(p.Videos) != 150 || p.TotalPages != 1 {
		t.Fatalf("expected one page of 150, got %d videos over %d pages", len(p.Videos), p.TotalPages)
	}
}

func TestConcurrentChapterNumber(t *testing.T) {
	ct := newCourseTest(t)

	const writers = 6
	ids := make([]string, writers)
	for i := range ids {
		ids[i] = ct.createCourseOK(t, fmt.Sprintf("Course %d", i))
	}

	codes := make([]int, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = ct.addChapter(t, ids[i], 77, "Race")
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, c := range codes {
		switch c {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			t.Fatalf("unexpected status %d", c)
		}
	}
	if created != 1 || conflicts != writers-1 {
		t.Fatalf("expected 1 created and %d conflicts, got %d and %d", writers-1, created, conflicts)
	}
}

func TestConcurrentVideosOneCourse(t *testing.T) {
	ct := newCourseTest(t)
	id := ct.createCourseOK(t, "Busy", map[string]any{"number": 1, "title": "Only"})

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ct.addVideoOK(t, id, 1, fmt.Sprintf("v%d", i))
		}(i)
	}
	wg.Wait()

	if p := ct.videosPage(t, id, 1, 1, 100); p.TotalVideos != n {
		t.Fatalf("lost updates: expected %d videos, got %d", n, p.TotalVideos)
	}
}
