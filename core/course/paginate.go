package course

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

type Page[T any] struct {
	TotalItems  int
	TotalPages  int
	CurrentPage int
	Items       []T
}

// VideoPage is the wire form of a page of chapter videos.
type VideoPage struct {
	TotalVideos int     `json:"totalVideos"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	Videos      []Video `json:"videos"`
}

// Paginate slices items into the requested page. A page or limit below
// one falls back to the defaults. Pages past the end are empty, not an
// error.
func Paginate[T any](items []T, page, limit int) Page[T] {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	total := len(items)
	p := Page[T]{
		TotalItems:  total,
		TotalPages:  total / limit,
		CurrentPage: page,
		Items:       []T{},
	}
	if total%limit != 0 {
		p.TotalPages++
	}

	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}
	p.Items = append(p.Items, items[start:end]...)
	return p
}
