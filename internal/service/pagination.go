package service

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// PageRequest carries the caller's pagination intent. Zero values fall
// back to the defaults; per_page is clamped to [1,100].
type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) normalized() (page, perPage int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	perPage = p.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

// Page is the listing envelope every paginated operation returns.
type Page[T any] struct {
	Data        []T   `json:"data"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

func newPage[T any](data []T, total int64, page, perPage int) *Page[T] {
	lastPage := 1
	if total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}
	if data == nil {
		data = []T{}
	}
	return &Page[T]{
		Data:        data,
		Total:       total,
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    lastPage,
	}
}
