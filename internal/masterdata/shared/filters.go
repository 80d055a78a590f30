package shared

import (
	"net/http"
	"strconv"
)

// ListFilters represents standard list endpoint filters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
	Status  string

	// Entity specific filters
	GroupID    *int64
	CategoryID *int64
}

// ParseListFilters extracts common query parameters from a request.
func ParseListFilters(r *http.Request) ListFilters {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}

	f := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  q.Get("search"),
		SortBy:  q.Get("sort"),
		SortDir: q.Get("dir"),
		Status:  q.Get("status"),
	}

	if v := q.Get("groupId"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.GroupID = &parsed
		}
	}
	if v := q.Get("categoryId"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			f.CategoryID = &parsed
		}
	}
	return f
}

// Offset returns the row offset implied by page and limit.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}
