package validation

import (
	"strconv"
)

const (
	defaultLimit = 10
	defaultPage  = 1
)

// Pagination is a normalized window over a result set.
type Pagination struct {
	Limit  int
	Offset int
}

// NormalizePagination turns the raw limit and a 1-based page number into a
// record window. Unparsable values fall back to limit 10, page 1.
func NormalizePagination(limitRaw, pageRaw string) Pagination {
	limit := defaultLimit
	if parsed, err := strconv.Atoi(limitRaw); err == nil && parsed > 0 {
		limit = parsed
	}

	page := defaultPage
	if parsed, err := strconv.Atoi(pageRaw); err == nil && parsed > 0 {
		page = parsed
	}

	return Pagination{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
