package utils

import (
	"math"
	"net/url"

	"lang-portal/internal/shared/config"
	"lang-portal/internal/shared/validation"
)

// ParsePageParams parses page and per_page from query parameters, falling
// back to the defaults when a value is absent or not an integer.
func ParsePageParams(query url.Values) (page int, perPage int) {
	page = validation.ParseIntParam(query.Get("page"), config.DefaultPage)
	perPage = validation.ParseIntParam(query.Get("per_page"), config.DefaultPerPage)
	return page, perPage
}

// Offset returns the row offset of the given 1-based page. Pages below 1
// start at 0. Offsets past math.MaxInt saturate so far-out pages stay empty.
func Offset(page, perPage int) int {
	if page < 1 || perPage < 1 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// TotalPages returns ceil(total / perPage), or 0 when perPage is not positive.
func TotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	p := int64(perPage)
	pages := total / p
	if total%p != 0 {
		pages++
	}
	return int(pages)
}
