package service

import "storefront/internal/repository"

// Pagination turns client supplied skip/limit values into a repository page
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultPagination matches the listing defaults of the API
var DefaultPagination = Pagination{DefaultLimit: 100, MaxLimit: 1000}

// Page uses the default limit when limit is nil and clamps it to MaxLimit.
// Negative values are rejected by the caller before they get here.
func (p Pagination) Page(skip int, limit *int) repository.Page {
	l := p.DefaultLimit
	if limit != nil {
		l = *limit
	}
	if p.MaxLimit > 0 && l > p.MaxLimit {
		l = p.MaxLimit
	}
	if l < 0 {
		l = 0
	}
	if skip < 0 {
		skip = 0
	}
	return repository.Page{Skip: skip, Limit: l}
}
