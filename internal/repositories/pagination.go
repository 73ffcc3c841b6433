package repositories

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// ListOptions carries pagination and ordering for list reads. Build one with
// ParseListOptions so page/limit are always positive and the sort column is
// taken from a whitelist.
type ListOptions struct {
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

// Offset returns the number of rows to skip for the requested page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// SortColumns maps caller-facing sort field names to storage columns.
type SortColumns map[string]string

// CreatedAtSort is the default ordering shared by every listing.
var CreatedAtSort = SortColumns{"createdAt": "created_at"}

// ParseListOptions coerces raw query values into ListOptions. Non-numeric or
// non-positive page/limit fall back to defaults; unknown sort fields fall
// back to createdAt; sortType "asc" is the only way to get ascending order.
func ParseListOptions(page, limit, sortBy, sortType string, allowed SortColumns) ListOptions {
	opts := ListOptions{
		Page:     positiveInt(page, defaultPage),
		Limit:    positiveInt(limit, defaultLimit),
		SortBy:   "created_at",
		SortDesc: true,
	}
	if opts.Limit > maxLimit {
		opts.Limit = maxLimit
	}

	if column, ok := allowed[sortBy]; ok {
		opts.SortBy = column
	}
	if strings.EqualFold(sortType, "asc") {
		opts.SortDesc = false
	}

	return opts
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// orderClause renders the ORDER BY fragment for the (whitelisted) options.
func orderClause(opts ListOptions) string {
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", opts.SortBy, direction)
}

// Page is one page of a listing plus the navigation totals.
type Page[T any] struct {
	Items       []T   `json:"docs"`
	TotalDocs   int64 `json:"totalDocs"`
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewPage assembles the page envelope from the fetched items and total count.
func NewPage[T any](items []T, total int64, opts ListOptions) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := total / int64(opts.Limit)
	if total%int64(opts.Limit) != 0 {
		totalPages++
	}

	return Page[T]{
		Items:       items,
		TotalDocs:   total,
		Page:        opts.Page,
		Limit:       opts.Limit,
		TotalPages:  totalPages,
		HasNextPage: int64(opts.Page) < totalPages,
		HasPrevPage: opts.Page > 1 && int64(opts.Page-1) <= totalPages,
	}
}
