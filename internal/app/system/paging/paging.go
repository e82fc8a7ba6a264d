// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
)

// PageSize is the default number of rows per page.
const PageSize = 50

// MaxPageSize caps the page_size query parameter.
const MaxPageSize = 200

// Page is a 1-based page number and its size.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip for Mongo Find().SetSkip().
func (p Page) Offset() int64 { return int64((p.Number - 1) * p.Size) }

// Limit returns Size as int64 for Mongo Find().SetLimit().
func (p Page) Limit() int64 { return int64(p.Size) }

// Parse reads the "page" and "page_size" query parameters. Missing values
// fall back to page 1 and PageSize. Malformed or out-of-range values are
// recorded on res under their parameter name.
func Parse(r *http.Request, res *inputval.Result) Page {
	p := Page{Number: 1, Size: PageSize}

	if s := strings.TrimSpace(query.Get(r, "page")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			res.Add("page", "Invalid page.")
		} else {
			p.Number = n
		}
	}

	if s := strings.TrimSpace(query.Get(r, "page_size")); s != "" {
		n, err := strconv.Atoi(s)
		switch {
		case err != nil || n < 1:
			res.Add("page_size", "A valid integer is required.")
		case n > MaxPageSize:
			res.Add("page_size", "Ensure this value is less than or equal to "+strconv.Itoa(MaxPageSize)+".")
		default:
			p.Size = n
		}
	}
	return p
}

// Envelope is the JSON body of a paged list.
type Envelope[T any] struct {
	Count    int64 `json:"count"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	HasNext  bool  `json:"has_next"`
	HasPrev  bool  `json:"has_prev"`
	Results  []T   `json:"results"`
}

// NewEnvelope wraps one page of rows. total is the unpaged match count.
func NewEnvelope[T any](p Page, total int64, rows []T) Envelope[T] {
	if rows == nil {
		rows = []T{}
	}
	return Envelope[T]{
		Count:    total,
		Page:     p.Number,
		PageSize: p.Size,
		HasNext:  p.Offset()+int64(len(rows)) < total,
		HasPrev:  p.Number > 1,
		Results:  rows,
	}
}
