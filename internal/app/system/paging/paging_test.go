package paging

import (
	"net/http/httptest"
	"testing"

	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		want      Page
		wantField string
	}{
		{"defaults", "/x", Page{Number: 1, Size: PageSize}, ""},
		{"explicit", "/x?page=3&page_size=10", Page{Number: 3, Size: 10}, ""},
		{"max size", "/x?page_size=200", Page{Number: 1, Size: MaxPageSize}, ""},
		{"zero page", "/x?page=0", Page{Number: 1, Size: PageSize}, "page"},
		{"text page", "/x?page=abc", Page{Number: 1, Size: PageSize}, "page"},
		{"negative size", "/x?page_size=-1", Page{Number: 1, Size: PageSize}, "page_size"},
		{"size too large", "/x?page_size=201", Page{Number: 1, Size: PageSize}, "page_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &inputval.Result{}
			got := Parse(httptest.NewRequest("GET", tt.target, nil), res)
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
			if tt.wantField == "" {
				if res.HasErrors() {
					t.Errorf("unexpected errors: %v", res.Map())
				}
				return
			}
			if _, ok := res.Map()[tt.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tt.wantField, res.Map())
			}
		})
	}
}

func TestPageOffsetLimit(t *testing.T) {
	p := Page{Number: 3, Size: 20}
	if p.Offset() != 40 {
		t.Errorf("Offset() = %d, want 40", p.Offset())
	}
	if p.Limit() != 20 {
		t.Errorf("Limit() = %d, want 20", p.Limit())
	}
}

func TestNewEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		total    int64
		rows     []int
		wantNext bool
		wantPrev bool
	}{
		{"single page", Page{Number: 1, Size: 5}, 3, []int{1, 2, 3}, false, false},
		{"first of two", Page{Number: 1, Size: 2}, 3, []int{1, 2}, true, false},
		{"last of two", Page{Number: 2, Size: 2}, 3, []int{3}, false, true},
		{"past the end", Page{Number: 4, Size: 2}, 3, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvelope(tt.page, tt.total, tt.rows)
			if env.HasNext != tt.wantNext || env.HasPrev != tt.wantPrev {
				t.Errorf("HasNext/HasPrev = %v/%v, want %v/%v", env.HasNext, env.HasPrev, tt.wantNext, tt.wantPrev)
			}
			if env.Results == nil {
				t.Error("Results must never be nil")
			}
			if env.Count != tt.total {
				t.Errorf("Count = %d, want %d", env.Count, tt.total)
			}
		})
	}
}
