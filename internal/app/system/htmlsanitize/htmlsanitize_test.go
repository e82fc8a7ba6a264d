package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/valera-kram/recipe-app-api/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_Unchanged(t *testing.T) {
	tests := []string{
		"Hello, World!",
		"Mom's pie & chips",
		"Bake at 200°C for 30 minutes.\nServe warm.",
		`Use "fresh" basil`,
	}
	for _, in := range tests {
		if got := htmlsanitize.PlainText(in); got != in {
			t.Errorf("PlainText(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	got := htmlsanitize.PlainText("<p><strong>Bold</strong> and <em>italic</em></p>")
	if got != "Bold and italic" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestPlainText_RemovesScript(t *testing.T) {
	got := htmlsanitize.PlainText("<p>Hello</p><script>alert('xss')</script>")
	if strings.Contains(got, "alert") || strings.Contains(got, "script") {
		t.Errorf("expected script removed, got %q", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Errorf("expected text preserved, got %q", got)
	}
}

func TestPlainText_DecodesEntities(t *testing.T) {
	got := htmlsanitize.PlainText("<b>Mom's</b> pie & chips")
	if got != "Mom's pie & chips" {
		t.Errorf("expected entities decoded, got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"Hello, World!", true},
		{"a > b", true},
		{"<p>Hello</p>", false},
		{"1 < 2", false},
	}
	for _, tt := range tests {
		if got := htmlsanitize.IsPlainText(tt.in); got != tt.want {
			t.Errorf("IsPlainText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
