package inputval

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"user123@example.co.uk", true},

		{"", false},
		{"   ", false},
		{" user@example.com", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/recipe.pdf", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"example.com", false},
		{"https://", false},
		{"https://exa mple.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidHTTPURL(tt.url); got != tt.want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

type nameRef struct {
	Name string `json:"name" validate:"required,max=10"`
}

type testInput struct {
	Title string    `json:"title" validate:"required,max=10"`
	Email string    `json:"email" validate:"omitempty,email"`
	Time  int       `json:"time_minutes" validate:"gte=0"`
	Price string    `json:"price" validate:"required,price"`
	Link  string    `json:"link" validate:"omitempty,httpurl"`
	Pass  string    `json:"password" validate:"required,min=5"`
	Tags  []nameRef `json:"tags" validate:"dive"`
}

func validInput() testInput {
	return testInput{Title: "Soup", Price: "5.25", Pass: "secret", Tags: []nameRef{{Name: "Vegan"}}}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*testInput)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*testInput) {}, "", ""},
		{"missing title", func(in *testInput) { in.Title = "" }, "title", "This field is required."},
		{"title too long", func(in *testInput) { in.Title = strings.Repeat("x", 11) }, "title", "Ensure this field has no more than 10 characters."},
		{"bad email", func(in *testInput) { in.Email = "nope" }, "email", "Enter a valid email address."},
		{"negative time", func(in *testInput) { in.Time = -1 }, "time_minutes", "Ensure this value is greater than or equal to 0."},
		{"bad price", func(in *testInput) { in.Price = "1234.56" }, "price", "A valid number is required with at most 5 digits and 2 decimal places."},
		{"bad link", func(in *testInput) { in.Link = "not a url" }, "link", "Enter a valid URL."},
		{"short password", func(in *testInput) { in.Pass = "pw" }, "password", "Ensure this field has at least 5 characters."},
		{"blank tag name", func(in *testInput) { in.Tags = append(in.Tags, nameRef{}) }, "tags[1].name", "This field is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			res := Validate(in)

			if tt.wantField == "" {
				if res.HasErrors() {
					t.Fatalf("unexpected errors: %v", res.Errors)
				}
				return
			}
			if len(res.Errors) != 1 {
				t.Fatalf("got %d errors (%v), want 1", len(res.Errors), res.Errors)
			}
			got := res.Errors[0]
			if got.Field != tt.wantField || got.Message != tt.wantMsg {
				t.Errorf("got %q: %q, want %q: %q", got.Field, got.Message, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestResult(t *testing.T) {
	r := &Result{}
	if r.HasErrors() || len(r.Map()) != 0 {
		t.Fatal("empty result should have no errors")
	}

	r.Add("email", "Error 1")
	r.Add("email", "Error 2")
	r.Add("name", "Error 3")

	if !r.HasErrors() {
		t.Fatal("expected errors after Add")
	}
	m := r.Map()
	if len(m["email"]) != 2 || m["email"][0] != "Error 1" || len(m["name"]) != 1 {
		t.Errorf("Map() = %v", m)
	}
}
