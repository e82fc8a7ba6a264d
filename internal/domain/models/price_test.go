package models

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"5.25", "5.25", nil},
		{"5.5", "5.50", nil},
		{"5", "5.00", nil},
		{"005.10", "5.10", nil},
		{"0.99", "0.99", nil},
		{".5", "0.50", nil},
		{"999.99", "999.99", nil},
		{" 12.30 ", "12.30", nil},
		{"", "", ErrPriceFormat},
		{"abc", "", ErrPriceFormat},
		{"-1.00", "", ErrPriceFormat},
		{"1e3", "", ErrPriceFormat},
		{"5.255", "", ErrPriceDecimals},
		{"1000", "", ErrPriceWholePart},
		{"1000.25", "", ErrPriceDigits},
		{"1234.567", "", ErrPriceDigits},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParsePrice(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) unexpected error: %v", tt.in, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParsePrice(%q) = %q, want %q", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestPrice_UnmarshalJSON_AcceptsNumberAndString(t *testing.T) {
	var fromNumber, fromString Price
	if err := fromNumber.UnmarshalJSON([]byte(`5.25`)); err != nil {
		t.Fatalf("number: %v", err)
	}
	if err := fromString.UnmarshalJSON([]byte(`"5.25"`)); err != nil {
		t.Fatalf("string: %v", err)
	}
	if fromNumber != fromString {
		t.Errorf("got %q and %q, want equal", fromNumber, fromString)
	}

	out, err := fromNumber.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(out) != `"5.25"` {
		t.Errorf("MarshalJSON = %s, want %q", out, "5.25")
	}
}

func TestPrice_UnmarshalJSON_Null(t *testing.T) {
	var p Price
	if err := p.UnmarshalJSON([]byte(`null`)); err == nil {
		t.Fatal("expected error for null price")
	}
}

func TestPrice_BSONStoresDecimal128(t *testing.T) {
	doc := struct {
		Price Price `bson:"price"`
	}{Price: MustParsePrice("5.50")}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	val := bson.Raw(raw).Lookup("price")
	d, ok := val.Decimal128OK()
	if !ok {
		t.Fatalf("expected decimal128, got %s", val.Type)
	}
	if d.String() != "5.50" {
		t.Errorf("stored %q, want %q", d.String(), "5.50")
	}

	var back struct {
		Price Price `bson:"price"`
	}
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Price.String() != "5.50" {
		t.Errorf("decoded %q, want %q", back.Price.String(), "5.50")
	}
}

func TestPrice_ZeroValue(t *testing.T) {
	var p Price
	if !p.IsZero() {
		t.Error("zero Price should report IsZero")
	}
	if p.String() != "0.00" {
		t.Errorf("zero Price String() = %q, want 0.00", p.String())
	}
}

func TestStringers(t *testing.T) {
	if got := (Recipe{Title: "Test title"}).String(); got != "Test title" {
		t.Errorf("Recipe.String() = %q", got)
	}
	if got := (Tag{Name: "tag 1"}).String(); got != "tag 1" {
		t.Errorf("Tag.String() = %q", got)
	}
	if got := (Ingredient{Name: "ingredient1"}).String(); got != "ingredient1" {
		t.Errorf("Ingredient.String() = %q", got)
	}
}
