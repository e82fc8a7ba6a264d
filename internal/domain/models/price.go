package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Price limits mirror a DECIMAL(5,2) column.
const (
	PriceMaxDigits     = 5
	PriceDecimalPlaces = 2
)

var (
	ErrPriceFormat    = errors.New("A valid number is required.")
	ErrPriceDigits    = fmt.Errorf("Ensure that there are no more than %d digits in total.", PriceMaxDigits)
	ErrPriceDecimals  = fmt.Errorf("Ensure that there are no more than %d decimal places.", PriceDecimalPlaces)
	ErrPriceWholePart = fmt.Errorf("Ensure that there are no more than %d digits before the decimal point.", PriceMaxDigits-PriceDecimalPlaces)
)

// Price is a non-negative fixed-precision amount. It is stored as BSON
// Decimal128 and travels over JSON as a string such as "5.25".
//
// The zero value is 0.00.
type Price struct {
	canonical string
}

// ParsePrice parses s into a Price, padding to two decimal places.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Price{}, ErrPriceFormat
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && frac == "" && whole == "" {
		return Price{}, ErrPriceFormat
	}
	if !allDigits(whole) || !allDigits(frac) {
		return Price{}, ErrPriceFormat
	}

	whole = strings.TrimLeft(whole, "0")
	if len(frac) > PriceDecimalPlaces {
		if len(whole)+len(frac) > PriceMaxDigits {
			return Price{}, ErrPriceDigits
		}
		return Price{}, ErrPriceDecimals
	}
	if len(whole) > PriceMaxDigits-PriceDecimalPlaces {
		if len(whole)+len(frac) > PriceMaxDigits {
			return Price{}, ErrPriceDigits
		}
		return Price{}, ErrPriceWholePart
	}

	if whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", PriceDecimalPlaces-len(frac))
	return Price{canonical: whole + "." + frac}, nil
}

// MustParsePrice is ParsePrice for constants and tests.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (p Price) String() string {
	if p.canonical == "" {
		return "0.00"
	}
	return p.canonical
}

// IsZero reports whether the price was never set.
func (p Price) IsZero() bool {
	return p.canonical == ""
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts both "5.25" and 5.25.
func (p *Price) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return ErrPriceFormat
	}
	if strings.HasPrefix(raw, `"`) {
		unq, err := strconv.Unquote(raw)
		if err != nil {
			return ErrPriceFormat
		}
		raw = unq
	}
	parsed, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d, err := primitive.ParseDecimal128(p.String())
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d)
}

func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	if d, ok := rv.Decimal128OK(); ok {
		parsed, err := ParsePrice(d.String())
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	if s, ok := rv.StringValueOK(); ok {
		parsed, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*p = parsed
		return nil
	}
	return fmt.Errorf("price: cannot decode bson type %s", t)
}
