package fixed

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/govalues/decimal"
)

var Zero = Point{}

// Point is an unsafe wrapper around decimal implementation. Caller must make sure the calculations
// are correct and will not result in an error state, otherwise it will panic
type Point struct {
	v decimal.Decimal
}

func FromInt64(value int64, scale int) Point {
	return Point{must(decimal.New(value, scale))}
}

func Parse(s string) (Point, error) {
	v, err := decimal.Parse(s)
	if err != nil {
		return Point{}, fmt.Errorf("unable to parse %q: %w", s, err)
	}
	return Point{v}, nil
}

func MustParse(s string) Point {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Point) String() string { return p.v.String() }

func (p Point) Eq(o Point) bool { return p.v.Cmp(o.v) == 0 }
func (p Point) Gt(o Point) bool { return p.v.Cmp(o.v) > 0 }

func (p Point) Sign() int               { return p.v.Sign() }
func (p Point) IsZero() bool            { return p.v.IsZero() }
func (p Point) Rescale(scale int) Point { return Point{p.v.Rescale(scale)} }

func (p Point) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MarshalJSON writes the value as a bare JSON number.
func (p Point) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts JSON numbers and numeric strings.
func (p *Point) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) >= 2 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("unable to unquote decimal: %w", err)
		}
		data = []byte(s)
	}
	v, err := Parse(string(data))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Point) Value() (driver.Value, error) {
	return p.String(), nil
}

func (p *Point) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = Zero
		return nil
	case []byte:
		return p.scanString(string(v))
	case string:
		return p.scanString(v)
	case int64:
		*p = FromInt64(v, 0)
		return nil
	case float64:
		d, err := decimal.NewFromFloat64(v)
		if err != nil {
			return fmt.Errorf("unable to scan %v: %w", v, err)
		}
		*p = Point{d}
		return nil
	default:
		return fmt.Errorf("unable to scan %T into fixed.Point", src)
	}
}

func (p *Point) scanString(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func must(v decimal.Decimal, err error) decimal.Decimal {
	if err == nil {
		// Return in the happy path
		return v
	}
	panic(err)
}
