package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal is a fixed two-digit money value carried as text, the way MySQL
// returns DECIMAL columns. JSON input may be a number or a numeric string;
// output is always a string such as "12.50".
type Decimal string

func NewDecimal(f float64) Decimal {
	return Decimal(decimal.NewFromFloat(f).StringFixed(2))
}

// DecimalFromCents renders an integer amount of hundredths.
func DecimalFromCents(cents int64) Decimal {
	return Decimal(decimal.New(cents, -2).StringFixed(2))
}

func (d Decimal) String() string {
	return string(d)
}

// Parse returns the exact decimal value of d.
func (d Decimal) Parse() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(string(d)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q", string(d))
	}
	return v, nil
}

// Cents rounds half away from zero to whole hundredths.
func (d Decimal) Cents() (int64, error) {
	v, err := d.Parse()
	if err != nil {
		return 0, err
	}
	cents := v.Round(2).Shift(2)
	if !cents.IsInteger() || cents.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("decimal %q out of range", string(d))
	}
	return cents.IntPart(), nil
}

// Normalize rounds to two fractional digits. Invalid values are returned unchanged.
func (d Decimal) Normalize() Decimal {
	v, err := d.Parse()
	if err != nil {
		return d
	}
	return Decimal(v.StringFixed(2))
}

// UnmarshalJSON keeps the raw text of anything that is not a string so that
// validation, not decoding, reports non-numeric input against the field.
func (d *Decimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = Decimal(strings.TrimSpace(s))
		return nil
	}
	*d = Decimal(b)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(d))
}

func (d Decimal) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	if _, err := d.Parse(); err != nil {
		return nil, err
	}
	return string(d.Normalize()), nil
}

func (d *Decimal) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case []byte:
		*d = Decimal(v)
	case string:
		*d = Decimal(v)
	case float64:
		*d = NewDecimal(v)
	case float32:
		*d = NewDecimal(float64(v))
	case int64:
		*d = Decimal(decimal.NewFromInt(v).StringFixed(2))
	default:
		return fmt.Errorf("cannot scan %T into Decimal", src)
	}
	return nil
}
