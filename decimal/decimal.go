// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package decimal implements fixed point values as an int64 mantissa scaled
// by a power of ten. All arithmetic is checked; a result that does not fit
// the mantissa is an error rather than a wrapped value.
package decimal

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/JohnCGriffin/overflow"
	"github.com/featurebasedb/sqltype/errors"
)

// MaxScale is the largest scale whose scale factor fits in an int64.
const MaxScale = 18

const (
	ErrOverflow       errors.Code = "DecimalOverflow"
	ErrInexact        errors.Code = "DecimalInexact"
	ErrDivisionByZero errors.Code = "DecimalDivisionByZero"
	ErrInvalidSyntax  errors.Code = "DecimalInvalidSyntax"
	ErrInvalidScale   errors.Code = "DecimalInvalidScale"
)

var pow10 = [MaxScale + 1]int64{
	1,
	10,
	100,
	1000,
	10000,
	100000,
	1000000,
	10000000,
	100000000,
	1000000000,
	10000000000,
	100000000000,
	1000000000000,
	10000000000000,
	100000000000000,
	1000000000000000,
	10000000000000000,
	100000000000000000,
	1000000000000000000,
}

// Decimal represents a decimal value; the intention is to avoid relying on
// float64 anywhere a value passes through the engine. Scale is the number of
// digits to the right of the decimal point, so Decimal{Value: 4700, Scale: 3}
// is 4.700.
type Decimal struct {
	Value int64
	Scale int64
}

// New returns a Decimal with the given mantissa and scale.
func New(value, scale int64) Decimal {
	return Decimal{Value: value, Scale: scale}
}

// FromInt64 returns v as a decimal of scale 0.
func FromInt64(v int64) Decimal {
	return Decimal{Value: v}
}

// Pow10 returns 10^n for 0 <= n <= MaxScale.
func Pow10(n int64) (int64, error) {
	if n < 0 || n > MaxScale {
		return 0, errors.New(ErrInvalidScale, "scale "+strconv.FormatInt(n, 10)+" is out of range")
	}
	return pow10[n], nil
}

// ScaleFactor returns the decimal 10^scale expressed at the given scale; its
// mantissa is 10^scale. Multiplying a scale 0 decimal by it yields the same
// number at the given scale.
func ScaleFactor(scale int64) (Decimal, error) {
	p, err := Pow10(scale)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{Value: p, Scale: scale}, nil
}

// Float64 returns d as a float64.
func (d Decimal) Float64() float64 {
	if d.Scale == 0 {
		return float64(d.Value)
	}
	return float64(d.Value) / math.Pow10(int(d.Scale))
}

// String returns the string representation of the decimal, always with
// exactly Scale fractional digits.
func (d Decimal) String() string {
	sval := strconv.FormatInt(d.Value, 10)
	var neg bool
	if sval[0] == '-' {
		neg = true
		sval = sval[1:]
	}

	s := sval
	if d.Scale > 0 {
		scale := int(d.Scale)
		if len(sval) <= scale {
			sval = strings.Repeat("0", scale-len(sval)+1) + sval
		}
		s = sval[:len(sval)-scale] + "." + sval[len(sval)-scale:]
	}

	if neg {
		return "-" + s
	}
	return s
}

// ParseDecimal parses a string into a Decimal. Unlike a float parse, the
// scale is taken from the text: "1.10" has scale 2 and "7" has scale 0.
// Leading and trailing spaces are ignored.
func ParseDecimal(s string) (Decimal, error) {
	str := strings.TrimSpace(s)
	invalid := func() (Decimal, error) {
		return Decimal{}, errors.New(ErrInvalidSyntax, "invalid decimal string: "+strconv.Quote(s))
	}

	var neg bool
	switch {
	case strings.HasPrefix(str, "-"):
		neg = true
		str = str[1:]
	case strings.HasPrefix(str, "+"):
		str = str[1:]
	}

	whole, frac := str, ""
	if i := strings.IndexByte(str, '.'); i >= 0 {
		whole, frac = str[:i], str[i+1:]
	}
	if whole == "" && frac == "" {
		return invalid()
	}
	for _, part := range []string{whole, frac} {
		for i := 0; i < len(part); i++ {
			if part[i] < '0' || part[i] > '9' {
				return invalid()
			}
		}
	}
	if len(frac) > MaxScale {
		return Decimal{}, errors.New(ErrInvalidScale, "decimal string has more than 18 fractional digits: "+strconv.Quote(s))
	}

	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		digits = "0"
	}
	if neg {
		digits = "-" + digits
	}
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Decimal{}, errors.New(ErrOverflow, "decimal out of range: "+strconv.Quote(s))
	}

	return Decimal{
		Value: value,
		Scale: int64(len(frac)),
	}, nil
}

// Rescale returns d expressed at the given scale. Widening multiplies the
// mantissa; narrowing is only allowed when no non-zero digit is dropped.
func (d Decimal) Rescale(scale int64) (Decimal, error) {
	if scale < 0 || scale > MaxScale {
		return Decimal{}, errors.New(ErrInvalidScale, "scale "+strconv.FormatInt(scale, 10)+" is out of range")
	}
	switch {
	case scale == d.Scale:
		return d, nil
	case scale > d.Scale:
		v, ok := overflow.Mul64(d.Value, pow10[scale-d.Scale])
		if !ok {
			return Decimal{}, errors.New(ErrOverflow, "rescaling "+d.String()+" overflows")
		}
		return Decimal{Value: v, Scale: scale}, nil
	default:
		f := pow10[d.Scale-scale]
		if d.Value%f != 0 {
			return Decimal{}, errors.New(ErrInexact, "rescaling "+d.String()+" to scale "+strconv.FormatInt(scale, 10)+" loses digits")
		}
		return Decimal{Value: d.Value / f, Scale: scale}, nil
	}
}

// Round returns d expressed at the given scale, rounding half away from zero
// when digits are dropped.
func (d Decimal) Round(scale int64) (Decimal, error) {
	if scale >= d.Scale {
		return d.Rescale(scale)
	}
	if scale < 0 {
		return Decimal{}, errors.New(ErrInvalidScale, "scale "+strconv.FormatInt(scale, 10)+" is out of range")
	}
	f := pow10[d.Scale-scale]
	q, r := d.Value/f, d.Value%f
	if r < 0 {
		r = -r
	}
	if r*2 >= f {
		if d.Value < 0 {
			q--
		} else {
			q++
		}
	}
	return Decimal{Value: q, Scale: scale}, nil
}

// Truncate returns the integral part of d, rounding toward zero.
func (d Decimal) Truncate() int64 {
	if d.Scale <= 0 {
		return d.Value
	}
	return d.Value / pow10[d.Scale]
}

// align returns a and b expressed at the larger of their scales.
func align(a, b Decimal) (Decimal, Decimal, error) {
	if a.Scale == b.Scale {
		return a, b, nil
	}
	scale := a.Scale
	if b.Scale > scale {
		scale = b.Scale
	}
	ar, err := a.Rescale(scale)
	if err != nil {
		return Decimal{}, Decimal{}, err
	}
	br, err := b.Rescale(scale)
	if err != nil {
		return Decimal{}, Decimal{}, err
	}
	return ar, br, nil
}

func overflowed(op string, a, b Decimal) error {
	return errors.New(ErrOverflow, a.String()+" "+op+" "+b.String()+" overflows")
}

// Add returns d+o at the larger of the two scales.
func (d Decimal) Add(o Decimal) (Decimal, error) {
	a, b, err := align(d, o)
	if err != nil {
		return Decimal{}, err
	}
	v, ok := overflow.Add64(a.Value, b.Value)
	if !ok {
		return Decimal{}, overflowed("+", d, o)
	}
	return Decimal{Value: v, Scale: a.Scale}, nil
}

// Sub returns d-o at the larger of the two scales.
func (d Decimal) Sub(o Decimal) (Decimal, error) {
	a, b, err := align(d, o)
	if err != nil {
		return Decimal{}, err
	}
	v, ok := overflow.Sub64(a.Value, b.Value)
	if !ok {
		return Decimal{}, overflowed("-", d, o)
	}
	return Decimal{Value: v, Scale: a.Scale}, nil
}

// Mul returns d*o. The mantissas are multiplied, so the result scale is the
// sum of the operand scales; a sum above MaxScale is rounded to MaxScale.
func (d Decimal) Mul(o Decimal) (Decimal, error) {
	scale := d.Scale + o.Scale
	v, ok := overflow.Mul64(d.Value, o.Value)
	if ok {
		r := Decimal{Value: v, Scale: scale}
		if scale > MaxScale {
			return r.Round(MaxScale)
		}
		return r, nil
	}

	// The mantissa product overflowed; the value may still fit once the
	// excess scale is dropped.
	if scale <= MaxScale {
		return Decimal{}, overflowed("*", d, o)
	}
	p := new(big.Int).Mul(big.NewInt(d.Value), big.NewInt(o.Value))
	p.Quo(p, new(big.Int).Exp(big.NewInt(10), big.NewInt(scale-MaxScale), nil))
	if !p.IsInt64() {
		return Decimal{}, overflowed("*", d, o)
	}
	return Decimal{Value: p.Int64(), Scale: MaxScale}, nil
}

// Div returns d/o at the scale of d, truncated toward zero.
func (d Decimal) Div(o Decimal) (Decimal, error) {
	if o.Value == 0 {
		return Decimal{}, errors.New(ErrDivisionByZero, "division by zero")
	}
	// d.Value * 10^o.Scale / o.Value keeps the scale of d.
	n, ok := overflow.Mul64(d.Value, pow10[o.Scale])
	if !ok {
		q := new(big.Int).Mul(big.NewInt(d.Value), big.NewInt(pow10[o.Scale]))
		q.Quo(q, big.NewInt(o.Value))
		if !q.IsInt64() {
			return Decimal{}, overflowed("/", d, o)
		}
		return Decimal{Value: q.Int64(), Scale: d.Scale}, nil
	}
	v, ok := overflow.Div64(n, o.Value)
	if !ok {
		return Decimal{}, overflowed("/", d, o)
	}
	return Decimal{Value: v, Scale: d.Scale}, nil
}

// Rem returns the remainder of d/o at the larger of the two scales. The sign
// of the result follows d.
func (d Decimal) Rem(o Decimal) (Decimal, error) {
	if o.Value == 0 {
		return Decimal{}, errors.New(ErrDivisionByZero, "division by zero")
	}
	a, b, err := align(d, o)
	if err != nil {
		return Decimal{}, err
	}
	if b.Value == -1 {
		return Decimal{Scale: a.Scale}, nil
	}
	return Decimal{Value: a.Value % b.Value, Scale: a.Scale}, nil
}

// Neg returns -d.
func (d Decimal) Neg() (Decimal, error) {
	if d.Value == math.MinInt64 {
		return Decimal{}, errors.New(ErrOverflow, "negating "+d.String()+" overflows")
	}
	return Decimal{Value: -d.Value, Scale: d.Scale}, nil
}

// Abs returns |d|.
func (d Decimal) Abs() (Decimal, error) {
	if d.Value < 0 {
		return d.Neg()
	}
	return d, nil
}

// Cmp compares d and o numerically, regardless of scale, and returns -1, 0
// or +1.
func (d Decimal) Cmp(o Decimal) int {
	if a, b, err := align(d, o); err == nil {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	}
	return d.bigValue(o.Scale).Cmp(o.bigValue(d.Scale))
}

// bigValue returns the mantissa of d as if d had scale d.Scale+extra.
func (d Decimal) bigValue(extra int64) *big.Int {
	v := big.NewInt(d.Value)
	return v.Mul(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(extra), nil))
}

// Equals reports whether d and o are the same number.
func (d Decimal) Equals(o Decimal) bool {
	return d.Cmp(o) == 0
}

// FromFloat64 converts f to a decimal of the given scale, rounding half away
// from zero.
func FromFloat64(f float64, scale int64) (Decimal, error) {
	if scale < 0 || scale > MaxScale {
		return Decimal{}, errors.New(ErrInvalidScale, "scale "+strconv.FormatInt(scale, 10)+" is out of range")
	}
	v := math.Round(f * math.Pow10(int(scale)))
	if math.IsNaN(v) || v >= math.MaxInt64 || v < math.MinInt64 {
		return Decimal{}, errors.New(ErrOverflow, strconv.FormatFloat(f, 'g', -1, 64)+" is out of range for a decimal")
	}
	return Decimal{Value: int64(v), Scale: scale}, nil
}

// UnmarshalJSON is a custom unmarshaller for the Decimal type. The intention
// is to avoid the use of float64 anywhere, so this unmarshaller parses the
// decimal out of the byte string.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	o, err := ParseDecimal(strings.Trim(string(data), `"`))
	if err != nil {
		return errors.Wrapf(err, "parsing decimal: %s", string(data))
	}
	*d = o
	return nil
}

// MarshalJSON is a custom marshaller for the Decimal type.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalYAML is a custom unmarshaller for the Decimal type.
func (d *Decimal) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var data string
	if err := unmarshal(&data); err != nil {
		return err
	}

	o, err := ParseDecimal(data)
	if err != nil {
		return errors.Wrapf(err, "parsing decimal: %s", data)
	}
	*d = o
	return nil
}

// MarshalYAML is a custom marshaller for the Decimal type. It results in a
// quoted string so that the scale survives a round trip.
func (d Decimal) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
