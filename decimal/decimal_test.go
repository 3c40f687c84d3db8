// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package decimal_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/featurebasedb/sqltype/decimal"
	"github.com/featurebasedb/sqltype/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDecimal(t *testing.T) {
	t.Run("Parse", func(t *testing.T) {
		tests := []struct {
			s       string
			exp     decimal.Decimal
			expCode errors.Code
		}{
			{"0", decimal.New(0, 0), ""},
			{"-0", decimal.New(0, 0), ""},
			{"0.0", decimal.New(0, 1), ""},
			{"7", decimal.New(7, 0), ""},
			{"1.1", decimal.New(11, 1), ""},
			{"1.10", decimal.New(110, 2), ""},
			{"1.11111", decimal.New(111111, 5), ""},
			{"4.700", decimal.New(4700, 3), ""},
			{"00123.4567", decimal.New(1234567, 4), ""},
			{"+123.4567", decimal.New(1234567, 4), ""},
			{"-123.4567", decimal.New(-1234567, 4), ""},
			{".123", decimal.New(123, 3), ""},
			{"12.", decimal.New(12, 0), ""},
			{"  12.5 ", decimal.New(125, 1), ""},
			{"-9223372036854775808", decimal.New(math.MinInt64, 0), ""},
			{"9.223372036854775807", decimal.New(math.MaxInt64, 18), ""},

			{"", decimal.Decimal{}, decimal.ErrInvalidSyntax},
			{"-", decimal.Decimal{}, decimal.ErrInvalidSyntax},
			{".", decimal.Decimal{}, decimal.ErrInvalidSyntax},
			{"abc", decimal.Decimal{}, decimal.ErrInvalidSyntax},
			{"0.12.3", decimal.Decimal{}, decimal.ErrInvalidSyntax},
			{"--1", decimal.Decimal{}, decimal.ErrInvalidSyntax},
			{"1e5", decimal.Decimal{}, decimal.ErrInvalidSyntax},
			{"9223372036854775808", decimal.Decimal{}, decimal.ErrOverflow},
			{"0.1234567890123456789", decimal.Decimal{}, decimal.ErrInvalidScale},
		}
		for _, test := range tests {
			t.Run(test.s, func(t *testing.T) {
				got, err := decimal.ParseDecimal(test.s)
				if test.expCode != "" {
					require.Error(t, err)
					assert.True(t, errors.Is(err, test.expCode), err.Error())
					return
				}
				require.NoError(t, err)
				assert.Equal(t, test.exp, got)
			})
		}
	})

	t.Run("String", func(t *testing.T) {
		tests := []struct {
			d   decimal.Decimal
			exp string
		}{
			{decimal.New(0, 0), "0"},
			{decimal.New(0, 3), "0.000"},
			{decimal.New(4700, 3), "4.700"},
			{decimal.New(-4700, 3), "-4.700"},
			{decimal.New(5, 3), "0.005"},
			{decimal.New(-5, 1), "-0.5"},
			{decimal.New(111111, 5), "1.11111"},
			{decimal.New(100000, 5), "1.00000"},
		}
		for _, test := range tests {
			assert.Equal(t, test.exp, test.d.String())
		}
	})

	t.Run("Rescale", func(t *testing.T) {
		d := decimal.New(47, 1)

		got, err := d.Rescale(3)
		require.NoError(t, err)
		assert.Equal(t, decimal.New(4700, 3), got)

		got, err = decimal.New(4700, 3).Rescale(1)
		require.NoError(t, err)
		assert.Equal(t, d, got)

		_, err = decimal.New(4701, 3).Rescale(1)
		assert.True(t, errors.Is(err, decimal.ErrInexact))

		_, err = decimal.New(math.MaxInt64/10, 0).Rescale(2)
		assert.True(t, errors.Is(err, decimal.ErrOverflow))

		_, err = d.Rescale(19)
		assert.True(t, errors.Is(err, decimal.ErrInvalidScale))
	})

	t.Run("Round", func(t *testing.T) {
		tests := []struct {
			d     decimal.Decimal
			scale int64
			exp   decimal.Decimal
		}{
			{decimal.New(4750, 3), 1, decimal.New(48, 1)},
			{decimal.New(4749, 3), 1, decimal.New(47, 1)},
			{decimal.New(-4750, 3), 1, decimal.New(-48, 1)},
			{decimal.New(-4749, 3), 0, decimal.New(-5, 0)},
			{decimal.New(25, 1), 0, decimal.New(3, 0)},
			{decimal.New(25, 1), 2, decimal.New(250, 2)},
		}
		for _, test := range tests {
			got, err := test.d.Round(test.scale)
			require.NoError(t, err)
			assert.Equal(t, test.exp, got, "round %s to %d", test.d, test.scale)
		}
	})

	t.Run("Arithmetic", func(t *testing.T) {
		a := decimal.New(4700, 3)
		b := decimal.New(2000, 3)

		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "6.700", sum.String())

		diff, err := a.Sub(b)
		require.NoError(t, err)
		assert.Equal(t, "2.700", diff.String())

		prod, err := a.Mul(b)
		require.NoError(t, err)
		assert.Equal(t, "9.400000", prod.String())
		assert.True(t, prod.Equals(decimal.New(9400, 3)))

		quo, err := a.Div(b)
		require.NoError(t, err)
		assert.Equal(t, "2.350", quo.String())

		rem, err := a.Rem(b)
		require.NoError(t, err)
		assert.Equal(t, "0.700", rem.String())

		// Mixed scales align to the larger one.
		sum, err = decimal.New(11, 1).Add(decimal.New(111111, 5))
		require.NoError(t, err)
		assert.Equal(t, "2.21111", sum.String())

		rem, err = decimal.New(-47, 1).Rem(decimal.New(2, 0))
		require.NoError(t, err)
		assert.Equal(t, "-0.7", rem.String())
	})

	t.Run("ArithmeticErrors", func(t *testing.T) {
		_, err := decimal.New(1, 0).Div(decimal.New(0, 2))
		assert.True(t, errors.Is(err, decimal.ErrDivisionByZero))

		_, err = decimal.New(1, 0).Rem(decimal.New(0, 0))
		assert.True(t, errors.Is(err, decimal.ErrDivisionByZero))

		_, err = decimal.New(math.MaxInt64, 0).Add(decimal.New(1, 0))
		assert.True(t, errors.Is(err, decimal.ErrOverflow))

		_, err = decimal.New(math.MinInt64, 0).Sub(decimal.New(1, 0))
		assert.True(t, errors.Is(err, decimal.ErrOverflow))

		_, err = decimal.New(math.MaxInt64, 0).Mul(decimal.New(2, 0))
		assert.True(t, errors.Is(err, decimal.ErrOverflow))

		_, err = decimal.New(math.MinInt64, 0).Neg()
		assert.True(t, errors.Is(err, decimal.ErrOverflow))
	})

	t.Run("MulScaleCap", func(t *testing.T) {
		// 1.0000000001 * 1.0000000001 has 20 fractional digits.
		x := decimal.New(10000000001, 10)
		got, err := x.Mul(x)
		require.NoError(t, err)
		assert.Equal(t, int64(decimal.MaxScale), got.Scale)
		assert.Equal(t, "1.000000000200000000", got.String())
	})

	t.Run("Cmp", func(t *testing.T) {
		assert.Equal(t, 0, decimal.New(47, 1).Cmp(decimal.New(4700, 3)))
		assert.Equal(t, -1, decimal.New(1, 0).Cmp(decimal.New(11, 1)))
		assert.Equal(t, 1, decimal.New(2, 0).Cmp(decimal.New(111111, 5)))
		// Alignment would overflow; falls back to exact comparison.
		assert.Equal(t, 1, decimal.New(math.MaxInt64, 0).Cmp(decimal.New(1, 18)))
		assert.Equal(t, -1, decimal.New(math.MinInt64, 0).Cmp(decimal.New(-1, 18)))
	})

	t.Run("Conversions", func(t *testing.T) {
		assert.Equal(t, 4.7, decimal.New(4700, 3).Float64())
		assert.Equal(t, int64(4), decimal.New(4700, 3).Truncate())
		assert.Equal(t, int64(-4), decimal.New(-4700, 3).Truncate())

		d, err := decimal.FromFloat64(1.25, 1)
		require.NoError(t, err)
		assert.Equal(t, decimal.New(13, 1), d)

		_, err = decimal.FromFloat64(1e30, 0)
		assert.True(t, errors.Is(err, decimal.ErrOverflow))

		f, err := decimal.ScaleFactor(5)
		require.NoError(t, err)
		assert.Equal(t, decimal.New(100000, 5), f)
	})

	t.Run("JSON", func(t *testing.T) {
		var out struct {
			D decimal.Decimal `json:"d"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"d": 1.10}`), &out))
		assert.Equal(t, decimal.New(110, 2), out.D)

		b, err := json.Marshal(out)
		require.NoError(t, err)
		assert.Equal(t, `{"d":1.10}`, string(b))
	})

	t.Run("YAML", func(t *testing.T) {
		var out struct {
			D decimal.Decimal `yaml:"d"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(`d: "4.700"`), &out))
		assert.Equal(t, decimal.New(4700, 3), out.D)

		b, err := yaml.Marshal(out)
		require.NoError(t, err)
		assert.Equal(t, "d: \"4.700\"\n", string(b))
	})
}
