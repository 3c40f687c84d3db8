package errors_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/featurebasedb/sqltype/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	t.Run("Is", func(t *testing.T) {
		uncoded := newUncoded("uncoded error")
		nov := newErrNoOverload("i32 < string")
		inv := newErrInvalidCast("bool", "decimal(2)")
		novCustom := errors.New(errNoOverload, "custom overload message")

		tests := []struct {
			err    error
			target errors.Code
			exp    bool
		}{
			{
				err:    uncoded,
				target: errUncoded,
				exp:    true,
			},
			{
				err:    uncoded,
				target: errNoOverload,
				exp:    false,
			},
			{
				err:    nov,
				target: errNoOverload,
				exp:    true,
			},
			{
				err:    nov,
				target: errInvalidCast,
				exp:    false,
			},
			{
				err:    errors.Wrap(inv, "with message"),
				target: errInvalidCast,
				exp:    true,
			},
			{
				err:    novCustom,
				target: errNoOverload,
				exp:    true,
			},
			{
				err:    errors.WithStack(structured{code: errNoOverload}),
				target: errNoOverload,
				exp:    true,
			},
			{
				err:    fmt.Errorf("plain"),
				target: errNoOverload,
				exp:    false,
			},
		}

		for i, test := range tests {
			t.Run(fmt.Sprintf("test-%d", i), func(t *testing.T) {
				got := errors.Is(test.err, test.target)
				assert.Equal(t, test.exp, got)
			})
		}
	})

	t.Run("CodeOf", func(t *testing.T) {
		code, ok := errors.CodeOf(errors.Wrap(newErrInvalidCast("i32", "bool"), "resolving"))
		require.True(t, ok)
		assert.Equal(t, errInvalidCast, code)

		_, ok = errors.CodeOf(fmt.Errorf("plain"))
		assert.False(t, ok)
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		err := errors.Wrap(newErrNoOverload("string < i32"), "compiling")
		out := errors.MarshalJSON(err)
		assert.True(t, strings.Contains(out, `"code":"NoOverload"`), out)
		assert.True(t, strings.Contains(out, `"message":"no overload for string < i32"`), out)

		assert.False(t, strings.HasSuffix(out, "\n"), out)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "no overload for string < i32", decoded["message"])
		assert.Equal(t, "compiling: no overload for string < i32", decoded["wrapped"])

		back := errors.UnmarshalJSON(strings.NewReader(out))
		assert.True(t, errors.Is(back, errNoOverload))
		assert.Equal(t, "compiling: no overload for string < i32", back.Error())
	})

	t.Run("UnmarshalJSONGarbage", func(t *testing.T) {
		back := errors.UnmarshalJSON(strings.NewReader("not json"))
		assert.Equal(t, "not json", back.Error())
		_, ok := errors.CodeOf(back)
		assert.False(t, ok)
	})
}

// Test error codes.

const (
	errUncoded     errors.Code = "Uncoded"
	errNoOverload  errors.Code = "NoOverload"
	errInvalidCast errors.Code = "InvalidCast"
)

type structured struct {
	code errors.Code
}

func (s structured) Error() string          { return "structured" }
func (s structured) ErrorCode() errors.Code { return s.code }

func newUncoded(message string) error {
	return errors.New(
		errUncoded,
		message,
	)
}

func newErrNoOverload(desc string) error {
	return errors.New(
		errNoOverload,
		"no overload for "+desc,
	)
}

func newErrInvalidCast(from, to string) error {
	return errors.New(
		errInvalidCast,
		"cannot cast "+from+" to "+to,
	)
}
