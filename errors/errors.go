// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package errors wraps pkg/errors and adds error codes, so that callers can
// test for a class of failure without matching on message text.
package errors

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Code is an error code which can be used to check against a given error. For
// example, see the Is() method.
type Code string

const (
	ErrUncoded Code = "Uncoded"
)

// Coder is implemented by any error which carries a Code. Types outside this
// package (for example structured resolution errors) implement it to take
// part in Is().
type Coder interface {
	ErrorCode() Code
}

// New returns a coded error carrying a stack trace.
func New(code Code, message string) error {
	return errors.WithStack(codedError{
		Code:    code,
		Message: message,
	})
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Cause(err error) error {
	return errors.Cause(err)
}

func Errorf(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// Is reports whether any error in err's chain carries the target Code.
func Is(err error, target Code) bool {
	for err != nil {
		if c, ok := err.(Coder); ok && c.ErrorCode() == target {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// CodeOf returns the first Code found in err's chain.
func CodeOf(err error) (Code, bool) {
	for err != nil {
		if c, ok := err.(Coder); ok {
			return c.ErrorCode(), true
		}
		err = errors.Unwrap(err)
	}
	return "", false
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func WithMessage(err error, message string) error {
	return errors.WithMessage(err, message)
}

func WithMessagef(err error, format string, args ...interface{}) error {
	return errors.WithMessagef(err, format, args...)
}

func WithStack(err error) error {
	return errors.WithStack(err)
}

func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

func Wrapf(err error, fmt string, args ...interface{}) error {
	return errors.Wrapf(err, fmt, args...)
}

// codedError is the fundamental type used by this package to provide coded
// errors.
type codedError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Wrapped string `json:"wrapped,omitempty"`
}

func (ce codedError) Error() string {
	if ce.Wrapped != "" {
		return ce.Wrapped
	}
	return ce.Message
}

func (ce codedError) ErrorCode() Code {
	return ce.Code
}

// MarshalJSON returns the provided error as a json object (as a string)
// representing a codedError. The code is taken from the first Coder in the
// chain; an error with no code marshals with an empty code, which is
// different from ErrUncoded. Operator text such as < and > is written as is,
// not HTML escaped.
func MarshalJSON(err error) string {
	out := &codedError{
		Message: Cause(err).Error(),
		Wrapped: err.Error(),
	}
	if code, ok := CodeOf(err); ok {
		out.Code = code
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jerr := enc.Encode(out); jerr != nil {
		return out.Error()
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}

// UnmarshalJSON converts the byte slice into a codedError. If the bytes can't
// unmarshal to a codedError, a normal error will be returned containing the
// string value of the byte slice.
func UnmarshalJSON(r io.Reader) error {
	b, _ := io.ReadAll(r)

	out := &codedError{}
	if err := json.Unmarshal(b, out); err != nil {
		return errors.New(string(b))
	}
	return out
}
