// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/featurebasedb/sqltype/logger"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		verbose  bool
		expDebug bool
	}{
		{verbose: false, expDebug: false},
		{verbose: true, expDebug: true},
	}
	for _, test := range tests {
		buf := &bytes.Buffer{}
		l := logger.NewLogger(buf, test.verbose).WithPrefix("resolve: ")
		l.Debugf("chose %s", "i32 + i32")
		l.Infof("resolved %d", 3)

		out := buf.String()
		if got := strings.Contains(out, "resolve: DEBUG: chose i32 + i32"); got != test.expDebug {
			t.Errorf("verbose=%v: debug logged %v, expected %v: %s", test.verbose, got, test.expDebug, out)
		}
		if !strings.Contains(out, "resolve: INFO:  resolved 3") {
			t.Errorf("verbose=%v: missing info line: %s", test.verbose, out)
		}
	}
}

func TestBufferLogger(t *testing.T) {
	l := logger.NewBufferLogger()
	l.WithPrefix("a: ").Warnf("x=%d", 1)
	l.Errorf("y")

	buf, err := l.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if exp := "a: WARN:  x=1\nERROR: y\n"; string(buf) != exp {
		t.Fatalf("got %q, expected %q", buf, exp)
	}
}
