// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/featurebasedb/sqltype/cmd"
	"github.com/spf13/cobra"
)

func failErr(t *testing.T, err error, context ...string) {
	ctx := strings.Join(context, "; ")
	if err != nil {
		t.Fatal(ctx, ": ", err)
	}
}

// tExec executes the given `cmd`, which will be writing its output to `w`, and
// can be read from `out`. It will fail the test if the command does not return
// within 1 second. Useful for testing help messages and such.
func tExec(t *testing.T, cmd *cobra.Command, out io.Reader, w io.WriteCloser) (output []byte) {
	done := make(chan struct{})
	go func() {
		var err error
		output, err = io.ReadAll(out)
		if err != nil {
			t.Error(err)
		}
		close(done)
	}()
	err := cmd.Execute()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing cmd's stdout: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second * 1):
		t.Fatal("Test failed due to command execution timeout")
	}
	return output
}

// ExecNewRootCommand executes the sqltype root command with the given
// arguments and returns its output. It will fail if the command does not
// complete within 1 second.
func ExecNewRootCommand(t *testing.T, args ...string) string {
	out, w := io.Pipe()
	rc := cmd.NewRootCommand(os.Stdin, w, w)
	rc.SetArgs(args)
	output := tExec(t, rc, out, w)
	return string(output)
}

// execNewRootCommandErr executes the root command and returns the error it
// fails with.
func execNewRootCommandErr(t *testing.T, args ...string) error {
	buf := &bytes.Buffer{}
	rc := cmd.NewRootCommand(os.Stdin, buf, buf)
	rc.SetArgs(args)
	err := rc.Execute()
	if err == nil {
		t.Fatalf("expected %v to fail, got output: %s", args, buf.String())
	}
	return err
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	failErr(t, os.WriteFile(path, []byte(content), 0600), "writing "+name)
	return path
}

func TestRootCommand(t *testing.T) {
	outStr := ExecNewRootCommand(t, "--help")
	if !strings.Contains(outStr, "Usage:") ||
		!strings.Contains(outStr, "Available Commands:") ||
		!strings.Contains(outStr, "--help") {
		t.Fatalf("Expected standard usage message from RootCommand, but got: %s", outStr)
	}
	for _, sub := range []string{"catalog", "resolve", "config", "generate-config"} {
		if !strings.Contains(outStr, sub) {
			t.Fatalf("Expected subcommand %s in usage, but got: %s", sub, outStr)
		}
	}
}

func TestGenerateConfigCommand(t *testing.T) {
	outStr := ExecNewRootCommand(t, "generate-config")
	if !strings.Contains(outStr, `null-default-type = "string"`) {
		t.Fatalf("Unexpected default config: %s", outStr)
	}
}

func TestCatalogCommand(t *testing.T) {
	outStr := ExecNewRootCommand(t, "catalog", "length", "upper")
	for _, s := range []string{"length(string)", "upper(string)"} {
		if !strings.Contains(outStr, s) {
			t.Fatalf("Expected %s in catalog, but got: %s", s, outStr)
		}
	}
}

func TestResolveCommand(t *testing.T) {
	fixture := writeFile(t, "fixture.yaml", `
columns:
  - {name: a, type: decimal(2)}
rows:
  - [1.25]
exprs:
  - op: "*"
    args: [{column: a}, {int: 2}]
`)
	outStr := ExecNewRootCommand(t, "resolve", "--eval", "--format", "json", fixture)
	for _, s := range []string{`"type": "decimal(2)"`, `"2.50"`} {
		if !strings.Contains(outStr, s) {
			t.Fatalf("Expected %s in output, but got: %s", s, outStr)
		}
	}
}

func TestConfigPrecedence(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("SQLTYPE_NULL_DEFAULT_TYPE", "i64")
		outStr := ExecNewRootCommand(t, "config")
		if !strings.Contains(outStr, `null-default-type = "i64"`) {
			t.Fatalf("Expected env to set null-default-type, got: %s", outStr)
		}
	})

	t.Run("file", func(t *testing.T) {
		conf := writeFile(t, "sqltype.toml", "format = \"json\"\nconcurrency = 2\n")
		outStr := ExecNewRootCommand(t, "config", "-c", conf)
		if !strings.Contains(outStr, `format = "json"`) || !strings.Contains(outStr, "concurrency = 2") {
			t.Fatalf("Expected config file values, got: %s", outStr)
		}
	})

	t.Run("flag-over-env-and-file", func(t *testing.T) {
		t.Setenv("SQLTYPE_CONCURRENCY", "3")
		conf := writeFile(t, "sqltype.toml", "concurrency = 2\n")
		outStr := ExecNewRootCommand(t, "config", "-c", conf, "--concurrency", "7")
		if !strings.Contains(outStr, "concurrency = 7") {
			t.Fatalf("Expected flag to win, got: %s", outStr)
		}
	})
}

func TestRootCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   func(t *testing.T) []string
		expErr string
	}{
		{
			name: "invalid-config-option",
			args: func(t *testing.T) []string {
				return []string{"config", "-c", writeFile(t, "bad.toml", "bogus = 1\n")}
			},
			expErr: "invalid option in configuration file: bogus",
		},
		{
			name: "invalid-format",
			args: func(t *testing.T) []string {
				return []string{"catalog", "--format", "xml"}
			},
			expErr: "invalid format 'xml'",
		},
		{
			name: "dry-run",
			args: func(t *testing.T) []string {
				return []string{"catalog", "--dry-run"}
			},
			expErr: "dry run",
		},
		{
			name: "resolve-needs-fixture",
			args: func(t *testing.T) []string {
				return []string{"resolve"}
			},
			expErr: "accepts 1 arg(s), received 0",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := execNewRootCommandErr(t, test.args(t)...)
			if !strings.Contains(err.Error(), test.expErr) {
				t.Fatalf("expected error containing %q, got %v", test.expErr, err)
			}
		})
	}
}

func TestLogPath(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "sqltype.log")
	_ = ExecNewRootCommand(t, "catalog", "--verbose", "--log-path", logPath, "sqrt")

	buf, err := os.ReadFile(logPath)
	failErr(t, err, "reading log")
	if !strings.Contains(string(buf), "DEBUG: listing 1 signatures") {
		t.Fatalf("Expected debug log in %s, got: %s", logPath, buf)
	}
}
