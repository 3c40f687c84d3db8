// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestGenerateConfigCommand_Run(t *testing.T) {
	buf := &bytes.Buffer{}
	cm := NewGenerateConfigCommand(os.Stdin, buf, os.Stderr)
	err := cm.Run(context.Background())
	if err != nil {
		t.Fatalf("Config Run doesn't work: %s", err)
	}
	for _, s := range []string{`null-default-type = "string"`, `format = "table"`, "concurrency = 4"} {
		if !strings.Contains(buf.String(), s) {
			t.Fatalf("Unexpected config, no %q: %s", s, buf.String())
		}
	}
}
