// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand_Run(t *testing.T) {
	rder := []byte{}
	stdin := bytes.NewReader(rder)
	r, w, _ := os.Pipe()
	cm := NewConfigCommand(stdin, w, os.Stderr)
	cm.Config = NewConfig()
	cm.Config.NullDefaultType = "decimal(2)"

	err := cm.Run(context.Background())
	if err != nil {
		t.Fatalf("Config Run doesn't work: %s", err)
	}
	w.Close()
	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `null-default-type = "decimal(2)"`) {
		t.Fatalf("Unexpected config: \n%s", buf.String())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		expErr string
	}{
		{
			name:   "defaults",
			modify: func(c *Config) {},
		},
		{
			name:   "json",
			modify: func(c *Config) { c.Format = FormatJSON },
		},
		{
			name:   "format",
			modify: func(c *Config) { c.Format = "csv" },
			expErr: "invalid format 'csv'",
		},
		{
			name:   "concurrency",
			modify: func(c *Config) { c.Concurrency = 0 },
			expErr: "invalid concurrency 0",
		},
		{
			name:   "null-default-type",
			modify: func(c *Config) { c.NullDefaultType = "blob" },
			expErr: "unknown type 'blob'",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := NewConfig()
			test.modify(c)
			err := c.Validate()
			if test.expErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), test.expErr)
			}
		})
	}
}

func TestConfig_TOMLRoundTrip(t *testing.T) {
	c := NewConfig()
	c.Verbose = true
	c.Concurrency = 9
	buf, err := toml.Marshal(*c)
	require.NoError(t, err)

	got := &Config{}
	require.NoError(t, toml.Unmarshal(buf, got))
	assert.Equal(t, c, got)
}
