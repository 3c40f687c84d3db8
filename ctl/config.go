// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"fmt"
	"io"

	"github.com/featurebasedb/sqltype"
	"github.com/featurebasedb/sqltype/logger"
	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner"
	toml "github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Config is the configuration shared by every command. Each field is also a
// command line flag and an environment variable.
type Config struct {
	Verbose bool `toml:"verbose"`

	// LogPath is the file logs are appended to; stderr if empty.
	LogPath string `toml:"log-path"`

	// NullDefaultType is the type given to a NULL with no type evidence of
	// its own.
	NullDefaultType string `toml:"null-default-type"`

	Format string `toml:"format"`

	// Concurrency is the number of expressions resolved at once.
	Concurrency int `toml:"concurrency"`
}

// NewConfig returns an instance of Config with default options.
func NewConfig() *Config {
	return &Config{
		NullDefaultType: parser.BaseTypeString,
		Format:          FormatTable,
		Concurrency:     4,
	}
}

// Validate checks the options which can't be checked by flag parsing alone.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatTable, FormatJSON:
	default:
		return errors.Errorf("invalid format '%s'", c.Format)
	}
	if c.Concurrency < 1 {
		return errors.Errorf("invalid concurrency %d", c.Concurrency)
	}
	if _, ok := parser.DataTypeFromString(c.NullDefaultType); !ok {
		return sql3.NewErrUnknownType(c.NullDefaultType)
	}
	return nil
}

// NewPlanner returns an ExecutionPlanner configured by c.
func (c *Config) NewPlanner(l logger.Logger) (*planner.ExecutionPlanner, error) {
	typ, ok := parser.DataTypeFromString(c.NullDefaultType)
	if !ok {
		return nil, sql3.NewErrUnknownType(c.NullDefaultType)
	}
	return planner.NewExecutionPlanner(l, planner.OptPlannerNullDefaultType(typ))
}

// ConfigCommand represents a command for printing the effective config.
type ConfigCommand struct {
	*sqltype.CmdIO
	Config *Config
}

// NewConfigCommand returns a new instance of ConfigCommand.
func NewConfigCommand(stdin io.Reader, stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{
		CmdIO: sqltype.NewCmdIO(stdin, stdout, stderr),
	}
}

// Run prints out the config.
func (cmd *ConfigCommand) Run(_ context.Context) error {
	buf, err := toml.Marshal(*cmd.Config)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Stdout, string(buf))
	return nil
}
