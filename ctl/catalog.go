// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/featurebasedb/sqltype"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/pkg/errors"
)

// CatalogCommand represents a command for listing the overload catalog.
type CatalogCommand struct {
	*sqltype.CmdIO

	// Ops limits the listing to these operators and functions; everything
	// is listed if it is empty.
	Ops []string

	Config *Config
}

// NewCatalogCommand returns a new instance of CatalogCommand.
func NewCatalogCommand(stdin io.Reader, stdout, stderr io.Writer) *CatalogCommand {
	return &CatalogCommand{
		CmdIO:  sqltype.NewCmdIO(stdin, stdout, stderr),
		Config: NewConfig(),
	}
}

// catalogEntry is one row of the listing.
type catalogEntry struct {
	Op        string `json:"op"`
	Signature string `json:"signature"`
	Result    string `json:"result"`
	Impl      string `json:"impl"`
}

// Run prints every signature of the selected operators.
func (cmd *CatalogCommand) Run(_ context.Context) error {
	if err := cmd.Config.Validate(); err != nil {
		return err
	}

	ops := cmd.Ops
	if len(ops) == 0 {
		ops = planner.Operators()
	}

	var entries []catalogEntry
	for _, op := range ops {
		// operators are keyed by their symbol, functions by lower case name
		name := strings.ToLower(op)
		if tok := parser.LookupOperator(op); tok != parser.ILLEGAL {
			name = tok.String()
		}
		sigs := planner.OverloadCandidates(name)
		if len(sigs) == 0 {
			return errors.Errorf("no operator or function named '%s'", op)
		}
		for _, sig := range sigs {
			entries = append(entries, catalogEntry{
				Op:        sig.Op,
				Signature: sig.String(),
				Result:    sig.Result.TypeDescription(),
				Impl:      sig.Impl,
			})
		}
	}
	cmd.Logger().Debugf("listing %d signatures", len(entries))

	if cmd.Config.Format == FormatJSON {
		enc := json.NewEncoder(cmd.Stdout)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(entries), "encoding catalog")
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.Stdout)

	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault

	t.AppendHeader(table.Row{"op", "signature", "result", "impl"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Op, e.Signature, e.Result, e.Impl})
	}
	t.Render()
	return nil
}
