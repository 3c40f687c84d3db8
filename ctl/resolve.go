// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package ctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/featurebasedb/sqltype"
	fberrors "github.com/featurebasedb/sqltype/errors"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner"
	"github.com/featurebasedb/sqltype/sql3/planner/types"
	"github.com/jedib0t/go-pretty/table"
	"github.com/jedib0t/go-pretty/text"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const nullValue = "NULL"

// ResolveCommand represents a command for resolving the expressions of a
// fixture file.
type ResolveCommand struct {
	*sqltype.CmdIO

	// Path is the fixture file; "-" reads stdin.
	Path string

	// Eval evaluates each resolved expression against every fixture row.
	Eval bool

	// Dump prints the compiled plan of each expression.
	Dump bool

	Config *Config
}

// NewResolveCommand returns a new instance of ResolveCommand.
func NewResolveCommand(stdin io.Reader, stdout, stderr io.Writer) *ResolveCommand {
	return &ResolveCommand{
		CmdIO:  sqltype.NewCmdIO(stdin, stdout, stderr),
		Config: NewConfig(),
	}
}

// resolveResult is the outcome for one expression. A failure to resolve or
// evaluate is reported in Err and does not stop the others.
type resolveResult struct {
	Expr     string          `json:"expr"`
	Resolved string          `json:"resolved,omitempty"`
	Type     string          `json:"type,omitempty"`
	Values   []string        `json:"values,omitempty"`
	Err      json.RawMessage `json:"error,omitempty"`

	err  error
	plan types.PlanOperator
}

// Run resolves every expression of the fixture and prints the results.
func (cmd *ResolveCommand) Run(ctx context.Context) error {
	if err := cmd.Config.Validate(); err != nil {
		return err
	}

	fixture, err := cmd.readFixture()
	if err != nil {
		return err
	}
	src, err := fixture.Source()
	if err != nil {
		return err
	}
	exprs, err := fixture.Bind()
	if err != nil {
		return err
	}
	p, err := cmd.Config.NewPlanner(cmd.Logger())
	if err != nil {
		return err
	}

	results := make([]*resolveResult, len(exprs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cmd.Config.Concurrency)
	for i, expr := range exprs {
		i, expr := i, expr
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = cmd.resolve(ctx, p, src, expr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if cmd.Dump {
		cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
		for _, r := range results {
			if r.plan == nil {
				continue
			}
			fmt.Fprintf(cmd.Stdout, "-- %s\n", r.Expr)
			cfg.Fdump(cmd.Stdout, r.plan.Plan())
		}
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			r.Err = json.RawMessage(fberrors.MarshalJSON(r.err))
		}
	}
	cmd.Logger().Debugf("resolved %d expressions, %d failed", len(results), failed)

	if cmd.Config.Format == FormatJSON {
		enc := json.NewEncoder(cmd.Stdout)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encoding results")
	}
	cmd.writeTable(results)
	return nil
}

func (cmd *ResolveCommand) readFixture() (*Fixture, error) {
	if cmd.Path == "-" {
		return ReadFixture(cmd.Stdin)
	}
	f, err := os.Open(cmd.Path)
	if err != nil {
		return nil, errors.Wrap(err, "opening fixture")
	}
	defer f.Close()
	return ReadFixture(f)
}

// resolve resolves a single expression and, if asked, runs it over src.
func (cmd *ResolveCommand) resolve(ctx context.Context, p *planner.ExecutionPlanner, src types.PlanOperator, expr parser.Expr) *resolveResult {
	r := &resolveResult{Expr: expr.String()}

	resolved, err := p.ResolveExpression(ctx, expr)
	if err != nil {
		r.err = err
		return r
	}
	r.Resolved = resolved.String()
	r.Type = resolved.DataType().TypeDescription()

	if !cmd.Eval && !cmd.Dump {
		return r
	}

	m, err := p.CompileMap(ctx, []parser.Expr{expr}, src)
	if err != nil {
		r.err = err
		return r
	}
	plan, err := planner.NewPlanOpProjectionOfColumns([]int{len(src.Schema())}, m)
	if err != nil {
		r.err = err
		return r
	}
	optimized, err := p.OptimizePlan(ctx, plan)
	if err != nil {
		r.err = err
		return r
	}
	r.plan = optimized

	if !cmd.Eval {
		return r
	}
	iter, err := optimized.Iterator(ctx, nil)
	if err != nil {
		r.err = err
		return r
	}
	for {
		row, err := iter.Next(ctx)
		if err == types.ErrNoMoreRows {
			break
		} else if err != nil {
			r.err = err
			return r
		}
		if row[0] == nil {
			r.Values = append(r.Values, nullValue)
			continue
		}
		r.Values = append(r.Values, fmt.Sprintf("%v", row[0]))
	}
	return r
}

func (cmd *ResolveCommand) writeTable(results []*resolveResult) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.Stdout)

	// Don't uppercase the header values.
	t.Style().Format.Header = text.FormatDefault

	header := table.Row{"expr", "resolved", "type"}
	if cmd.Eval {
		header = append(header, "values")
	}
	header = append(header, "error")
	t.AppendHeader(header)

	for _, r := range results {
		row := table.Row{r.Expr, r.Resolved, r.Type}
		if cmd.Eval {
			row = append(row, strings.Join(r.Values, ", "))
		}
		errText := ""
		if r.err != nil {
			errText = r.err.Error()
		}
		row = append(row, errText)
		t.AppendRow(row)
	}
	t.Render()
}
