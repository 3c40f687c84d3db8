// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package sql3_test

import (
	"context"
	"testing"

	"github.com/featurebasedb/sqltype/logger"
	"github.com/featurebasedb/sqltype/sql3"
	"github.com/featurebasedb/sqltype/sql3/parser"
	"github.com/featurebasedb/sqltype/sql3/planner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvers(t *testing.T) {
	expr := &parser.BinaryExpr{
		X:  &parser.StringLit{Value: "1"},
		Op: parser.LT,
		Y:  &parser.IntegerLit{Value: "2"},
	}

	p, err := planner.NewExecutionPlanner(logger.NopLogger)
	require.NoError(t, err)

	tests := []struct {
		name     string
		resolver sql3.Resolver
		exp      string
	}{
		{name: "nop", resolver: sql3.NewNopResolver(), exp: "'1' < 2"},
		{name: "planner", resolver: p, exp: "1 < 2"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := test.resolver.ResolveExpression(context.Background(), expr)
			require.NoError(t, err)
			assert.Equal(t, test.exp, got.String())
		})
	}
}
