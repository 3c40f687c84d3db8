// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package sql3_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/featurebasedb/sqltype/logger"
	"github.com/featurebasedb/sqltype/sql3/planner"
	sql_test "github.com/featurebasedb/sqltype/sql3/test"
	"github.com/featurebasedb/sqltype/sql3/test/defs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQL_Execute(t *testing.T) {
	p, err := planner.NewExecutionPlanner(logger.NewLogfLogger(t))
	require.NoError(t, err)

	for i, test := range defs.TableTests {
		t.Run(test.Name(i), func(t *testing.T) {
			require.True(t, test.HasTable(), "expression tests need a source table")
			src := planner.NewPlanOpConstant(test.Table.Schema(), test.Table.Rows())

			for i, exprtest := range test.ExprTests {
				t.Run(exprtest.Name(i), func(t *testing.T) {
					// Check the resolved form of each expression.
					if exprtest.ExpResolved != nil {
						require.Len(t, exprtest.ExpResolved, len(exprtest.Exprs))
						for j, e := range exprtest.Exprs {
							resolved, err := p.ResolveExpression(context.Background(), e)
							require.NoError(t, err)
							assert.Equal(t, exprtest.ExpResolved[j], resolved.String())
						}
					}

					for _, optimize := range []bool{false, true} {
						t.Run(fmt.Sprintf("optimize-%t", optimize), func(t *testing.T) {
							rows, headers, err := sql_test.MustQueryRows(t, p, src, exprtest.Exprs, optimize)

							// Check expected error instead of results.
							if exprtest.ExpErr != "" {
								if assert.Error(t, err) {
									assert.Contains(t, err.Error(), exprtest.ExpErr)
								}
								return
							}

							require.NoError(t, err)

							// Check headers.
							hdrs := make([]string, len(headers))
							for i := range headers {
								hdrs[i] = headers[i].Type.TypeDescription()
							}
							assert.Equal(t, exprtest.ExpHdrs, hdrs)

							switch exprtest.Compare {
							case defs.CompareExactOrdered:
								assert.Equal(t, len(exprtest.ExpRows), len(rows))
								assert.EqualValues(t, exprtest.ExpRows, rows)
							case defs.CompareExactUnordered:
								assert.Equal(t, len(exprtest.ExpRows), len(rows))
								assert.ElementsMatch(t, exprtest.ExpRows, rows)
							default:
								t.Fatalf("unknown compare method '%s'", exprtest.Compare)
							}
						})
					}
				})
			}
		})
	}
}
