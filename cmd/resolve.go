// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"io"

	"github.com/featurebasedb/sqltype/ctl"
	"github.com/spf13/cobra"
)

func newResolveCommand(stdin io.Reader, stdout, stderr io.Writer, conf *ctl.Config) *cobra.Command {
	res := ctl.NewResolveCommand(stdin, stdout, stderr)
	res.Config = conf
	resCmd := &cobra.Command{
		Use:   "resolve <fixture.yaml>",
		Short: "Resolve the expressions of a fixture file.",
		Long: `resolve reads a YAML fixture of a table and expressions bound to its
columns, and prints each expression as resolved along with its result type.
A fixture path of "-" reads stdin.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeLog, err := newLogger(conf, stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			res.SetLogger(l)
			res.Path = args[0]
			return res.Run(context.Background())
		},
	}
	flags := resCmd.Flags()
	flags.BoolVar(&res.Eval, "eval", false, "Evaluate each expression against the fixture rows.")
	flags.BoolVar(&res.Dump, "dump", false, "Print the compiled plan of each expression.")
	return resCmd
}
