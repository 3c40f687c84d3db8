// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"io"

	"github.com/featurebasedb/sqltype/ctl"
	"github.com/spf13/cobra"
)

func newCatalogCommand(stdin io.Reader, stdout, stderr io.Writer, conf *ctl.Config) *cobra.Command {
	cat := ctl.NewCatalogCommand(stdin, stdout, stderr)
	cat.Config = conf
	catCmd := &cobra.Command{
		Use:   "catalog [op...]",
		Short: "List operator and function overloads.",
		Long: `catalog lists the signature, result type and implementation tag of
every overload of the given operators and functions, or of all of them.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, closeLog, err := newLogger(conf, stderr)
			if err != nil {
				return err
			}
			defer closeLog()
			cat.SetLogger(l)
			cat.Ops = args
			return cat.Run(context.Background())
		},
	}
	return catCmd
}
