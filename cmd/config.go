// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"io"

	"github.com/featurebasedb/sqltype/ctl"
	"github.com/spf13/cobra"
)

func newConfigCommand(stdin io.Reader, stdout, stderr io.Writer, conf *ctl.Config) *cobra.Command {
	c := ctl.NewConfigCommand(stdin, stdout, stderr)
	c.Config = conf
	confCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the current configuration.",
		Long: `config prints the configuration in effect, after flags, environment
and config file have been applied, to stdout
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(context.Background())
		},
	}
	return confCmd
}
