// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/featurebasedb/sqltype"
	"github.com/featurebasedb/sqltype/ctl"
	"github.com/featurebasedb/sqltype/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is prepended to the upper cased flag name to give the
// environment variable for each option.
const envPrefix = "SQLTYPE"

func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	conf := ctl.NewConfig()
	rc := &cobra.Command{
		Use:   "sqltype",
		Short: "sqltype resolves the types of scalar SQL expressions.",
		Long: `sqltype resolves the types of scalar SQL expressions.

It picks an implementation for every operator and function in a bound
expression and makes every implicit conversion explicit. The overload
catalog can be listed, and fixture files of expressions can be resolved
and evaluated.

` + sqltype.VersionInfo() + "\n",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			err := setAllConfig(v, cmd.Flags(), envPrefix)
			if err != nil {
				return err
			}

			// return "dry run" error if "dry-run" flag is set
			ret, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return fmt.Errorf("problem getting dry-run flag: %v", err)
			}
			if ret {
				if cmd.Parent() != nil {
					return fmt.Errorf("dry run")
				}
			}

			return conf.Validate()
		},
	}
	rc.PersistentFlags().Bool("dry-run", false, "stop before executing")
	_ = rc.PersistentFlags().MarkHidden("dry-run")
	rc.PersistentFlags().StringP("config", "c", "", "Configuration file to read from.")
	setConfigFlags(rc.PersistentFlags(), conf)

	rc.AddCommand(newCatalogCommand(stdin, stdout, stderr, conf))
	rc.AddCommand(newResolveCommand(stdin, stdout, stderr, conf))
	rc.AddCommand(newConfigCommand(stdin, stdout, stderr, conf))
	rc.AddCommand(newGenerateConfigCommand(stdin, stdout, stderr))

	rc.SetOutput(stderr)
	return rc
}

// setConfigFlags defines a flag for every option of conf.
func setConfigFlags(flags *pflag.FlagSet, conf *ctl.Config) {
	flags.BoolVarP(&conf.Verbose, "verbose", "v", conf.Verbose, "Enable verbose logging.")
	flags.StringVar(&conf.LogPath, "log-path", conf.LogPath, "Log file to write to; stderr if empty.")
	flags.StringVar(&conf.NullDefaultType, "null-default-type", conf.NullDefaultType, "Type given to a NULL with no other type evidence.")
	flags.StringVar(&conf.Format, "format", conf.Format, "Output format: table or json.")
	flags.IntVar(&conf.Concurrency, "concurrency", conf.Concurrency, "Number of expressions resolved at once.")
}

// newLogger returns the logger described by conf, and a function closing
// whatever it writes to. Logs go to conf.LogPath if it is set, stderr
// otherwise.
func newLogger(conf *ctl.Config, stderr io.Writer) (logger.Logger, func(), error) {
	if conf.LogPath == "" {
		return logger.NewLogger(stderr, conf.Verbose), func() {}, nil
	}
	fw, err := logger.NewFileWriter(conf.LogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file '%s': %v", conf.LogPath, err)
	}
	return logger.NewLogger(fw, conf.Verbose), func() { fw.Close() }, nil
}

// setAllConfig takes a FlagSet to be the definition of all configuration
// options, as well as their defaults. It then reads from the command line, the
// environment, and a config file (if specified), and applies the configuration
// in that priority order. Since each flag in the set contains a pointer to
// where its value should be stored, setAllConfig can directly modify the value
// of each config variable.
//
// setAllConfig looks for environment variables which are capitalized versions
// of the flag names with dashes replaced by underscores, and prefixed with
// envPrefix plus an underscore.
func setAllConfig(v *viper.Viper, flags *pflag.FlagSet, envPrefix string) error {
	// add cmd line flag def to viper
	err := v.BindPFlags(flags)
	if err != nil {
		return err
	}

	// add env to viper
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	c := v.GetString("config")
	var flagErr error
	validTags := make(map[string]bool)
	flags.VisitAll(func(f *pflag.Flag) {
		validTags[f.Name] = true
	})

	// add config file to viper
	if c != "" {
		v.SetConfigFile(c)
		v.SetConfigType("toml")
		err := v.ReadInConfig()
		if err != nil {
			return fmt.Errorf("error reading configuration file '%s': %v", c, err)
		}

		for _, key := range v.AllKeys() {
			if _, ok := validTags[key]; !ok {
				return fmt.Errorf("invalid option in configuration file: %v", key)
			}
		}
	}

	// set all values from viper
	flags.VisitAll(func(f *pflag.Flag) {
		if flagErr != nil {
			return
		}
		if f.Changed {
			// If f.Changed is true, that means the value has already been set
			// by a flag, and we don't need to ask viper for it since the flag
			// is the highest priority.
			return
		}
		flagErr = f.Value.Set(v.GetString(f.Name))
	})
	return flagErr
}
