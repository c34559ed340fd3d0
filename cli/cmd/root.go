/*
 * cstyle
 *
 * Copyright 2020 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

/*
Package cmd implements the cstyle command-line surface: check, dump-ast
and dump-tokens, built on cobra.
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/krotik/cstyle/config"
	"github.com/krotik/cstyle/util"
)

var (
	rootCmd = &cobra.Command{
		Use:           "cstyle",
		Short:         "cstyle",
		Long:          "cstyle - a style checker and auto-formatter for a C-family source language.",
		Version:       config.ProductVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	verbose bool
	log     util.Logger = util.NewNullLogger()
)

/*
Execute runs the cstyle CLI and returns any error encountered.
*/
func Execute() error {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	cobra.OnInitialize(func() {
		level := "error"
		if verbose {
			level = "debug"
		}
		if ll, err := util.NewLogLevelLogger(util.NewStdOutLogger(), level); err == nil {
			log = ll
		}
	})

	return rootCmd.Execute()
}
