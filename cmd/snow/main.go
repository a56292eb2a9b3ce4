// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Command snow is the CLI front end for the version-control storage
// engine in pkg/repository: init, add, rm, status, commit, log, checkout,
// diff and tag over large binary assets (spec §6 "Command surface").
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		logrus.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	}

	root := &cobra.Command{
		Use:           "snow",
		Short:         "Version control for large binary assets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "make the operation more talkative")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}

	root.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newRmCmd(),
		newStatusCmd(),
		newCommitCmd(),
		newLogCmd(),
		newCheckoutCmd(),
		newDiffCmd(),
		newTagCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "snow: %v\n", err)
		os.Exit(1)
	}
}
