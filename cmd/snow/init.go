// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/snowtrack/snow/pkg/repository"
)

func newInitCmd() *cobra.Command {
	var commondir string
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create a new repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worktree := "."
			if len(args) == 1 {
				worktree = args[0]
			}
			abs, err := filepath.Abs(worktree)
			if err != nil {
				return err
			}
			r, err := repository.Init(abs, commondir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository in %s\n", r.DB.CommonDir())
			return nil
		},
	}
	cmd.Flags().StringVar(&commondir, "commondir", "", "store repository state outside the worktree")
	return cmd
}
