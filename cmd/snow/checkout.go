// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowtrack/snow/pkg/repository"
)

func newCheckoutCmd() *cobra.Command {
	var newBranch string
	var reset bool
	var noRestoreDeleted, noRestoreModified, noDeleteNew bool
	cmd := &cobra.Command{
		Use:   "checkout [target]",
		Short: "Switch the worktree and HEAD to a commit, branch or tag",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "HEAD"
			if len(args) == 1 {
				target = args[0]
			}
			r, err := openHere()
			if err != nil {
				return err
			}

			flags := repository.RestoreDeletedItems | repository.RestoreModifiedItems
			if noRestoreDeleted {
				flags &^= repository.RestoreDeletedItems
			}
			if noRestoreModified {
				flags &^= repository.RestoreModifiedItems
			}
			if !noDeleteNew {
				flags |= repository.DeleteNewItems
			}
			if reset {
				flags |= repository.Reset
			}

			commit, err := r.Checkout(target, newBranch, flags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "HEAD is now at %s %s\n", commit.Hash.String()[:12], commit.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&newBranch, "branch", "b", "", "create and check out a new branch at target")
	cmd.Flags().BoolVarP(&reset, "reset", "n", false, "discard worktree changes instead of trashing them")
	cmd.Flags().BoolVar(&noRestoreDeleted, "no-restore-deleted", false, "do not restore files deleted in the worktree")
	cmd.Flags().BoolVar(&noRestoreModified, "no-restore-modified", false, "do not restore files modified in the worktree")
	cmd.Flags().BoolVarP(&noDeleteNew, "keep-new", "k", false, "keep files new to the worktree instead of removing them")
	return cmd
}
