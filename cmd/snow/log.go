// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowtrack/snow/modules/plumbing"
)

func newLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show commit history reachable from HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openHere()
			if err != nil {
				return err
			}
			head, err := r.HeadCommit()
			if err != nil {
				return err
			}
			commits, err := r.DB.ReadCommits()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			seen := make(map[plumbing.Hash]bool)
			cur := head
			for cur != nil && !seen[cur.Hash] {
				seen[cur.Hash] = true
				fmt.Fprintf(out, "commit %s\n", cur.Hash)
				fmt.Fprintf(out, "Date:   %s\n\n", cur.Date.Local())
				fmt.Fprintf(out, "    %s\n\n", cur.Message)
				if len(cur.Parent) == 0 {
					break
				}
				cur = commits[cur.Parent[0]]
			}
			return nil
		},
	}
}
