// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from> [to]",
		Short: "Show added/modified/deleted paths between two commits",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openHere()
			if err != nil {
				return err
			}
			from := args[0]
			to := "HEAD"
			if len(args) == 2 {
				to = args[1]
			}
			result, err := r.Diff(to, from)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range result.Added {
				fmt.Fprintf(out, "A  %s\n", p)
			}
			for _, p := range result.Modified {
				fmt.Fprintf(out, "M  %s\n", p)
			}
			for _, p := range result.Deleted {
				fmt.Fprintf(out, "D  %s\n", p)
			}
			return nil
		},
	}
}
