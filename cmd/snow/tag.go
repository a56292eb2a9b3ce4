// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <name> [target]",
		Short: "Create a lightweight, non-moving tag reference",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openHere()
			if err != nil {
				return err
			}
			target := "HEAD"
			if len(args) == 2 {
				target = args[1]
			}
			return r.CreateTag(args[0], target)
		},
	}
	return cmd
}
