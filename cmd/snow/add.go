// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/snowtrack/snow/modules/ioctx"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>...",
		Short: "Stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openHere()
			if err != nil {
				return err
			}
			idx, err := openIndex(r)
			if err != nil {
				return err
			}
			if err := idx.AddFiles(args); err != nil {
				return err
			}
			// A prior "snow add" in an earlier process run may have already
			// written this index; re-snapshot to pick up the new paths too.
			idx.ProcessedAdded = nil
			ioc := ioctx.New(ioctx.WithLogger(r.DB.Logger()))
			defer ioc.Close()
			return idx.WriteFiles(r.DB, ioc)
		},
	}
}
