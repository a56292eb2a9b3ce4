// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/snowtrack/snow/modules/ioctx"
)

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Stage files for removal",
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
			if err := idx.DeleteFiles(args); err != nil {
				return err
			}
			idx.ProcessedAdded = nil
			ioc := ioctx.New(ioctx.WithLogger(r.DB.Logger()))
			defer ioc.Close()
			return idx.WriteFiles(r.DB, ioc)
		},
	}
}
