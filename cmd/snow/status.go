// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/pkg/repository"
)

// sizeOf reports a human-readable size for files still present in the
// worktree; deleted entries report "gone" rather than an error.
func sizeOf(worktreeRoot, rel string) string {
	info, err := os.Stat(filepath.Join(worktreeRoot, filepath.FromSlash(rel)))
	if err != nil {
		return "gone"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show worktree status against HEAD",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openHere()
			if err != nil {
				return err
			}
			entries, err := r.GetStatus(repository.StatusFilter{
				Mode: repository.SizeAndHashForSmallFiles,
			}, plumbing.ZeroHash)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				if e.Kind == repository.Unmodified {
					continue
				}
				if e.IsDir {
					fmt.Fprintf(out, "%-10s %s\n", e.Kind, e.RelPath)
					continue
				}
				fmt.Fprintf(out, "%-10s %s  (%s)\n", e.Kind, e.RelPath, sizeOf(r.WorktreeRoot, e.RelPath))
			}
			return nil
		},
	}
}
