// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowtrack/snow/pkg/repository"
)

func newCommitCmd() *cobra.Command {
	var message string
	var allowEmpty bool
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record staged changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("a commit message is required (-m)")
			}
			r, err := openHere()
			if err != nil {
				return err
			}
			idx, err := openIndex(r)
			if err != nil {
				return err
			}
			commit, err := r.CreateCommit(idx, repository.CommitOptions{
				Message:    message,
				AllowEmpty: allowEmpty,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", commit.Hash.String()[:12], message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "allow an empty commit")
	return cmd
}
