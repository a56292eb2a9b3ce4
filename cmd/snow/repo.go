// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/snowtrack/snow/pkg/index"
	"github.com/snowtrack/snow/pkg/repository"
)

// openHere discovers and opens the repository containing the current
// working directory.
func openHere() (*repository.Repository, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return repository.Open(cwd)
}

// openIndex loads the repository's main index, or a fresh one if none has
// been persisted yet.
func openIndex(r *repository.Repository) (*index.Index, error) {
	indexes, err := index.LoadAll(r.WorktreeRoot, r.DB)
	if err != nil {
		return nil, err
	}
	for _, idx := range indexes {
		if idx.ID == "" {
			return idx, nil
		}
	}
	return index.New(r.WorktreeRoot), nil
}
