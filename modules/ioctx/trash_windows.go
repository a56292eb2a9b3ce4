//go:build windows

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import "os"

// platformTrash on Windows would normally shell a SHFileOperation-based
// recycle-bin helper (spec §1's out-of-scope "recycle-bin invocation");
// without that external helper wired in, fall back to a plain removal.
func platformTrash(paths []string) error {
	var firstErr error
	for _, p := range paths {
		if err := os.RemoveAll(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
