//go:build darwin

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"strings"

	"golang.org/x/sys/unix"
)

func classifyPath(path string) (Family, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Other, err
	}
	name := int8SliceToString(st.Fstypename[:])
	switch strings.ToLower(name) {
	case "apfs":
		return APFS, nil
	case "hfs":
		return HFSPlus, nil
	case "msdos":
		return FAT32, nil
	default:
		return Other, nil
	}
}

func int8SliceToString(b []int8) string {
	buf := make([]byte, 0, len(b))
	for _, c := range b {
		if c == 0 {
			break
		}
		buf = append(buf, byte(c))
	}
	return string(buf)
}
