//go:build linux

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import "golang.org/x/sys/unix"

// magicFamily maps a statfs magic number to the Family it represents.
// Linux itself never mounts APFS or ReFS natively; those entries exist for
// the fuse-backed drivers (apfs-fuse, refs-linux) some CI and dual-boot
// hosts use to reach a foreign volume. Generalized from the teacher's
// modules/strengthen/statfs_linux.go magic map, narrowed to the families
// spec §4.2 names.
var magicFamily = map[int64]Family{
	0x42535041: APFS,    // BSPA, linux-apfs-rw
	0x4244:     HFSPlus, // hfs
	0x7265_6673: ReFS,   // no stable upstream magic; placeholder for fuse-refs mounts
	0x5346544e: NTFS,
	0x2011bab0: FAT32, // exFAT reports here on some kernels; treated as FAT32-family
	0x4d44:     FAT16, // classic msdos/vfat magic
}

func classifyPath(path string) (Family, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Other, err
	}
	if f, ok := magicFamily[int64(st.Type)]; ok { //nolint:unconvert
		return f, nil
	}
	return Other, nil
}
