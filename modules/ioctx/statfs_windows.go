//go:build windows

// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package ioctx

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

func classifyPath(path string) (Family, error) {
	vol := filepath.VolumeName(filepath.Clean(path)) + `\`
	volPtr, err := windows.UTF16PtrFromString(vol)
	if err != nil {
		return Other, err
	}
	fsName := make([]uint16, 64)
	if err := windows.GetVolumeInformation(volPtr, nil, 0, nil, nil, nil, &fsName[0], uint32(len(fsName))); err != nil {
		return Other, err
	}
	switch strings.ToUpper(windows.UTF16ToString(fsName)) {
	case "NTFS":
		return NTFS, nil
	case "REFS":
		return ReFS, nil
	case "FAT32":
		return FAT32, nil
	case "FAT":
		return FAT16, nil
	default:
		return Other, nil
	}
}
