// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/snowtrack/snow/modules/hasher"
	"github.com/snowtrack/snow/modules/ioctx"
	"github.com/snowtrack/snow/modules/plumbing"
	"github.com/snowtrack/snow/modules/vfs"
)

var ErrObjectMissing = errors.New("snow: object missing from database")

// WrittenObject is what writeObject returns: the content fingerprint and
// the stat subset a TreeFile needs (spec §4.6 step 6).
type WrittenObject struct {
	Fingerprint plumbing.Hash
	RelPath     string
	Size        int64
}

// ObjectPath returns the sharded on-disk path objects/XX/YY/<hash><ext>
// for a fingerprint, relative to commondir (spec §3).
func ObjectPath(h plumbing.Hash, ext string) string {
	hex := h.String()
	return filepath.Join(dirObjects, hex[0:2], hex[2:4], hex+ext)
}

// HasObject reports whether an object with this fingerprint/extension is
// present.
func (d *Database) HasObject(h plumbing.Hash, ext string) bool {
	return vfs.PathExists(filepath.Join(d.commondir, ObjectPath(h, ext)))
}

// WriteObject copies srcAbs into the object store, following spec §4.6's
// writeObject algorithm: copy to a scratch file, hash the copy (not the
// original, closing the TOCTOU window where the source mutates mid-hash),
// then atomically place it at its content-addressed destination.
func (d *Database) WriteObject(srcAbs string, ioc *ioctx.Context) (WrittenObject, error) {
	st, err := os.Stat(srcAbs)
	if err != nil {
		return WrittenObject{}, fmt.Errorf("odb: stat %s: %w", srcAbs, err)
	}

	tmpDir := filepath.Join(d.commondir, dirObjectsTmp)
	if err := vfs.EnsureDir(tmpDir); err != nil {
		return WrittenObject{}, err
	}
	tmp := filepath.Join(tmpDir, fmt.Sprintf("%d-%d", os.Getpid(), rand.Int63()))
	defer os.Remove(tmp)

	if _, err := ioc.CopyFile(srcAbs, tmp, st.Size()); err != nil {
		return WrittenObject{}, fmt.Errorf("odb: copy into scratch: %w", err)
	}

	res, err := hasher.Hash(tmp)
	if err != nil {
		return WrittenObject{}, fmt.Errorf("odb: hash scratch copy: %w", err)
	}

	ext := filepath.Ext(srcAbs)
	relPath := ObjectPath(res.FileHash, ext)
	dest := filepath.Join(d.commondir, relPath)

	if vfs.PathExists(dest) {
		// Another writer raced us to the same content; our copy is
		// redundant (spec §4.6 step 4).
		return WrittenObject{Fingerprint: res.FileHash, RelPath: relPath, Size: res.Size}, nil
	}

	if err := vfs.EnsureDir(filepath.Dir(dest)); err != nil {
		return WrittenObject{}, err
	}

	if d.Compress {
		if err := compressTo(tmp, dest); err != nil {
			return WrittenObject{}, fmt.Errorf("odb: compress object: %w", err)
		}
		return WrittenObject{Fingerprint: res.FileHash, RelPath: relPath, Size: res.Size}, nil
	}

	if err := os.Rename(tmp, dest); err != nil {
		// Ignore "already exists"/permission races: a concurrent writer
		// won (spec §4.6 step 4). Any other error is real.
		if vfs.PathExists(dest) || errors.Is(err, os.ErrExist) || errors.Is(err, os.ErrPermission) {
			return WrittenObject{Fingerprint: res.FileHash, RelPath: relPath, Size: res.Size}, nil
		}
		return WrittenObject{}, fmt.Errorf("odb: rename object into place: %w", err)
	}
	return WrittenObject{Fingerprint: res.FileHash, RelPath: relPath, Size: res.Size}, nil
}

// ReadObject copies the object backing treeFile to dstAbs and stamps the
// destination's mtime with the tree file's recorded mtime, so the next
// status pass sees it as unmodified (spec §4.6 readObject).
func (d *Database) ReadObject(h plumbing.Hash, ext string, dstAbs string, mtime time.Time, ioc *ioctx.Context) error {
	relPath := ObjectPath(h, ext)
	src := filepath.Join(d.commondir, relPath)
	if !vfs.PathExists(src) {
		return fmt.Errorf("%w: %w", ErrObjectMissing, plumbing.NoSuchObject(h))
	}
	if err := vfs.EnsureDir(filepath.Dir(dstAbs)); err != nil {
		return err
	}

	var size int64
	if st, err := os.Stat(src); err == nil {
		size = st.Size()
	}

	if d.Compress && isZstd(src) {
		if err := decompressTo(src, dstAbs); err != nil {
			return fmt.Errorf("odb: decompress object: %w", err)
		}
	} else if _, err := ioc.CopyFile(src, dstAbs, size); err != nil {
		return fmt.Errorf("odb: read object: %w", err)
	}

	if !mtime.IsZero() {
		_ = vfs.Utimes(dstAbs, mtime, mtime)
	}
	return nil
}

// compressTo and decompressTo back the optional compression hook spec
// §4.6 step 5 and §1 leave config-only (off by default; see SPEC_FULL.md §11).
func compressTo(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	w, err := zstd.NewWriter(out)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func decompressTo(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	r, err := zstd.NewReader(in)
	if err != nil {
		return err
	}
	defer r.Close()
	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

func isZstd(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		return false
	}
	for i, b := range zstdMagic {
		if magic[i] != b {
			return false
		}
	}
	return true
}
