// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package plumbing holds the small value types shared by every layer of the
// repository engine: content fingerprints and reference names.
package plumbing

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"sort"

	"github.com/zeebo/blake3"
)

const (
	// HashSize is the width, in bytes, of a fingerprint (256 bits).
	HashSize = 32
	// HashHexSize is the width, in hex characters, of a rendered fingerprint.
	HashHexSize = HashSize * 2
)

// Hash is a 256-bit content fingerprint, the address space for every object,
// tree, commit and reference target in the repository.
type Hash [HashSize]byte

// ZeroHash is the Hash value used as a sentinel for "no object".
var ZeroHash Hash

// NewHash decodes a hex string into a Hash. Malformed input decodes to a
// partial or zero Hash; callers that must distinguish malformed hex from the
// zero hash should use NewHashEx.
func NewHash(s string) Hash {
	b, _ := hex.DecodeString(s)
	var h Hash
	copy(h[:], b)
	return h
}

// NewHashEx decodes a hex string into a Hash, rejecting malformed input.
func NewHashEx(s string) (Hash, error) {
	if !ValidateHashHex(s) {
		return ZeroHash, fmt.Errorf("snow: %q is not a valid object fingerprint", s)
	}
	return NewHash(s), nil
}

// ValidateHashHex reports whether s is a syntactically valid 64-hex-digit
// fingerprint.
func ValidateHashHex(s string) bool {
	if len(s) != HashHexSize {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

func (h Hash) IsZero() bool {
	return h == ZeroHash
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first n hex characters of the fingerprint, used for
// human-facing log/status output.
func (h Hash) Short(n int) string {
	s := h.String()
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Hash) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if len(s) == 0 {
		*h = ZeroHash
		return nil
	}
	v, err := NewHashEx(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// HashSlice attaches sort.Interface to []Hash in increasing order.
type HashSlice []Hash

func (p HashSlice) Len() int           { return len(p) }
func (p HashSlice) Less(i, j int) bool { return bytes.Compare(p[i][:], p[j][:]) < 0 }
func (p HashSlice) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

// SortHashes sorts a slice of Hash values in increasing order.
func SortHashes(hs []Hash) { sort.Sort(HashSlice(hs)) }

// ContentHasher streams file bytes and produces the whole-file fingerprint
// (spec: SHA-256 of the file content). It is intentionally distinct from the
// fingerprint used for trees and commits (see StructureHasher): spec §4.3
// pins file content hashing to SHA-256, since object identity must match
// whatever external tooling independently verifies file content against.
type ContentHasher struct {
	hash.Hash
}

func NewContentHasher() ContentHasher {
	return ContentHasher{Hash: sha256.New()}
}

func (h ContentHasher) Sum() (out Hash) {
	copy(out[:], h.Hash.Sum(nil))
	return out
}

// HashReader hashes r in a single pass and returns the content fingerprint
// along with the number of bytes read.
func HashReader(r io.Reader) (Hash, int64, error) {
	h := NewContentHasher()
	n, err := io.Copy(h, r)
	if err != nil {
		return ZeroHash, n, err
	}
	return h.Sum(), n, nil
}

// StructureHasher hashes the *inputs* to a structural fingerprint: a tree
// directory's children digests, or a commit's identity line. Spec leaves the
// algorithm for these open; this repo uses BLAKE3 (teacher dependency
// github.com/zeebo/blake3), matching the teacher's own choice of hasher for
// its object identities.
type StructureHasher struct {
	hash.Hash
}

func NewStructureHasher() StructureHasher {
	return StructureHasher{Hash: blake3.New()}
}

func (h StructureHasher) Sum() (out Hash) {
	copy(out[:], h.Hash.Sum(nil))
	return out
}

// HashBytes produces a structural fingerprint over a single buffer in one
// shot, used for commit fingerprints (over `<repoId><date><message>`) and
// tree directory fingerprints (over the concatenation of children digests).
func HashBytes(b []byte) Hash {
	h := NewStructureHasher()
	_, _ = h.Write(b)
	return h.Sum()
}
