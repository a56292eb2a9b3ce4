// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package hasher streams a file through the content fingerprinting spec
// §4.3 defines: a whole-file SHA-256 digest plus, for small files, a set
// of fixed-window block hashes used for fast partial-modification
// screening.
package hasher

import (
	"io"
	"os"

	"github.com/snowtrack/snow/modules/plumbing"
)

// readBufferSize is the stream buffer spec §4.3 mandates ("4 MiB read
// buffer").
const readBufferSize = 4 << 20

// blockWindow is the fixed window size hashBlocks partitions the file
// into.
const blockWindow = 4 << 20

// BlockWindowSize exposes blockWindow to callers outside this package that
// need to know whether a single PartHash result covers an entire file
// (e.g. status's modification screening).
const BlockWindowSize = blockWindow

// blockHashCeiling is the file-size ceiling under which block hashes are
// computed at all (spec §4.3 "file ≤ 20 MiB").
const blockHashCeiling = 20 << 20

// Block is one fixed-size hashed window of a file.
type Block struct {
	Start int64        `json:"start"`
	End   int64        `json:"end"`
	Hash  plumbing.Hash `json:"hash"`
}

// Result is everything Hash produces for one file.
type Result struct {
	FileHash plumbing.Hash
	Size     int64
	Blocks   []Block // nil unless Size <= blockHashCeiling
}

// Hash streams path and returns its whole-file fingerprint plus, for
// files at or under the block-hash ceiling, the list of fixed-window
// block hashes.
func Hash(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Result{}, err
	}

	whole := plumbing.NewContentHasher()
	var blocks []Block
	computeBlocks := st.Size() <= blockHashCeiling

	buf := make([]byte, readBufferSize)
	var offset int64
	var blockHasher plumbing.ContentHasher
	var blockStart int64
	var blockLen int64
	if computeBlocks {
		blockHasher = plumbing.NewContentHasher()
	}

	flushBlock := func() {
		if !computeBlocks || blockLen == 0 {
			return
		}
		blocks = append(blocks, Block{Start: blockStart, End: blockStart + blockLen, Hash: blockHasher.Sum()})
		blockHasher = plumbing.NewContentHasher()
		blockStart += blockLen
		blockLen = 0
	}

	for {
		n, readErr := f.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if _, err := whole.Write(chunk); err != nil {
				return Result{}, err
			}
			if computeBlocks {
				pos := 0
				for pos < len(chunk) {
					room := blockWindow - blockLen
					take := int64(len(chunk) - pos)
					if take > room {
						take = room
					}
					if _, err := blockHasher.Write(chunk[pos : pos+int(take)]); err != nil {
						return Result{}, err
					}
					blockLen += take
					pos += int(take)
					if blockLen == blockWindow {
						flushBlock()
					}
				}
			}
			offset += int64(n)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return Result{}, readErr
		}
	}
	flushBlock()

	return Result{FileHash: whole.Sum(), Size: offset, Blocks: blocks}, nil
}

// PartHash hashes only the first block of path, for fast modification
// screening (spec §4.3 getPartHash).
func PartHash(path string) (plumbing.Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	defer f.Close()

	h := plumbing.NewContentHasher()
	if _, err := io.CopyN(h, f, blockWindow); err != nil && err != io.EOF {
		return plumbing.ZeroHash, err
	}
	return h.Sum(), nil
}
