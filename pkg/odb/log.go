// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package odb

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mainlogMu sync.Mutex

// AppendLog appends a single human-readable line to logs/mainlog (spec §3
// "append-only human-readable log", spec §10.1 "a flat-file writer
// appending one line per mutating operation"). Matches the teacher's plain
// fmt.Fprintf narrational style for anything user-facing, as opposed to
// the structured logrus sink used elsewhere.
func (d *Database) AppendLog(op, summary string) error {
	mainlogMu.Lock()
	defer mainlogMu.Unlock()

	path := filepath.Join(d.commondir, fileMainlog)
	if err := ensureParent(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("odb: open mainlog: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s\t%s\t%s\n", time.Now().UTC().Format(time.RFC3339), op, summary)
	_, err = f.WriteString(line)
	return err
}

func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
