// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package ignore implements the glob-based include/exclude matcher spec
// §4.4 describes: built-in default patterns plus a per-worktree
// ".snowignore" file, with "!" negation re-including a prior match.
package ignore

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/snowtrack/snow/modules/wildmatch"
)

// DefaultPatterns cover OS cruft, VCS metadata and editor scratch files
// spec §4.4 names explicitly.
var DefaultPatterns = []string{
	".DS_Store",
	"Thumbs.db",
	"thumbs.db",
	"._*",
	".git",
	".snow",
	".idea",
	"*.bkp",
	"*.tmp",
	"*~",
	"*.blend1",
	"*.blend2",
}

type rule struct {
	pattern  *wildmatch.Wildmatch
	inverted bool
}

// Matcher answers whether a relative path should be excluded from the
// worktree walk.
type Matcher struct {
	rules []rule
}

// New compiles patterns (in order) into a Matcher. Options mirror spec
// §4.4: matching is case-insensitive and dotfile-aware, and a directory
// pattern also covers its descendants.
func New(patterns []string) *Matcher {
	m := &Matcher{}
	for _, p := range patterns {
		m.add(p)
	}
	return m
}

func (m *Matcher) add(p string) {
	inverted := false
	if strings.HasPrefix(p, "!") {
		inverted = true
		p = p[1:]
	}
	if p == "" {
		return
	}
	opts := []func(*wildmatch.Wildmatch){wildmatch.CaseFold, wildmatch.Contents}
	if !strings.Contains(p, "/") {
		opts = append(opts, wildmatch.Basename)
	}
	m.rules = append(m.rules, rule{pattern: wildmatch.NewWildmatch(p, opts...), inverted: inverted})
}

// Match reports whether rel (POSIX-separated, relative to the worktree
// root) is ignored. Later rules override earlier ones, so a "!" rule can
// re-include a path excluded by an earlier pattern (spec §9's adopted
// "inversion re-includes" rule).
func (m *Matcher) Match(rel string, isDir bool) bool {
	// Slash-free patterns only see the basename, so a path under an ignored
	// directory is caught by checking its parent directory first.
	if i := strings.LastIndex(rel, "/"); i > 0 && m.Match(rel[:i], true) {
		return true
	}
	ignored := false
	for _, r := range m.rules {
		if r.pattern.MatchWithOpts(rel, wildmatch.MatchOpts{IsDirectory: isDir}) {
			ignored = !r.inverted
		}
	}
	return ignored
}

// IgnoredList returns the subset of paths that Match reports as ignored
// (spec §4.4 ignoredList). dirOf reports, for each path, whether it is a
// directory.
func (m *Matcher) IgnoredList(paths []string, dirOf func(string) bool) []string {
	var out []string
	for _, p := range paths {
		if m.Match(p, dirOf(p)) {
			out = append(out, p)
		}
	}
	return out
}

var (
	lineComment  = regexp.MustCompile(`//.*$`)
	blockComment = regexp.MustCompile(`/\*.*?\*/`)
)

// LoadFile reads a ".snowignore" file, stripping "//" line comments and
// "/* */" block comments, skipping blank lines, and returns the patterns
// in file order (without the default patterns).
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var patterns []string
	inBlock := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if inBlock {
			end := strings.Index(line, "*/")
			if end < 0 {
				continue
			}
			line = line[end+2:]
			inBlock = false
		}
		line = blockComment.ReplaceAllString(line, "")
		if start := strings.Index(line, "/*"); start >= 0 {
			line = line[:start]
			inBlock = true
		}
		line = lineComment.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return patterns, nil
}

// LoadWorktree builds the effective Matcher for a worktree: the built-in
// defaults followed by the worktree's ".snowignore", if present.
func LoadWorktree(worktreeRoot string) (*Matcher, error) {
	extra, err := LoadFile(worktreeRoot + "/.snowignore")
	if err != nil {
		return nil, err
	}
	patterns := make([]string, 0, len(DefaultPatterns)+len(extra))
	patterns = append(patterns, DefaultPatterns...)
	patterns = append(patterns, extra...)
	return New(patterns), nil
}
