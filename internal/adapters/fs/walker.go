// Package fs provides file system adapters for walking and hashing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root in lexical order.
// Directories named .git or .jj, directories whose name matches one of the
// ignores patterns, and the directories listed in exclude are not descended into.
// Unreadable subdirectories are skipped.
func (w *Walker) WalkFiles(root string, ignores []string, exclude ...string) iter.Seq[string] {
	excluded := make(map[string]struct{}, len(exclude))
	for _, dir := range exclude {
		excluded[filepath.Clean(dir)] = struct{}{}
	}

	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return nil //nolint:nilerr // unreadable entries are skipped
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				if _, ok := excluded[filepath.Clean(path)]; ok {
					return filepath.SkipDir
				}
				if w.shouldSkipDir(d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// shouldSkipDir checks if a directory should be skipped based on ignore patterns.
func (w *Walker) shouldSkipDir(name string, ignores []string) bool {
	if domain.IsVCSDir(name) {
		return true
	}

	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}

	return false
}
