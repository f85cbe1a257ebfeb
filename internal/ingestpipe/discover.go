// Package ingestpipe orchestrates concurrent ingest and extract of a
// directory tree into and out of an engram, fanning per-file encode work
// across workers while keeping chunk-id allocation single-threaded.
package ingestpipe

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/amn-labs/holofs/internal/gitignore"
)

// sniffWindow is how many leading bytes of a file are inspected to
// decide text-vs-binary.
const sniffWindow = 512

// selfSkipNames are directory names Discover always skips, independent of
// .gitignore: version-control metadata and a stray engram directory nested
// inside the ingested tree, so re-ingesting a directory never encodes its
// own previous output.
var selfSkipNames = []string{".git", ".holofs"}

// Discover walks root and returns every regular file's path (relative to
// root, as filepath.Rel returns it, so using the OS path separator), skipping
// selfSkipNames directories and anything matched by `.gitignore` files
// found along the way, in a stable sorted order so ingest is deterministic
// regardless of the underlying filesystem's directory-entry ordering.
func Discover(root string) ([]string, error) {
	matcher := gitignore.New()
	if err := loadGitignore(matcher, root, ""); err != nil {
		return nil, err
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if gitignore.MatchesAnyPattern(d.Name(), selfSkipNames) {
				return filepath.SkipDir
			}
			if err := loadGitignore(matcher, root, rel); err != nil {
				return err
			}
			if matcher.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Match(rel, false) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

func loadGitignore(matcher *gitignore.Matcher, root, relDir string) error {
	path := filepath.Join(root, relDir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return matcher.AddFromFile(path, filepath.ToSlash(relDir))
}

// isText reports whether data's leading bytes look like text: no NUL
// byte in the first sniffWindow bytes.
func isText(data []byte) bool {
	window := data
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	return !bytes.Contains(window, []byte{0})
}
