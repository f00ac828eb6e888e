// Package loader finds Java inputs and turns them into a type graph.
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	ignore "github.com/sabhiram/go-gitignore"
)

// JavaExt is the extension of Java source files.
const JavaExt = ".java"

// SkipDirs are directory names never descended into during discovery.
var SkipDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	".gradle":      {},
	".idea":        {},
	".vscode":      {},
	"node_modules": {},
	"build":        {},
	"target":       {},
	"out":          {},
}

// Discover returns the .java files under roots, sorted. A root may also name a single .java
// file. Paths matched by a root's .gitignore are skipped.
func Discover(roots []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "source root %s", root),
				"Pass an existing directory or .java file with --source.")
		}

		if !info.IsDir() {
			if filepath.Ext(root) == JavaExt {
				if _, dup := seen[root]; !dup {
					seen[root] = struct{}{}
					files = append(files, root)
				}
			}
			continue
		}

		found, err := walk(root)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}

	sort.Strings(files)
	return files, nil
}

func walk(root string) ([]string, error) {
	gi := loadGitignore(root)

	var results []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}

		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := SkipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(relative(root, path)+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&os.ModeSymlink != 0 || filepath.Ext(name) != JavaExt {
			return nil
		}
		if gi != nil && gi.MatchesPath(relative(root, path)) {
			return nil
		}

		results = append(results, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}
	return results, nil
}

// IsSkippedDir reports whether a directory name is excluded from discovery.
func IsSkippedDir(name string) bool {
	_, skip := SkipDirs[name]
	return skip || (strings.HasPrefix(name, ".") && name != "." && name != "..")
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
