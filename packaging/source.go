// Package packaging writes generated units to disk: as source files under a source root, or
// compiled with javac and packed into a jar.
package packaging

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/LegacyCodeHQ/implgen/emitter"
	"github.com/LegacyCodeHQ/implgen/internal/logging"
)

var (
	ErrDirectoryCreationFailed = errors.New("directory creation failed")
	ErrSourceWriteFailed       = errors.New("source write failed")
	ErrCompilationFailed       = errors.New("compilation failed")
	ErrPackagingIO             = errors.New("packaging I/O error")
)

// WriteSource writes unit under root at a path mirroring its package and returns the file
// path. The file is written to a temporary sibling and renamed into place, so a failed write
// never leaves a partial file at the destination.
func WriteSource(root string, unit *emitter.Unit) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(unit.SourcePath()))
	dir := filepath.Dir(target)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Mark(errors.Wrapf(err, "failed to create %s", dir), ErrDirectoryCreationFailed)
	}

	tmp, err := os.CreateTemp(dir, "."+unit.ClassName+"-*.java.tmp")
	if err != nil {
		return "", errors.Mark(errors.Wrapf(err, "failed to create temporary file in %s", dir), ErrSourceWriteFailed)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.WriteString(unit.Source); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", errors.Mark(errors.Wrapf(err, "failed to write %s", target), ErrSourceWriteFailed)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", errors.Mark(errors.Wrapf(err, "failed to write %s", target), ErrSourceWriteFailed)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", errors.Mark(errors.Wrapf(err, "failed to write %s", target), ErrSourceWriteFailed)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		cleanup()
		return "", errors.Mark(errors.Wrapf(err, "failed to move source into %s", target), ErrSourceWriteFailed)
	}

	logging.Info("wrote source", map[string]any{"class": unit.QualifiedName(), "file": target})
	return target, nil
}
