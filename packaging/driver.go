package packaging

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/LegacyCodeHQ/implgen/emitter"
	"github.com/LegacyCodeHQ/implgen/internal/logging"
)

// Driver places generated units on disk.
type Driver struct {
	Compiler Compiler
}

// Implement writes the unit's source under root and returns the file path.
func (d Driver) Implement(root string, unit *emitter.Unit) (string, error) {
	return WriteSource(root, unit)
}

// ImplementJar compiles the unit in a private scratch directory and packs the class file into
// jarPath at its package path.
func (d Driver) ImplementJar(ctx context.Context, jarPath string, unit *emitter.Unit) error {
	scratch, err := os.MkdirTemp("", "implgen-")
	if err != nil {
		return errors.Mark(errors.Wrap(err, "failed to create scratch directory"), ErrDirectoryCreationFailed)
	}
	defer os.RemoveAll(scratch)

	sourceFile, err := WriteSource(filepath.Join(scratch, "src"), unit)
	if err != nil {
		return err
	}

	classes := filepath.Join(scratch, "classes")
	if err := os.MkdirAll(classes, 0o755); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to create %s", classes), ErrDirectoryCreationFailed)
	}

	if err := d.Compiler.Compile(ctx, classes, sourceFile); err != nil {
		return errors.Wrapf(err, "failed to compile %s", unit.QualifiedName())
	}

	classFile := filepath.Join(classes, filepath.FromSlash(unit.ClassPath()))
	if _, err := os.Stat(classFile); err != nil {
		return errors.Mark(errors.Wrapf(err, "compiled class for %s not found", unit.QualifiedName()), ErrPackagingIO)
	}

	if err := WriteJar(jarPath, []JarEntry{{Name: unit.ClassPath(), File: classFile}}); err != nil {
		return err
	}

	logging.Info("wrote jar", map[string]any{"class": unit.QualifiedName(), "jar": jarPath})
	return nil
}
