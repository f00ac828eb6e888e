package packaging

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

const manifestPath = "META-INF/MANIFEST.MF"

// JarEntry is a file to place in a jar.
type JarEntry struct {
	// Name is the slash-separated path inside the archive.
	Name string
	// File is the path of the file on disk.
	File string
}

// WriteJar writes a jar holding a default manifest and the given entries. On failure the
// partially written jar is removed.
func WriteJar(jarPath string, entries []JarEntry) (err error) {
	if dir := filepath.Dir(jarPath); dir != "" {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return errors.Mark(errors.Wrapf(mkErr, "failed to create %s", dir), ErrDirectoryCreationFailed)
		}
	}

	f, err := os.Create(jarPath)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to create %s", jarPath), ErrPackagingIO)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = errors.Mark(errors.Wrapf(closeErr, "failed to close %s", jarPath), ErrPackagingIO)
		}
		if err != nil {
			_ = os.Remove(jarPath)
		}
	}()

	zw := zip.NewWriter(f)
	if err := writeManifest(zw); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to write manifest to %s", jarPath), ErrPackagingIO)
	}
	for _, entry := range entries {
		if err := copyEntry(zw, entry); err != nil {
			return errors.Mark(errors.Wrapf(err, "failed to add %s to %s", entry.Name, jarPath), ErrPackagingIO)
		}
	}
	if err := zw.Close(); err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to finish %s", jarPath), ErrPackagingIO)
	}
	return nil
}

func writeManifest(zw *zip.Writer) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: manifestPath, Method: zip.Deflate, Modified: time.Now()})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, "Manifest-Version: 1.0\r\nCreated-By: implgen\r\n\r\n")
	return err
}

func copyEntry(zw *zip.Writer, entry JarEntry) error {
	in, err := os.Open(entry.File)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	w, err := zw.CreateHeader(&zip.FileHeader{Name: entry.Name, Method: zip.Deflate, Modified: info.ModTime()})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
