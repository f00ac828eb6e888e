package watch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/LegacyCodeHQ/implgen/cmd/implement"
	"github.com/LegacyCodeHQ/implgen/internal/logging"
	"github.com/LegacyCodeHQ/implgen/loader"
)

const debounceInterval = 300 * time.Millisecond

// watcher regenerates implementations when inputs change.
type watcher struct {
	opts      *implement.Options
	out       io.Writer
	manifests map[string]bool
	debounce  time.Duration
	// generated holds the absolute paths written by the last successful pass. Events on them
	// are the watcher's own output and never trigger another pass.
	generated map[string]bool
}

func newWatcher(opts *implement.Options, out io.Writer) *watcher {
	manifests := make(map[string]bool, len(opts.Manifests))
	for _, m := range opts.Manifests {
		if abs, err := filepath.Abs(m); err == nil {
			manifests[abs] = true
		}
	}
	return &watcher{
		opts:      opts,
		out:       out,
		manifests: manifests,
		debounce:  debounceInterval,
		generated: map[string]bool{},
	}
}

// run watches until ctx is done. Regeneration failures are reported and watching continues.
func (w *watcher) run(ctx context.Context, ready chan<- struct{}) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer fw.Close()

	for _, root := range w.opts.SourceRoots {
		if err := addWatchDirs(fw, root); err != nil {
			return errors.Wrapf(err, "failed to watch %s", root)
		}
	}
	for m := range w.manifests {
		if err := fw.Add(filepath.Dir(m)); err != nil {
			return errors.Wrapf(err, "failed to watch manifest %s", m)
		}
	}
	if ready != nil {
		close(ready)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				addIfDirectory(fw, event.Name)
			}
			if !w.isRelevantChange(event) {
				continue
			}
			logging.Debug("input changed", map[string]any{"path": event.Name, "op": event.Op.String()})
			pending = time.After(w.debounce)

		case <-pending:
			pending = nil
			w.regenerate(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logging.Warn("watcher error", map[string]any{"error": err.Error()})
		}
	}
}

// regenerate runs one generation pass and reports its outcome.
func (w *watcher) regenerate(ctx context.Context) bool {
	results, err := implement.Generate(ctx, w.opts)
	if err != nil {
		fmt.Fprintf(w.out, "regeneration failed: %v\n", err)
		return false
	}
	generated := make(map[string]bool, len(results))
	for _, r := range results {
		fmt.Fprintf(w.out, "%s -> %s\n", r.Type, r.Path)
		if abs, err := filepath.Abs(r.Path); err == nil {
			generated[abs] = true
		}
	}
	w.generated = generated
	return true
}

func (w *watcher) isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil || w.generated[abs] {
		return false
	}
	return filepath.Ext(event.Name) == loader.JavaExt || w.manifests[abs]
}

func addWatchDirs(fw *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, fw.Add)
}

func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && loader.IsSkippedDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(fw *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(fw, path)
	}
}
