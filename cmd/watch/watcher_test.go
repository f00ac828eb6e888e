package watch

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LegacyCodeHQ/implgen/cmd/implement"
)

// lockedBuffer is written by the watch loop while the test reads it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("os.MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
}

func TestAddWatchDirsSkipsBuildAndHiddenDirectories(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"com/example", "build/classes", ".git/objects", "target"} {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	var added []string
	if err := addWatchDirsWithAdder(root, func(path string) error {
		added = append(added, path)
		return nil
	}); err != nil {
		t.Fatalf("addWatchDirsWithAdder: %v", err)
	}

	want := []string{root, filepath.Join(root, "com"), filepath.Join(root, "com", "example")}
	if strings.Join(added, "|") != strings.Join(want, "|") {
		t.Fatalf("added = %v, want %v", added, want)
	}
}

func TestAddWatchDirsIgnoresMissingDirectoriesFromAdder(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "missing-dir")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatalf("mkdir target: %v", err)
	}

	adder := func(path string) error {
		if path == target {
			return fs.ErrNotExist
		}
		return nil
	}

	if err := addWatchDirsWithAdder(root, adder); err != nil {
		t.Fatalf("addWatchDirsWithAdder: %v", err)
	}
}

func TestAddWatchDirsSkipsBrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on Windows")
	}

	root := t.TempDir()
	linkPath := filepath.Join(root, "src.link")
	if err := os.Symlink("missing/dir", linkPath); err != nil {
		t.Fatalf("create symlink: %v", err)
	}

	var added []string
	adder := func(path string) error {
		added = append(added, path)
		return nil
	}

	if err := addWatchDirsWithAdder(root, adder); err != nil {
		t.Fatalf("addWatchDirsWithAdder: %v", err)
	}
	for _, path := range added {
		if path == linkPath {
			t.Fatalf("expected broken symlink to be skipped, but was added")
		}
	}
}

func TestIsRelevantChange(t *testing.T) {
	manifest := filepath.Join(t.TempDir(), "types.yaml")
	w := newWatcher(&implement.Options{Manifests: []string{manifest}}, &bytes.Buffer{})
	generated := filepath.Join(t.TempDir(), "jobs", "TaskImpl.java")
	w.generated[generated] = true

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "java write", event: fsnotify.Event{Name: "src/A.java", Op: fsnotify.Write}, want: true},
		{name: "java remove", event: fsnotify.Event{Name: "src/A.java", Op: fsnotify.Remove}, want: true},
		{name: "java chmod", event: fsnotify.Event{Name: "src/A.java", Op: fsnotify.Chmod}, want: false},
		{name: "other file", event: fsnotify.Event{Name: "src/notes.txt", Op: fsnotify.Write}, want: false},
		{name: "manifest", event: fsnotify.Event{Name: manifest, Op: fsnotify.Write}, want: true},
		{name: "other yaml", event: fsnotify.Event{Name: filepath.Join(filepath.Dir(manifest), "x.yaml"), Op: fsnotify.Write}, want: false},
		{name: "generated", event: fsnotify.Event{Name: generated, Op: fsnotify.Create}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.isRelevantChange(tc.event); got != tc.want {
				t.Fatalf("isRelevantChange(%v) = %v, want %v", tc.event, got, tc.want)
			}
		})
	}
}

func TestWatcherRegeneratesOnChange(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	taskFile := filepath.Join(src, "jobs", "Task.java")
	writeFile(t, taskFile, "package jobs;\n\npublic interface Task {\n    void run();\n}\n")

	opts := implement.NewOptions()
	opts.Types = []string{"jobs.Task"}
	opts.SourceRoots = []string{src}
	opts.OutputDir = out

	var log bytes.Buffer
	w := newWatcher(opts, &log)
	w.debounce = 20 * time.Millisecond
	if !w.regenerate(context.Background()) {
		t.Fatalf("initial regeneration failed:\n%s", log.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, ready) }()
	<-ready

	writeFile(t, taskFile, "package jobs;\n\npublic interface Task {\n    void run();\n    int attempts();\n}\n")

	implPath := filepath.Join(out, "jobs", "TaskImpl.java")
	deadline := time.Now().Add(5 * time.Second)
	for {
		content, _ := os.ReadFile(implPath)
		if strings.Contains(string(content), "public int attempts() {") {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			<-done
			t.Fatalf("TaskImpl.java was not regenerated:\n%s", content)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestWatcherIgnoresItsOwnOutputInsideSourceRoot(t *testing.T) {
	src := t.TempDir()
	taskFile := filepath.Join(src, "jobs", "Task.java")
	writeFile(t, taskFile, "package jobs;\n\npublic interface Task {\n    void run();\n}\n")

	opts := implement.NewOptions()
	opts.Types = []string{"jobs.Task"}
	opts.SourceRoots = []string{src}
	opts.OutputDir = src

	var log lockedBuffer
	w := newWatcher(opts, &log)
	w.debounce = 20 * time.Millisecond
	if !w.regenerate(context.Background()) {
		t.Fatalf("initial regeneration failed:\n%s", log.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, ready) }()
	<-ready

	writeFile(t, taskFile, "package jobs;\n\npublic interface Task {\n    void run();\n    int attempts();\n}\n")

	passes := func() int { return strings.Count(log.String(), "jobs.Task -> ") }
	deadline := time.Now().Add(5 * time.Second)
	for passes() < 2 {
		if time.Now().After(deadline) {
			cancel()
			<-done
			t.Fatalf("edit did not trigger a regeneration:\n%s", log.String())
		}
		time.Sleep(20 * time.Millisecond)
	}

	time.Sleep(500 * time.Millisecond)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if got := passes(); got != 2 {
		t.Fatalf("regenerations = %d, want 2 (initial pass and one for the edit):\n%s", got, log.String())
	}
}
