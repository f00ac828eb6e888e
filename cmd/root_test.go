package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()
	for _, name := range []string{"implement", "show", "watch"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Fatalf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()
	root.SetArgs([]string{"--version"})
	var out bytes.Buffer
	root.SetOut(&out)

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "implgen version dev\n") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestRootCommand_ConfigFileSuppliesSources(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(src, "jobs"), 0o755); err != nil {
		t.Fatalf("os.MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "jobs", "Task.java"), []byte("package jobs;\n\npublic interface Task {\n    void run();\n}\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	configPath := filepath.Join(dir, "implgen.yaml")
	if err := os.WriteFile(configPath, []byte("source:\n  - "+src+"\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	root := NewRootCommand()
	root.SetArgs([]string{"show", "jobs.Task", "--config", configPath})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out.String(), "public void run()") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestPrintError_IncludesHints(t *testing.T) {
	t.Parallel()

	err := errors.WithHint(errors.New("type not found"), "pass --source")
	var out bytes.Buffer
	printError(&out, err)

	if got := out.String(); !strings.Contains(got, "Error: type not found\n") || !strings.Contains(got, "Hint: pass --source\n") {
		t.Fatalf("printError() = %q", got)
	}
}
