package packaging

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LegacyCodeHQ/implgen/emitter"
)

func sampleUnit() *emitter.Unit {
	return &emitter.Unit{
		Package:   "com.example",
		ClassName: "TaskImpl",
		Source:    "package com.example;\n\npublic class TaskImpl {\n}\n",
	}
}

func TestWriteSource(t *testing.T) {
	root := t.TempDir()

	path, err := WriteSource(root, sampleUnit())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "com", "example", "TaskImpl.java"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleUnit().Source, string(content))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteSource_OverwritesExisting(t *testing.T) {
	root := t.TempDir()
	_, err := WriteSource(root, sampleUnit())
	require.NoError(t, err)

	unit := sampleUnit()
	unit.Source = "package com.example;\n"
	path, err := WriteSource(root, unit)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, unit.Source, string(content))
}

func TestWriteSource_DirectoryCreationFailed(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "com")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	_, err := WriteSource(root, sampleUnit())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDirectoryCreationFailed))
}

func TestWriteJar(t *testing.T) {
	dir := t.TempDir()
	classFile := filepath.Join(dir, "TaskImpl.class")
	require.NoError(t, os.WriteFile(classFile, []byte{0xCA, 0xFE, 0xBA, 0xBE}, 0o644))
	jarPath := filepath.Join(dir, "out", "task.jar")

	require.NoError(t, WriteJar(jarPath, []JarEntry{{Name: "com/example/TaskImpl.class", File: classFile}}))

	r, err := zip.OpenReader(jarPath)
	require.NoError(t, err)
	defer r.Close()

	contents := map[string][]byte{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		contents[f.Name] = data
	}

	assert.Equal(t, []byte{0xCA, 0xFE, 0xBA, 0xBE}, contents["com/example/TaskImpl.class"])
	assert.Contains(t, string(contents["META-INF/MANIFEST.MF"]), "Manifest-Version: 1.0")
}

func TestWriteJar_MissingEntryRemovesJar(t *testing.T) {
	dir := t.TempDir()
	jarPath := filepath.Join(dir, "task.jar")

	err := WriteJar(jarPath, []JarEntry{{Name: "a/B.class", File: filepath.Join(dir, "missing.class")}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPackagingIO))

	_, statErr := os.Stat(jarPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCompilerArgs(t *testing.T) {
	c := Compiler{
		SourcePath: []string{"src/main/java", "gen"},
		ClassPath:  []string{"lib/a.jar"},
		Flags:      `--release 17 -Xlint:"all"`,
	}

	args, err := c.args("out", []string{"A.java"})
	require.NoError(t, err)

	sep := string(filepath.ListSeparator)
	assert.Equal(t, []string{
		"-d", "out", "-encoding", "UTF-8", "-implicit:none",
		"-sourcepath", "src/main/java" + sep + "gen",
		"-classpath", "lib/a.jar",
		"--release", "17", "-Xlint:all",
		"A.java",
	}, args)
}

func TestCompilerArgs_UnterminatedQuote(t *testing.T) {
	_, err := Compiler{Flags: `-Xlint:"all`}.args("out", nil)
	require.Error(t, err)
}

func TestCompile_MissingCompiler(t *testing.T) {
	c := Compiler{Javac: filepath.Join(t.TempDir(), "no-such-javac")}

	err := c.Compile(context.Background(), t.TempDir(), "A.java")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompilationFailed))
}

func TestImplementJar_WithJavac(t *testing.T) {
	if _, err := exec.LookPath("javac"); err != nil {
		t.Skip("javac not available")
	}

	jarPath := filepath.Join(t.TempDir(), "task.jar")
	require.NoError(t, Driver{}.ImplementJar(context.Background(), jarPath, sampleUnit()))

	r, err := zip.OpenReader(jarPath)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"META-INF/MANIFEST.MF", "com/example/TaskImpl.class"}, names)
}

func TestImplementJar_CompilationFailed(t *testing.T) {
	if _, err := exec.LookPath("javac"); err != nil {
		t.Skip("javac not available")
	}

	unit := sampleUnit()
	unit.Source = "package com.example;\n\npublic class TaskImpl extends Missing {\n}\n"
	jarPath := filepath.Join(t.TempDir(), "task.jar")

	err := Driver{}.ImplementJar(context.Background(), jarPath, unit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompilationFailed))
	assert.NotEmpty(t, errors.FlattenDetails(err))

	_, statErr := os.Stat(jarPath)
	assert.True(t, os.IsNotExist(statErr))
}
