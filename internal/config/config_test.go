package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() (*pflag.FlagSet, *[]string, *string, *int, *int) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	sources := flags.StringSliceP(KeySource, "s", nil, "")
	javac := flags.String(KeyJavac, "javac", "")
	jobs := flags.IntP(KeyJobs, "j", 1, "")
	verbose := flags.CountP(KeyVerbose, "v", "")
	return flags, sources, javac, jobs, verbose
}

func TestApply_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "implgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("source:\n  - src/main/java\n  - gen\njobs: 4\nverbose: 2\n"), 0o644))

	v, err := New(path)
	require.NoError(t, err)

	flags, sources, javac, jobs, verbose := newFlags()
	require.NoError(t, flags.Parse(nil))
	require.NoError(t, Apply(v, flags))

	assert.Equal(t, []string{"src/main/java", "gen"}, *sources)
	assert.Equal(t, "javac", *javac)
	assert.Equal(t, 4, *jobs)
	assert.Equal(t, 2, *verbose)
}

func TestApply_FlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("IMPLGEN_JAVAC", "/opt/jdk/bin/javac")
	t.Setenv("IMPLGEN_JOBS", "8")

	v, err := New("")
	require.NoError(t, err)

	flags, _, javac, jobs, _ := newFlags()
	require.NoError(t, flags.Parse([]string{"-j", "2"}))
	require.NoError(t, Apply(v, flags))

	assert.Equal(t, "/opt/jdk/bin/javac", *javac)
	assert.Equal(t, 2, *jobs)
}

func TestApply_InvalidValue(t *testing.T) {
	t.Setenv("IMPLGEN_JOBS", "many")

	v, err := New("")
	require.NoError(t, err)

	flags, _, _, _, _ := newFlags()
	require.NoError(t, flags.Parse(nil))
	assert.Error(t, Apply(v, flags))
}

func TestNew_MissingExplicitFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
