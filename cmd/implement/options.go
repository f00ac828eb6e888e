package implement

import (
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/LegacyCodeHQ/implgen/internal/config"
	"github.com/LegacyCodeHQ/implgen/loader"
	"github.com/LegacyCodeHQ/implgen/packaging"
)

// Options configures a generation run.
type Options struct {
	Types       []string
	SourceRoots []string
	Manifests   []string
	Revision    string
	OutputDir   string
	Jar         string
	Javac       string
	JavacFlags  string
	ClassPath   []string
	Jobs        int
}

// NewOptions returns options with defaults applied.
func NewOptions() *Options {
	return &Options{
		OutputDir: ".",
		Jobs:      runtime.GOMAXPROCS(0),
	}
}

// AddInputFlags registers the flags naming where type metadata comes from.
func (o *Options) AddInputFlags(flags *pflag.FlagSet) {
	flags.StringSliceVarP(&o.SourceRoots, config.KeySource, "s", o.SourceRoots, "Java source roots or files to read types from (repeatable, comma-separated)")
	flags.StringSliceVarP(&o.Manifests, config.KeyManifest, "m", o.Manifests, "YAML type manifests to read types from (repeatable, comma-separated)")
	flags.StringVarP(&o.Revision, config.KeyRevision, "r", o.Revision, "Read sources and manifests as committed at this git revision")
}

// AddOutputFlags registers the flags controlling where and how implementations are written.
func (o *Options) AddOutputFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.OutputDir, config.KeyOutput, "o", o.OutputDir, "Root directory for generated sources")
	flags.StringVar(&o.Jar, "jar", "", "Compile and package into this jar (a directory when several types are given)")
	flags.StringVar(&o.Javac, config.KeyJavac, "", "javac executable (default: javac on PATH)")
	flags.StringVar(&o.JavacFlags, config.KeyJavacFlags, "", `Extra javac arguments, e.g. "--release 17"`)
	flags.StringSliceVar(&o.ClassPath, config.KeyClassPath, o.ClassPath, "Class path entries javac may read (comma-separated)")
	flags.IntVarP(&o.Jobs, config.KeyJobs, "j", o.Jobs, "Number of types generated concurrently")
}

// Inputs returns the loader inputs named by the options.
func (o *Options) Inputs() loader.Inputs {
	return loader.Inputs{SourceRoots: o.SourceRoots, Manifests: o.Manifests, Revision: o.Revision}
}

// Driver returns the packaging driver configured by the options.
func (o *Options) Driver() packaging.Driver {
	return packaging.Driver{Compiler: packaging.Compiler{
		Javac:      o.Javac,
		SourcePath: o.SourceRoots,
		ClassPath:  o.ClassPath,
		Flags:      o.JavacFlags,
	}}
}

// JarPath returns the jar holding the named implementation class. With several types the
// --jar value is a directory holding one jar per class.
func (o *Options) JarPath(implName string) string {
	if len(o.Types) <= 1 {
		return o.Jar
	}
	return filepath.Join(o.Jar, implName+".jar")
}

// Validate reports option combinations that cannot run.
func (o *Options) Validate() error {
	if len(o.Types) == 0 {
		return errors.WithHint(errors.New("no types given"), "Pass at least one fully qualified type name, e.g. com.example.Repository.")
	}
	if o.Jobs < 1 {
		return errors.Newf("--jobs must be at least 1, got %d", o.Jobs)
	}
	if o.Jar == "" && o.OutputDir == "" {
		return errors.New("--output must not be empty")
	}
	return nil
}
