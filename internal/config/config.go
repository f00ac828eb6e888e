// Package config layers environment variables and an optional config file under command line
// flags.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. IMPLGEN_JAVAC_FLAGS.
const EnvPrefix = "IMPLGEN"

// DefaultFile is read from the working directory when no config file is given.
const DefaultFile = ".implgen.yaml"

// Keys that may be set outside the command line.
const (
	KeySource     = "source"
	KeyManifest   = "manifest"
	KeyRevision   = "revision"
	KeyOutput     = "output"
	KeyJavac      = "javac"
	KeyJavacFlags = "javac-flags"
	KeyClassPath  = "classpath"
	KeyJobs       = "jobs"
	KeyVerbose    = "verbose"
	KeyLogJSON    = "log-json"
)

// Keys lists every configurable key.
var Keys = []string{
	KeySource, KeyManifest, KeyRevision, KeyOutput, KeyJavac, KeyJavacFlags,
	KeyClassPath, KeyJobs, KeyVerbose, KeyLogJSON,
}

// New returns a viper instance reading IMPLGEN_* variables and the config file. An explicit
// configFile must exist; the default file is optional.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	for _, key := range Keys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "failed to bind %s", key)
		}
	}

	path := configFile
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return v, nil
		}
		path = DefaultFile
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "failed to read config file %s", path),
			"Config files are YAML with keys: "+strings.Join(Keys, ", ")+".")
	}
	return v, nil
}

// Apply sets every flag the user did not pass on the command line from v, so flags win over
// the environment and the environment wins over the config file.
func Apply(v *viper.Viper, flags *pflag.FlagSet) error {
	var applyErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if applyErr != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}

		var value string
		switch f.Value.Type() {
		case "stringSlice", "stringArray":
			value = strings.Join(v.GetStringSlice(f.Name), ",")
		default:
			value = v.GetString(f.Name)
		}

		if err := flags.Set(f.Name, value); err != nil {
			applyErr = errors.Wrapf(err, "invalid value %q for %s", value, f.Name)
		}
	})
	return applyErr
}
