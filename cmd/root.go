package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/implgen/cmd/implement"
	"github.com/LegacyCodeHQ/implgen/cmd/show"
	"github.com/LegacyCodeHQ/implgen/cmd/watch"
	"github.com/LegacyCodeHQ/implgen/internal/config"
	"github.com/LegacyCodeHQ/implgen/internal/logging"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

type rootOptions struct {
	configFile string
	verbosity  int
	logJSON    bool
}

// NewRootCommand returns the implgen command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "implgen",
		Short: "Generate stub implementations of Java interfaces and abstract classes",
		Long: `implgen reads Java type metadata from source trees or YAML manifests, works out
which methods a concrete subclass must still declare, and writes <Name>Impl.java with
stub bodies. It can also compile the result with javac and package it into a jar.

Use 'implgen --help' to see all available commands, or 'implgen <command> --help'
for detailed information about a specific command.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configure(cmd, opts)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logging.Sync()
		},
	}

	rootCmd.AddCommand(implement.NewCommand())
	rootCmd.AddCommand(show.NewCommand())
	rootCmd.AddCommand(watch.NewCommand())

	rootCmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}

	// Customize version template to show additional build info
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default: "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, config.KeyVerbose, "v", "Log progress to stderr (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVar(&opts.logJSON, config.KeyLogJSON, false, "Log as JSON lines")

	return rootCmd
}

// configure fills unset flags from the environment and config file, then starts logging.
func configure(cmd *cobra.Command, opts *rootOptions) error {
	v, err := config.New(opts.configFile)
	if err != nil {
		return err
	}
	if err := config.Apply(v, cmd.Flags()); err != nil {
		return err
	}

	logging.Initialize(cmd.ErrOrStderr(), opts.verbosity, opts.logJSON)
	logging.Debug("configuration loaded", map[string]any{"command": cmd.CommandPath(), "config": v.ConfigFileUsed()})
	return nil
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, detail := range errors.GetAllDetails(err) {
		fmt.Fprintf(w, "\n%s\n", detail)
	}
	if hint := errors.FlattenHints(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
