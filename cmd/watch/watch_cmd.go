package watch

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/implgen/cmd/implement"
)

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := implement.NewOptions()

	cmd := &cobra.Command{
		Use:   "watch <type>...",
		Short: "Regenerate implementations whenever sources or manifests change",
		Long: `Generate implementations once, then watch the source roots and manifests and
regenerate after every change. Failed regenerations are reported and watching continues.

Examples:
  implgen watch com.example.Repository -s src/main/java -o gen`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Types = args
			return runWatch(cmd, opts)
		},
	}

	opts.AddInputFlags(cmd.Flags())
	opts.AddOutputFlags(cmd.Flags())

	return cmd
}

func runWatch(cmd *cobra.Command, opts *implement.Options) error {
	if len(opts.SourceRoots) == 0 && len(opts.Manifests) == 0 {
		return errors.WithHint(errors.New("nothing to watch"), "Pass --source <dir> and/or --manifest <file.yaml>.")
	}
	if opts.Revision != "" {
		return errors.WithHint(errors.New("cannot watch a git revision"), "Use implement --revision for a one-off run.")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w := newWatcher(opts, cmd.OutOrStdout())
	if !w.regenerate(ctx) {
		fmt.Fprintln(cmd.OutOrStdout(), "Waiting for changes...")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d source root(s) and %d manifest(s)\n", len(opts.SourceRoots), len(opts.Manifests))
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return w.run(ctx, nil)
}
