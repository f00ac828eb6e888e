package implement

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LegacyCodeHQ/implgen/emitter"
	"github.com/LegacyCodeHQ/implgen/internal/logging"
	"github.com/LegacyCodeHQ/implgen/loader"
	"github.com/LegacyCodeHQ/implgen/resolver"
	"github.com/LegacyCodeHQ/implgen/typegraph"
)

// Result reports one generated implementation.
type Result struct {
	Type string
	Unit *emitter.Unit
	// Path is the written source file, or the jar when packaging.
	Path string
}

// NewCommand returns a new implement command instance.
func NewCommand() *cobra.Command {
	opts := NewOptions()

	cmd := &cobra.Command{
		Use:   "implement <type>...",
		Short: "Generate <Name>Impl.java for interfaces and abstract classes",
		Long: `Resolve the abstract requirements of each named type and write a concrete
implementation with stub bodies. Methods return the default value of their return type and
constructors forward to the superclass.

Examples:
  implgen implement com.example.Repository -s src/main/java -o gen
  implgen implement com.example.Shape -m types.yaml --jar shape.jar --javac-flags "--release 17"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Types = args
			return runImplement(cmd, opts)
		},
	}

	opts.AddInputFlags(cmd.Flags())
	opts.AddOutputFlags(cmd.Flags())

	return cmd
}

func runImplement(cmd *cobra.Command, opts *Options) error {
	results, err := Generate(cmd.Context(), opts)
	if err != nil {
		return err
	}
	for _, r := range results {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", r.Type, r.Path); err != nil {
			return err
		}
	}
	return nil
}

// Generate loads the configured inputs and writes an implementation of every requested type.
// Results are in the order the types were given.
func Generate(ctx context.Context, opts *Options) ([]Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	g, err := loader.Load(ctx, opts.Inputs())
	if err != nil {
		return nil, err
	}
	return GenerateFrom(ctx, g, opts)
}

// GenerateFrom writes an implementation of every requested type found in g.
func GenerateFrom(ctx context.Context, g *typegraph.Graph, opts *Options) ([]Result, error) {
	results := make([]Result, len(opts.Types))
	driver := opts.Driver()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Jobs)
	for i, name := range opts.Types {
		i, name := i, name
		eg.Go(func() error {
			unit, err := implementation(g, name)
			if err != nil {
				return err
			}

			path := ""
			if opts.Jar != "" {
				path = opts.JarPath(unit.QualifiedName())
				err = driver.ImplementJar(ctx, path, unit)
			} else {
				path, err = driver.Implement(opts.OutputDir, unit)
			}
			if err != nil {
				return err
			}

			results[i] = Result{Type: name, Unit: unit, Path: path}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logging.Info("generated implementations", map[string]any{"count": len(results)})
	return results, nil
}

func implementation(g *typegraph.Graph, name string) (*emitter.Unit, error) {
	root, err := g.Lookup(name)
	if err != nil {
		return nil, err
	}
	res, err := resolver.Resolve(g, root)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot implement %s", name)
	}
	return emitter.Emit(res), nil
}
