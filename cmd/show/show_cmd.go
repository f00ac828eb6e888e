package show

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/implgen/cmd/implement"
	"github.com/LegacyCodeHQ/implgen/cmd/show/formatters"
	"github.com/LegacyCodeHQ/implgen/loader"
	"github.com/LegacyCodeHQ/implgen/resolver"
)

type showOptions struct {
	inputs       *implement.Options
	outputFormat string
}

// NewCommand returns a new show command instance.
func NewCommand() *cobra.Command {
	opts := &showOptions{
		inputs:       implement.NewOptions(),
		outputFormat: formatters.OutputFormatText.String(),
	}

	cmd := &cobra.Command{
		Use:   "show <type>",
		Short: "Print what an implementation of a type must declare",
		Long: `Resolve the abstract requirements of a type and print its parents, the constructors an
implementation forwards, and the methods it must declare. Nothing is written.

Examples:
  implgen show com.example.Repository -s src/main/java
  implgen show com.example.Shape -m types.yaml -f json
  implgen show com.example.Shape -s src -f dot | dot -Tsvg > shape.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, opts, args[0])
		},
	}

	opts.inputs.AddInputFlags(cmd.Flags())
	cmd.Flags().StringVarP(
		&opts.outputFormat,
		"format",
		"f",
		opts.outputFormat,
		fmt.Sprintf("Output format (%s)", formatters.SupportedFormats()))

	return cmd
}

func runShow(cmd *cobra.Command, opts *showOptions, typeName string) error {
	formatter, err := formatters.NewFormatter(opts.outputFormat)
	if err != nil {
		return err
	}

	g, err := loader.Load(cmd.Context(), opts.inputs.Inputs())
	if err != nil {
		return err
	}

	root, err := g.Lookup(typeName)
	if err != nil {
		return err
	}
	res, err := resolver.Resolve(g, root)
	if err != nil {
		return errors.Wrapf(err, "cannot implement %s", typeName)
	}

	output, err := formatter.Format(formatters.NewReport(res, g.Parents(root)))
	if err != nil {
		return errors.Wrap(err, "failed to format report")
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), output)
	return err
}
