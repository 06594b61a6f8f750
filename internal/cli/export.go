package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recompile/pkg/depgraph"
	"github.com/matzehuels/recompile/pkg/pipeline"
)

type exportOptions struct {
	format   string
	output   string
	class    string
	rule     string
	detailed bool
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the dependency graph as JSON, DOT, or SVG",
		Long: `Write the dependency graph as JSON (readable again by every command),
Graphviz DOT, or SVG. With --class, the recompilation order of that class
is highlighted in DOT and SVG output.`,
		Example: `  recompile export classes.txt -f json -o graph.json
  recompile export classes.txt -f svg --class ClassA -o order.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatJSON, "output format: json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.class, "class", "", "highlight the recompilation order of this class")
	cmd.Flags().StringVar(&opts.rule, "rule", "", "cycle rule for --class: shared or path")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show dependency counts in node labels")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, stdout, stderr io.Writer, file string, opts exportOptions) error {
	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}
	runner, err := c.newRunner(opts.rule)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	g, err := runner.Load(ctx, file)
	if err != nil {
		return err
	}

	var highlight *depgraph.Order
	if opts.class != "" {
		highlight, err = runner.Order(ctx, g, opts.class)
		if err != nil {
			return err
		}
	}

	stop := func() {}
	if opts.format == pipeline.FormatSVG && opts.output != "" {
		stop = spin(ctx, stderr, "Rendering SVG...")
	}
	data, err := runner.Render(ctx, g, pipeline.RenderOptions{
		Format:    opts.format,
		Highlight: highlight,
		Detailed:  opts.detailed,
	})
	stop()
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	prog.done("Exported " + opts.format)
	printSuccess(stdout, "Exported graph")
	printFile(stdout, opts.output)
	return nil
}
