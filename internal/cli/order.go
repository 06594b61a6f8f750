package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type orderOutput struct {
	Start string   `json:"start"`
	Rule  string   `json:"rule"`
	Order []string `json:"order"`
	Text  string   `json:"text"`
}

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		rule   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "order <file> <class>",
		Short: "Print the recompilation order for a class",
		Long: `Print the classes that must be recompiled when <class> changes, in
depth-first order starting at <class>.

<file> holds one record per line: a class followed by the classes it
depends on. Files ending in .json are read as graphs written by export.

The default "shared" rule reports a cycle whenever a class is reached
twice. The "path" rule only reports true circular dependencies.`,
		Example: `  recompile order classes.txt ClassA
  recompile order classes.txt ClassA --rule path --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOrder(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], rule, asJSON)
		},
	}

	cmd.Flags().StringVar(&rule, "rule", "", "cycle rule: shared or path (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the order as JSON")

	return cmd
}

func (c *CLI) runOrder(ctx context.Context, w io.Writer, file, class, rule string, asJSON bool) error {
	runner, err := c.newRunner(rule)
	if err != nil {
		return err
	}

	g, err := runner.Load(ctx, file)
	if err != nil {
		return err
	}
	order, err := runner.Order(ctx, g, class)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(orderOutput{
			Start: order.Start,
			Rule:  runner.Rule.String(),
			Order: order.Labels,
			Text:  order.String(),
		})
	}
	_, err = fmt.Fprintln(w, order.String())
	return err
}
