package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recompile/pkg/depgraph"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <file>",
		Short: "Show the dependency graph as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runGraph(ctx context.Context, w io.Writer, file string) error {
	runner, err := c.newRunner("")
	if err != nil {
		return err
	}
	g, err := runner.Load(ctx, file)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, StyleTitle.Render(file))
	fmt.Fprintln(w, graphTable(g))
	printStats(w, g.VertexCount(), g.EdgeCount())
	return nil
}

// graphTable renders one row per class in index order.
func graphTable(g *depgraph.Graph) string {
	labels := g.Labels()
	rows := make([][]string, len(labels))
	for i, label := range labels {
		deps := g.Dependencies(label)
		depCell := "—"
		if len(deps) > 0 {
			depCell = strings.Join(deps, ", ")
		}
		rows[i] = []string{strconv.Itoa(i), label, depCell}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Class", "Depends on").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 0:
				return StyleDim
			case col == 1:
				return StyleHighlight
			default:
				return lipgloss.NewStyle()
			}
		})
	return t.Render()
}
