package cli

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recompile/pkg/depgraph"
	apperr "github.com/matzehuels/recompile/pkg/errors"
	"github.com/matzehuels/recompile/pkg/pipeline"
)

// Field styles
var (
	fieldLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(24)
	fieldFocusedStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	fieldBlurredStyle = lipgloss.NewStyle().Foreground(colorDim)
	resultBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1).
				Width(60)
)

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	var rule string

	cmd := &cobra.Command{
		Use:   "tui [file]",
		Short: "Interactive screen: build a graph, then query classes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(rule)
			if err != nil {
				return err
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			m := newOrderModel(cmd.Context(), runner, file)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&rule, "rule", "", "cycle rule: shared or path")

	return cmd
}

// =============================================================================
// orderModel - build a graph from a file, then ask for orders
// =============================================================================

type tuiField int

const (
	fieldFile tuiField = iota
	fieldClass
)

type graphLoadedMsg struct {
	graph *depgraph.Graph
	err   error
}

type orderComputedMsg struct {
	order *depgraph.Order
	err   error
}

// orderModel is the bubbletea model behind the tui command.
type orderModel struct {
	ctx    context.Context
	runner *pipeline.Runner

	file  string
	class string
	focus tuiField

	graph   *depgraph.Graph
	result  string
	message string
	failed  bool
	busy    bool
}

func newOrderModel(ctx context.Context, runner *pipeline.Runner, file string) orderModel {
	return orderModel{ctx: ctx, runner: runner, file: file}
}

func (m orderModel) Init() tea.Cmd {
	if m.file != "" {
		return m.buildGraph()
	}
	return nil
}

func (m orderModel) buildGraph() tea.Cmd {
	file := strings.TrimSpace(m.file)
	return func() tea.Msg {
		g, err := m.runner.Load(m.ctx, file)
		return graphLoadedMsg{graph: g, err: err}
	}
}

func (m orderModel) computeOrder() tea.Cmd {
	g, class := m.graph, m.class
	return func() tea.Msg {
		order, err := m.runner.Order(m.ctx, g, class)
		return orderComputedMsg{order: order, err: err}
	}
}

func (m orderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case graphLoadedMsg:
		m.busy = false
		m.result = ""
		if msg.err != nil {
			// A failed build leaves an empty graph, so later queries report
			// the class as invalid.
			m.graph = depgraph.New()
			return m.fail(msg.err), nil
		}
		m.graph = msg.graph
		m.focus = fieldClass
		return m.succeed(pipeline.MsgBuilt), nil

	case orderComputedMsg:
		m.busy = false
		if msg.err != nil {
			m.result = ""
			return m.fail(msg.err), nil
		}
		m.result = msg.order.String()
		return m.succeed(""), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m orderModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		if m.focus == fieldFile {
			m.focus = fieldClass
		} else {
			m.focus = fieldFile
		}
		return m, nil
	case "enter":
		if m.busy {
			return m, nil
		}
		return m.submit()
	case "backspace":
		m.setValue(dropLastRune(m.value()))
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		m.setValue(m.value() + string(msg.Runes))
	case tea.KeySpace:
		m.setValue(m.value() + " ")
	}
	return m, nil
}

// submit runs the action bound to the focused field.
func (m orderModel) submit() (tea.Model, tea.Cmd) {
	if m.focus == fieldFile {
		if err := apperr.ValidateInputPath(m.file); err != nil {
			return m.fail(err), nil
		}
		m.busy = true
		m.message = "Building graph..."
		m.failed = false
		return m, m.buildGraph()
	}

	if err := apperr.ValidateClassName(m.class); err != nil {
		return m.fail(err), nil
	}
	if m.graph == nil {
		return m.fail(apperr.New(apperr.ErrCodeGraphNotBuilt, "Please build the graph first.")), nil
	}
	m.busy = true
	return m, m.computeOrder()
}

func (m orderModel) value() string {
	if m.focus == fieldFile {
		return m.file
	}
	return m.class
}

func (m *orderModel) setValue(v string) {
	if m.focus == fieldFile {
		m.file = v
	} else {
		m.class = v
	}
}

func (m orderModel) fail(err error) orderModel {
	m.message = apperr.UserMessage(err)
	m.failed = true
	return m
}

func (m orderModel) succeed(message string) orderModel {
	m.message = message
	m.failed = false
	return m
}

func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func (m orderModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Class Recompilation Order"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("tab switch field  ⏎ build / compute  esc quit"))
	b.WriteString("\n\n")

	b.WriteString(m.renderField("Input file name", m.file, fieldFile))
	b.WriteString("\n")
	b.WriteString(m.renderField("Class to recompile", m.class, fieldClass))
	b.WriteString("\n\n")

	b.WriteString(StyleDim.Render("Recompilation Order"))
	b.WriteString("\n")
	b.WriteString(resultBoxStyle.Render(m.result))
	b.WriteString("\n")

	if m.message != "" {
		if m.failed {
			b.WriteString(styleIconError.Render(iconError) + " " + StyleError.Render(m.message))
		} else {
			b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + StyleSuccess.Render(m.message))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m orderModel) renderField(label, value string, field tuiField) string {
	style := fieldBlurredStyle
	cursor := ""
	if m.focus == field {
		style = fieldFocusedStyle
		cursor = "▏"
	}
	return fieldLabelStyle.Render(label) + style.Render(value+cursor)
}
