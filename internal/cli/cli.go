// Package cli implements the recompile command-line interface.
//
// # Commands
//
//   - order: print the recompilation order for a class
//   - graph: show the dependency graph as a table
//   - export: write the graph as JSON, DOT, or SVG
//   - serve: answer order queries over HTTP
//   - tui: interactive build-then-query screen
//   - completion: shell completion scripts
//
// # Logging
//
// Logs go to stderr through charmbracelet/log. The level comes from the
// config file's log_level and is raised to debug by --verbose (-v).
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/recompile/pkg/buildinfo"
	"github.com/matzehuels/recompile/pkg/config"
	"github.com/matzehuels/recompile/pkg/depgraph"
	apperr "github.com/matzehuels/recompile/pkg/errors"
	"github.com/matzehuels/recompile/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "recompile",
		Short: "recompile computes class recompilation orders",
		Long: `recompile reads class dependency files and answers which classes must be
recompiled, and in what order, when a class changes. Circular class
dependencies are reported instead of an order.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/recompile/config.toml)")

	root.AddCommand(c.orderCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	c.Logger.Debug("loaded config", "rule", cfg.Rule, "log_level", cfg.LogLevel)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner. A non-empty ruleFlag overrides the
// configured rule.
func (c *CLI) newRunner(ruleFlag string) (*pipeline.Runner, error) {
	name := c.Config.Rule
	if ruleFlag != "" {
		name = ruleFlag
	}
	rule, err := depgraph.ParseRule(name)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid --rule %q", name)
	}
	return pipeline.NewRunner(c.Logger, rule), nil
}

// PrintError writes err to w as a user-facing message.
func PrintError(w io.Writer, err error) {
	printError(w, "%s", apperr.UserMessage(err))
	if code := apperr.GetCode(err); code != "" {
		printDetail(w, "%s", string(code))
	}
}
