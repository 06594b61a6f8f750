package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/recompile/internal/server"
)

type serveOptions struct {
	addr  string
	rule  string
	watch bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Serve recompilation orders over HTTP",
		Long: `Load <file> and answer queries over HTTP:

  GET  /healthz
  GET  /v1/graph
  PUT  /v1/graph          (body: dependency records)
  GET  /v1/order/{class}  (?rule=shared|path)

With --watch, the graph is rebuilt whenever <file> changes. A change that
fails to load keeps the previous graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.rule, "rule", "", "default cycle rule: shared or path")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "reload the graph when the file changes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, w io.Writer, file string, opts serveOptions) error {
	runner, err := c.newRunner(opts.rule)
	if err != nil {
		return err
	}
	g, err := runner.Load(ctx, file)
	if err != nil {
		return err
	}

	cfg := c.Config.Server
	addr := cfg.Addr
	if opts.addr != "" {
		addr = opts.addr
	}
	srv := server.New(runner, g, file, server.Options{
		Addr:        addr,
		ReadTimeout: cfg.ReadTimeout.Duration,
		Logger:      c.Logger,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printInfo(w, "Serving %s", StyleHighlight.Render(file))
	printKeyValue(w, "address", addr)
	printKeyValue(w, "rule", runner.Rule.String())
	if opts.watch || cfg.Watch {
		printKeyValue(w, "watch", "on")
		go func() {
			if err := srv.Watch(ctx, file, server.DefaultDebounce); err != nil {
				c.Logger.Error("watcher stopped", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg.ShutdownTimeout.Duration))
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func shutdownTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 10 * time.Second
	}
	return d
}
