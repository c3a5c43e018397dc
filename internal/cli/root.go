package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ontoview/pkg/config"
	"github.com/matzehuels/ontoview/pkg/observability"
)

// setup runs before every command: it loads the configuration file, attaches
// the logger to the command context and starts the metrics endpoint when one
// is requested.
func (c *CLI) setup(cmd *cobra.Command) error {
	path := c.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	if path != "" {
		c.Logger.Debug("loaded config", "path", path)
	}

	ctx := withCommandLogger(cmd.Context(), c.Logger, cmd.Name())
	cmd.SetContext(ctx)

	addr := c.metricsAddr
	if addr == "" {
		addr = cfg.Metrics.Addr
	}
	if addr == "" {
		return nil
	}
	return c.startMetrics(ctx, addr)
}

// startMetrics installs Prometheus hooks for every pipeline stage and serves
// them on addr until ctx ends.
func (c *CLI) startMetrics(ctx context.Context, addr string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	hooks := observability.NewPrometheusHooks(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetViewHooks(hooks)
	observability.SetCacheHooks(hooks)

	srv, err := observability.ListenMetrics(addr, reg, c.Logger)
	if err != nil {
		return err
	}
	go func() {
		if err := srv.Serve(ctx); err != nil {
			c.Logger.Warn("metrics server stopped", "err", err)
		}
	}()
	c.Logger.Info("serving metrics", "url", "http://"+srv.Addr()+"/metrics")
	return nil
}
