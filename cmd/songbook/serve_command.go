package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/memtensor/songbook/api"
	"github.com/memtensor/songbook/pkg/config"
	"github.com/memtensor/songbook/pkg/importer"
	"github.com/memtensor/songbook/pkg/interfaces"
	"github.com/memtensor/songbook/pkg/logger"
	"github.com/memtensor/songbook/pkg/metrics"
	"github.com/memtensor/songbook/pkg/search"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the songbook HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.API.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.API.Port = port
			}

			log := newLogger(cmd.ErrOrStderr(), cfg)
			m := metrics.NewMemoryMetrics()
			imp := importer.New(cfg, log, m)

			var searcher interfaces.Searcher
			if cfg.Search.Enabled {
				searcher = search.New(cfg.Search, log)
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if path := ctx.configPath(); path != "" {
				if err := watchLogLevel(runCtx, path, log); err != nil {
					log.Warn("Config watch disabled", map[string]interface{}{"error": err.Error()})
				}
			}

			api.Version = Version
			return api.NewServer(cfg, imp, searcher, log, m).Start(runCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides api.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (overrides api.port)")
	return cmd
}

// watchLogLevel applies log.level changes from the config file until ctx ends
func watchLogLevel(ctx context.Context, path string, log *logger.SlogLogger) error {
	mgr := config.NewManager()
	if err := mgr.Load(ctx, path); err != nil {
		return err
	}
	return mgr.Watch(ctx, func(key string, value interface{}) {
		if key != "log.level" {
			return
		}
		level := fmt.Sprint(value)
		if logger.ParseLevel(level) == log.Level() {
			return
		}
		log.SetLevel(level)
		log.Info("Log level changed", map[string]interface{}{"level": level})
	})
}
