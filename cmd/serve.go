package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cluster-cli/internal/api"
	"github.com/sells-group/cluster-cli/internal/cluster"
	"github.com/sells-group/cluster-cli/internal/monitoring"
	"github.com/sells-group/cluster-cli/internal/registry"
	"github.com/sells-group/cluster-cli/internal/snapshot"
	"github.com/sells-group/cluster-cli/internal/store"
)

var servePort int

// serveEnv holds everything the HTTP server needs, plus the optional
// background health checker.
type serveEnv struct {
	Server  *api.Server
	Checker *monitoring.Checker
	store   store.Store
}

func (e *serveEnv) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

func initServe(ctx context.Context) (*serveEnv, error) {
	if err := cfg.Validate("serve"); err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics("cluster")
	engine, err := newEngine(cluster.WithObserver(metrics))
	if err != nil {
		return nil, err
	}
	cache := snapshot.NewCache(engine, cfg.Cache.MaxEntries, snapshot.WithRecorder(metrics))

	env := &serveEnv{}
	if cfg.Data.Source == "store" || cfg.Monitoring.Enabled {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		env.store = st
	}

	if cfg.Data.Source != "store" {
		if err := cfg.Validate("files"); err != nil {
			env.Close()
			return nil, err
		}
	}
	src, err := registry.NewSource(cfg.Data, env.store)
	if err != nil {
		env.Close()
		return nil, err
	}

	env.Server = api.NewServer(engine, cache, src, metrics, cfg.Server)
	if cfg.Monitoring.Enabled {
		env.Checker = monitoring.NewChecker(
			monitoring.NewCollector(env.store, engine.Taxonomy().Version()),
			monitoring.NewAlerter(cfg.Monitoring),
			metrics,
			cfg.Monitoring,
		)
	}
	return env, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	PreRun: func(cmd *cobra.Command, _ []string) {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initServe(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Checker != nil {
			go env.Checker.Run(ctx)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           env.Server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server",
			zap.String("command", "serve"),
			zap.Int("port", cfg.Server.Port),
			zap.String("source", cfg.Data.Source),
			zap.Bool("monitoring", env.Checker != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
