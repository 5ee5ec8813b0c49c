package server

import (
	"context"
	"net/http"
	"time"

	"github.com/iov-one/tokenescrow/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// StartCmd returns a command that serves the application over an ABCI
// socket until the process is signaled.
func StartCmd(gen AppGenerator, logger func() log.Logger, conf *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the ABCI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start(gen, logger(), *conf)
		},
	}
	cmd.Flags().StringVar(&conf.Bind, "bind", conf.Bind, "address server listens on")
	cmd.Flags().BoolVar(&conf.Debug, "debug", conf.Debug, "call stack returned on error")
	cmd.Flags().StringVar(&conf.MetricsAddress, "metrics", conf.MetricsAddress, "prometheus endpoint address, empty to disable")
	return cmd
}

// Start initializes the application and blocks serving it.
func Start(gen AppGenerator, logger log.Logger, conf Config) error {
	app, err := gen(conf.Home, logger, conf.Debug)
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	metrics := startMetrics(conf.MetricsAddress, logger.With("module", "metrics"))

	// Wait forever
	cmn.TrapSignal(logger, func() {
		if metrics != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = metrics.Shutdown(ctx)
		}
		_ = svr.Stop()
	})
	select {}
}

// startMetrics serves prometheus metrics in the background. It returns nil
// when no address is configured.
func startMetrics(addr string, logger log.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", "err", err)
		}
	}()
	return srv
}
