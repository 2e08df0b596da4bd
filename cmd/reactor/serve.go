package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cartesi/pos-dlib/config"
	"github.com/cartesi/pos-dlib/dapp"
	"github.com/cartesi/pos-dlib/events"
	"github.com/cartesi/pos-dlib/metrics"
	"github.com/cartesi/pos-dlib/rpc"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the decision engine over JSON-RPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger

			// ---- archive ----
			arch, closeDB, err := a.openArchive()
			if err != nil {
				return err
			}
			defer closeDB()
			services, err := arch.Services()
			if err != nil {
				return err
			}
			for _, svc := range services {
				logger.Info("service status",
					zap.String("service", svc.ServiceName),
					zap.Uint32("status", svc.Status),
					zap.String("description", svc.Description))
			}

			// ---- events & metrics ----
			emitter := events.NewEmitter(logger)
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			col, err := metrics.NewCollector(reg)
			if err != nil {
				return err
			}
			col.Attach(emitter)

			// ---- engine ----
			engine := dapp.NewEngine(arch, emitter, logger)

			// ---- RPC ----
			tlsCfg, err := config.LoadTLSConfig(a.cfg.RPC.TLS)
			if err != nil {
				return err
			}
			srv := rpc.NewServer(a.cfg.RPC.Addr, rpc.NewHandler(engine), rpc.ServerOptions{
				AuthToken: a.cfg.RPC.AuthToken,
				TLS:       tlsCfg,
				Gatherer:  reg,
				Logger:    logger,
			})
			if err := srv.Start(); err != nil {
				return err
			}
			logger.Info("rpc listening",
				zap.String("addr", srv.Addr()),
				zap.Bool("tls", tlsCfg != nil),
				zap.Bool("auth", a.cfg.RPC.AuthToken != ""))

			// ---- graceful shutdown ----
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			logger.Info("shutting down")
			return srv.Stop()
		},
	}
}
