package commands

import (
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/mojave-chain/mojave-rpc/rpc/client"
	"github.com/mojave-chain/mojave-rpc/rpc/core"
	"github.com/mojave-chain/mojave-rpc/rpc/server"
)

// StartCmd runs the JSON-RPC server until it receives SIGINT or SIGTERM.
var StartCmd = &cobra.Command{
	Use:     "start",
	Aliases: []string{"run"},
	Short:   "Run the JSON-RPC server",
	RunE:    startServer,
}

func init() {
	StartCmd.Flags().String("rpc.laddr", config.RPC.ListenAddress, "RPC listen address (tcp:// or unix://)")
	StartCmd.Flags().String("rpc.upstream", "", "upstream node address for namespace forwarding")
}

func startServer(cmd *cobra.Command, _ []string) error {
	rpcLogger := logger.With("module", "rpc")

	env := &core.Environment{
		Logger:    rpcLogger,
		ChainID:   config.ChainID,
		StartTime: time.Now(),
	}
	registry := env.Routes()

	if laddr, _ := cmd.Flags().GetString("rpc.laddr"); cmd.Flags().Changed("rpc.laddr") {
		config.RPC.ListenAddress = laddr
	}

	if config.RPC.IsUpstreamEnabled() {
		upstream, err := client.New(config.RPC.Upstream)
		if err != nil {
			return err
		}
		fwd := client.Forwarder[*core.Environment](upstream)
		for _, ns := range config.RPC.ForwardNamespaces {
			registry.RegisterFallback(ns, fwd)
		}
		logger.Info("Forwarding enabled",
			"upstream", config.RPC.Upstream,
			"namespaces", config.RPC.ForwardNamespaces)
	}

	metrics := server.NopMetrics()
	if config.Instrumentation.Prometheus {
		metrics = server.PrometheusMetrics(config.Instrumentation.Namespace, "chain_id", formatChainID(config.ChainID))
		go startPrometheusServer()
	}

	svc := server.NewService(env, registry,
		server.WithLogger[*core.Environment](rpcLogger),
		server.WithMetrics[*core.Environment](metrics),
		server.WithHandlerTimeout[*core.Environment](time.Duration(config.RPC.HandlerTimeout)),
	)

	var handler http.Handler = server.NewHTTPHandler(svc, rpcLogger)
	if config.RPC.IsCorsEnabled() {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: config.RPC.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type"},
		})
		handler = corsMiddleware.Handler(handler)
	}

	srvConfig := server.DefaultConfig()
	srvConfig.MaxOpenConnections = config.RPC.MaxOpenConnections
	srvConfig.ReadTimeout = time.Duration(config.RPC.ReadTimeout)
	srvConfig.WriteTimeout = time.Duration(config.RPC.WriteTimeout)
	srvConfig.MaxBodyBytes = config.RPC.MaxBodyBytes
	srvConfig.MaxRequestBatchSize = config.RPC.MaxRequestBatchSize

	listener, err := server.Listen(config.RPC.ListenAddress, srvConfig.MaxOpenConnections)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if config.RPC.IsTLSEnabled() {
			errCh <- server.ServeTLS(listener, handler,
				config.RPC.TLSCertFile, config.RPC.TLSKeyFile,
				rpcLogger, srvConfig)
			return
		}
		errCh <- server.Serve(listener, handler, rpcLogger, srvConfig)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Caught signal, shutting down", "signal", sig.String())
		return listener.Close()
	case err := <-errCh:
		return err
	}
}

func startPrometheusServer() {
	srv := &http.Server{
		Addr:              config.Instrumentation.PrometheusListenAddr,
		ReadHeaderTimeout: 10 * time.Second,
		Handler:           promhttp.Handler(),
	}
	logger.Info("Starting Prometheus server", "addr", config.Instrumentation.PrometheusListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Prometheus server stopped", "err", err)
	}
}

func formatChainID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
