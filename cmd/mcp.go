package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
	fsmcp "github.com/finscreenernil/finscreener-MCP/pkg/mcp"
)

const shutdownTimeout = 10 * time.Second

// mcpCmd starts the finscreener mcp server
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "starts the finscreener mcp server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serveMCP(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("listen", "", "address to serve streamable HTTP MCP on (empty serves stdio)")
	viperBindFlag("mcp.listen", mcpCmd.Flags().Lookup("listen"))

	mcpCmd.Flags().String("metrics-listen", "", "address to serve prometheus metrics on (empty disables metrics)")
	viperBindFlag("mcp.metrics-listen", mcpCmd.Flags().Lookup("metrics-listen"))

	mcpCmd.Flags().Bool("tracing", false, "enable tracing support")
	viperBindFlag("tracing.enabled", mcpCmd.Flags().Lookup("tracing"))

	mcpCmd.Flags().String("tracing-environment", "production", "environment value in otel traces")
	viperBindFlag("tracing.environment", mcpCmd.Flags().Lookup("tracing-environment"))
}

func serveMCP(ctx context.Context) error {
	if viper.GetBool("tracing.enabled") {
		tp := initTracer()

		defer func() {
			tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := tp.Shutdown(tctx); err != nil {
				logger.Warnw("failed shutting down tracer provider", "error", err)
			}
		}()
	}

	apiKey := viper.GetString("api-key")
	if apiKey == "" {
		return errors.New("no finscreener api key provided") //nolint:err113
	}

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	client, err := finscreener.NewClient(
		finscreener.WithURL(viper.GetString("api-url")),
		finscreener.WithAPIKey(apiKey),
		finscreener.WithHTTPClient(httpClient),
		finscreener.WithLogger(logger.Desugar()),
	)
	if err != nil {
		return err
	}

	opts := []fsmcp.Option{
		fsmcp.WithLogger(logger.Desugar()),
		fsmcp.WithTracer(otel.Tracer("finscreener-mcp")),
	}

	if listen := viper.GetString("mcp.listen"); listen != "" {
		opts = append(opts, fsmcp.WithHTTPServer(&http.Server{
			Addr:              listen,
			ReadHeaderTimeout: 5 * time.Second,
		}))
	}

	server := fsmcp.NewFinscreenerMCPServer(client, opts...)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if mlisten := viper.GetString("mcp.metrics-listen"); mlisten != "" {
		msrv := &http.Server{
			Addr:              mlisten,
			Handler:           promhttp.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Infow("serving metrics", "listen", mlisten)

			if err := msrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("metrics server failed", "error", err)
			}
		}()

		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := msrv.Shutdown(sctx); err != nil {
				logger.Warnw("failed shutting down metrics server", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(sctx)
}
