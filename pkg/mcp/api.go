// Package mcp exposes the Finscreener Developer API as MCP tools for AI
// agents. Tool handlers are thin wrappers over the finscreener client's
// Invoke contract; the heavy lifting (auth, quota, timeouts, retry) lives
// in the client.
package mcp

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/finscreenernil/finscreener-MCP/pkg/finscreener"
)

const serverName = "finscreener"

// FinscreenerMCPServer represents the MCP server for Finscreener.
type FinscreenerMCPServer struct {
	client *finscreener.Client
	server *mcp.Server

	// set when serving over streamable HTTP; stdio otherwise
	httpserver *http.Server

	logger *zap.Logger
	tracer trace.Tracer
}

// Option defines a functional option for configuring the FinscreenerMCPServer.
type Option func(*FinscreenerMCPServer)

// WithLogger sets the logger for the FinscreenerMCPServer.
func WithLogger(logger *zap.Logger) Option {
	return func(s *FinscreenerMCPServer) {
		s.logger = logger.With(zap.String("component", "mcp-server"))
	}
}

// WithTracer sets the tracer for the FinscreenerMCPServer.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *FinscreenerMCPServer) {
		s.tracer = tracer
	}
}

// WithHTTPServer serves MCP over streamable HTTP on the given server
// instead of the default stdio transport.
func WithHTTPServer(httpserver *http.Server) Option {
	return func(s *FinscreenerMCPServer) {
		s.httpserver = httpserver
	}
}

// NewFinscreenerMCPServer creates a new instance of FinscreenerMCPServer
// with the provided options.
func NewFinscreenerMCPServer(client *finscreener.Client, opts ...Option) *FinscreenerMCPServer {
	s := &FinscreenerMCPServer{
		client: client,
		logger: zap.NewNop(),
		tracer: noop.NewTracerProvider().Tracer("finscreener-mcp-server"),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(&mcp.Implementation{Name: serverName}, nil)

	s.registerTools()
	s.registerResources()

	if s.httpserver != nil {
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
			return s.server
		}, nil)

		mux := http.NewServeMux()
		mux.Handle("/mcp", otelhttp.NewHandler(handler, "mcp"))

		s.httpserver.Handler = mux
	}

	return s
}

// Start runs the MCP server. On the stdio transport it blocks until the
// context is canceled or the peer disconnects.
func (s *FinscreenerMCPServer) Start(ctx context.Context) error {
	if s.httpserver == nil {
		s.logger.Info("starting MCP server on stdio")
		return s.server.Run(ctx, &mcp.StdioTransport{})
	}

	s.logger.Info("starting MCP server", zap.String("listen", s.httpserver.Addr))

	if err := s.httpserver.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown gracefully shuts down the MCP server.
func (s *FinscreenerMCPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down MCP server")

	if s.httpserver == nil {
		return nil
	}

	return s.httpserver.Shutdown(ctx)
}
