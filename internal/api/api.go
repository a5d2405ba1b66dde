// Package api exposes the MCP endpoint over streamable HTTP: a fiber
// server with API-key auth, per-request transport negotiation between
// plain JSON and SSE, and a long-lived keepalive stream.
package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"telco-callcenter-mcp/internal/config"
	"telco-callcenter-mcp/internal/jsonrpc"
)

// Server holds the HTTP server components.
type Server struct {
	app    *fiber.App
	router *jsonrpc.Router
	config *config.Config
}

// New creates the HTTP server over the given request router.
func New(cfg *config.Config, router *jsonrpc.Router) *Server {
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.Name,
	})

	app.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${method} | ${path}\n",
	}))

	server := &Server{
		app:    app,
		router: router,
		config: cfg,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	// Discovery and health, no auth
	s.app.Get("/", s.discoveryHandler)
	s.app.Get("/health", s.healthHandler)

	// MCP endpoint, API key required
	auth := apiKeyMiddleware(s.config.APIKeys)
	s.app.Post(s.config.MCPEndpoint, auth, s.mcpPostHandler)
	s.app.Get(s.config.MCPEndpoint, auth, s.mcpGetHandler)
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) pingInterval() time.Duration {
	return time.Duration(s.config.PingIntervalSeconds) * time.Second
}

// Start begins listening on the configured host and port.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
