package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"telco-callcenter-mcp/internal/jsonrpc"
)

const rfc3339Millis = "2006-01-02T15:04:05.000Z"

func timestamp() string {
	return time.Now().UTC().Format(rfc3339Millis)
}

// healthHandler returns the service health status.
func (s *Server) healthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"service":     "Telco MCP Server",
		"version":     s.config.Server.Version,
		"protocol":    "MCP " + jsonrpc.ProtocolVersion,
		"transport":   "Streamable HTTP (JSON-RPC 2.0 + SSE)",
		"mcpEndpoint": s.config.MCPEndpoint,
		"features":    []string{"schema-validation", "sse-streaming"},
		"timestamp":   timestamp(),
	})
}

// discoveryHandler returns the protocol capabilities of the server.
func (s *Server) discoveryHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"protocolVersion": jsonrpc.ProtocolVersion,
		"serverInfo": fiber.Map{
			"name":    s.config.Server.Name,
			"version": s.config.Server.Version,
		},
		"capabilities": fiber.Map{
			"tools":     fiber.Map{},
			"resources": fiber.Map{},
			"prompts":   fiber.Map{},
			"sse":       true,
		},
		"transport":   "Streamable HTTP",
		"mcpEndpoint": s.config.MCPEndpoint,
		"methods": []string{
			"initialize",
			"tools/list",
			"tools/call",
			"resources/list",
			"prompts/list",
			"ping",
		},
		"authentication": "API Key (X-API-Key header)",
	})
}

// mcpPostHandler negotiates the response transport for one inbound
// JSON-RPC message: notifications and responses are acknowledged with
// 202, requests are answered as plain JSON or as an SSE stream
// depending on the Accept header.
func (s *Server) mcpPostHandler(c *fiber.Ctx) error {
	accept := c.Get(fiber.HeaderAccept)
	acceptsJSON := strings.Contains(accept, "application/json")
	acceptsSSE := strings.Contains(accept, "text/event-stream")

	if !acceptsJSON && !acceptsSSE {
		return c.Status(fiber.StatusBadRequest).JSON(jsonrpc.NewError(nil,
			jsonrpc.CodeInvalidRequest,
			"Invalid Request: Accept header must include application/json or text/event-stream", nil))
	}

	var msg jsonrpc.Message
	if err := json.Unmarshal(c.Body(), &msg); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(jsonrpc.NewError(nil,
			jsonrpc.CodeParseError, "Parse error: "+err.Error(), nil))
	}

	if msg.JSONRPC != jsonrpc.Version {
		return c.Status(fiber.StatusBadRequest).JSON(jsonrpc.NewError(msg.ID,
			jsonrpc.CodeInvalidRequest, `Invalid Request: jsonrpc field must be "2.0"`, nil))
	}

	switch {
	case msg.IsResponse(), msg.IsNotification():
		// Nothing to reply with, acknowledge receipt.
		return c.Status(fiber.StatusAccepted).Send(nil)
	case msg.IsRequest():
		if acceptsSSE && !acceptsJSON {
			return s.streamResponse(c, &msg)
		}
		resp := s.router.Handle(c.Context(), &msg)
		return c.JSON(resp)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(jsonrpc.NewError(msg.ID,
			jsonrpc.CodeInvalidRequest,
			"Invalid Request: message must be a JSON-RPC request, notification, or response", nil))
	}
}
