package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"telco-callcenter-mcp/internal/config"
	"telco-callcenter-mcp/internal/telco"
	"telco-callcenter-mcp/internal/tools"
)

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2025-06-18"

// Router maps request methods onto handlers and turns their outcomes
// into responses. One Router serves all sessions.
type Router struct {
	info       config.ServerInfo
	registry   *tools.Registry
	dispatcher *tools.Dispatcher
}

func NewRouter(info config.ServerInfo, registry *tools.Registry, dispatcher *tools.Dispatcher) *Router {
	return &Router{info: info, registry: registry, dispatcher: dispatcher}
}

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    capabilities   `json:"capabilities"`
	ServerInfo      serverInfoBody `json:"serverInfo"`
}

type capabilities struct {
	Tools     toolsCapability `json:"tools"`
	Resources struct{}        `json:"resources"`
	Prompts   struct{}        `json:"prompts"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type serverInfoBody struct {
	Name        string `json:"name"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Handle executes one request and always returns a response bound to
// the request id. A panic in a handler is converted into an internal
// error instead of tearing down the connection.
func (r *Router) Handle(ctx context.Context, msg *Message) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("handler panic", "method", msg.Method, "panic", rec)
			resp = NewError(msg.ID, CodeInternalError, fmt.Sprintf("Internal error: %v", rec), nil)
		}
	}()

	slog.Debug("dispatching request", "method", msg.Method)

	switch msg.Method {
	case "initialize":
		return NewResult(msg.ID, initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    capabilities{Tools: toolsCapability{ListChanged: false}},
			ServerInfo: serverInfoBody{
				Name:        r.info.Name,
				Title:       r.info.Title,
				Description: r.info.Description,
				Version:     r.info.Version,
			},
		})
	case "ping":
		return NewResult(msg.ID, struct{}{})
	case "tools/list":
		return NewResult(msg.ID, map[string]any{"tools": r.registry.List()})
	case "tools/call":
		return r.handleToolsCall(ctx, msg)
	case "resources/list":
		return NewResult(msg.ID, map[string]any{"resources": []any{}})
	case "prompts/list":
		return NewResult(msg.ID, map[string]any{"prompts": []any{}})
	default:
		return NewError(msg.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
	}
}

func (r *Router) handleToolsCall(ctx context.Context, msg *Message) *Response {
	var params callParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return NewError(msg.ID, CodeInvalidParams, "Invalid params: "+err.Error(), nil)
		}
	}
	if params.Name == "" {
		return NewError(msg.ID, CodeInvalidParams, "Invalid params: missing tool name", nil)
	}

	result, err := r.dispatcher.Invoke(ctx, params.Name, params.Arguments)
	if err == nil {
		return NewResult(msg.ID, result)
	}

	var verr *tools.ValidationError
	var derr *telco.DomainError
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return NewError(msg.ID, CodeMethodNotFound, fmt.Sprintf("Unknown tool: %s", params.Name), nil)
	case errors.As(err, &verr):
		return NewError(msg.ID, CodeInvalidParams, "Invalid arguments for "+params.Name, map[string]any{
			"violations": verr.Violations,
		})
	case errors.As(err, &derr):
		return NewError(msg.ID, CodeInternalError, derr.Reason, derr.Payload())
	default:
		slog.Error("tool invocation failed", "tool", params.Name, "error", err)
		return NewError(msg.ID, CodeInternalError, "Internal error: "+err.Error(), nil)
	}
}
