package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"telco-callcenter-mcp/internal/jsonrpc"
)

// eventWriter is the part of bufio.Writer the SSE helpers need. Tests
// substitute a failing writer to exercise disconnect handling.
type eventWriter interface {
	io.Writer
	Flush() error
}

// writeEvent emits one SSE event and flushes it. A flush error means
// the client went away.
func writeEvent(w eventWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	return w.Flush()
}

func setSSEHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")
}

// streamResponse renders one request's response as an SSE stream:
// start, then the full response as a message event, then complete.
// The response is computed before any content is written, so a
// handler failure never tears a stream mid-event.
func (s *Server) streamResponse(c *fiber.Ctx, msg *jsonrpc.Message) error {
	id := append(json.RawMessage(nil), msg.ID...)
	method := msg.Method

	resp := s.router.Handle(c.Context(), msg)
	payload, marshalErr := json.Marshal(resp)

	setSSEHeaders(c)
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := writeEvent(w, "start", map[string]any{
			"id":        id,
			"method":    method,
			"timestamp": timestamp(),
		}); err != nil {
			return
		}

		if marshalErr != nil {
			writeEvent(w, "error", jsonrpc.NewError(id,
				jsonrpc.CodeInternalError, "Internal error", marshalErr.Error()))
			return
		}

		if err := writeEvent(w, "message", json.RawMessage(payload)); err != nil {
			return
		}
		writeEvent(w, "complete", map[string]any{
			"id":        id,
			"timestamp": timestamp(),
		})
	}))
	return nil
}

// mcpGetHandler opens the long-lived SSE connection: a connected
// event with a fresh session id, then periodic pings until the client
// disconnects.
func (s *Server) mcpGetHandler(c *fiber.Ctx) error {
	if !strings.Contains(c.Get(fiber.HeaderAccept), "text/event-stream") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Bad Request",
			"message": "Accept header must include text/event-stream for GET requests",
		})
	}

	setSSEHeaders(c)
	sessionID := uuid.NewString()
	interval := s.pingInterval()
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		keepalive(w, sessionID, interval)
	}))
	return nil
}

// keepalive writes the connected event and pings until a write fails.
func keepalive(w eventWriter, sessionID string, interval time.Duration) {
	if err := writeEvent(w, "connected", map[string]any{
		"sessionId": sessionID,
		"message":   "SSE connection established",
		"timestamp": timestamp(),
	}); err != nil {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		if err := writeEvent(w, "ping", map[string]any{
			"timestamp": timestamp(),
		}); err != nil {
			return
		}
	}
}
