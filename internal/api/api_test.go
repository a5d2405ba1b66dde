package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"telco-callcenter-mcp/internal/config"
	"telco-callcenter-mcp/internal/jsonrpc"
	"telco-callcenter-mcp/internal/telco"
	"telco-callcenter-mcp/internal/tools"
)

const testKey = "demo-api-key-12345"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	svc := telco.NewService(telco.NewCustomerStore(), telco.NewMemoryTicketRepo())
	reg, err := tools.NewRegistry(svc)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	router := jsonrpc.NewRouter(cfg.Server, reg, tools.NewDispatcher(reg))
	return New(cfg, router)
}

func postMCP(t *testing.T, s *Server, accept, apiKey, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response) *jsonrpc.Response {
	t.Helper()
	defer resp.Body.Close()
	var out jsonrpc.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &out
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)
	body := `{"jsonrpc":"2.0","id":1,"method":"ping"}`

	t.Run("missing key", func(t *testing.T) {
		resp := postMCP(t, s, "application/json", "", body)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})
	t.Run("invalid key", func(t *testing.T) {
		resp := postMCP(t, s, "application/json", "wrong-key", body)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
	})
	t.Run("valid key", func(t *testing.T) {
		resp := postMCP(t, s, "application/json", testKey, body)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
	t.Run("key via query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/mcp?apiKey="+testKey, strings.NewReader(body))
		req.Header.Set("Accept", "application/json")
		resp, err := s.App().Test(req, -1)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
	})
}

func TestPost_Negotiation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		accept     string
		body       string
		wantStatus int
		wantCode   int
	}{
		{"no acceptable type", "text/html", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, 400, jsonrpc.CodeInvalidRequest},
		{"malformed body", "application/json", `{"jsonrpc":`, 400, jsonrpc.CodeParseError},
		{"empty body", "application/json", "", 400, jsonrpc.CodeParseError},
		{"wrong version", "application/json", `{"jsonrpc":"1.0","id":1,"method":"ping"}`, 400, jsonrpc.CodeInvalidRequest},
		{"missing version", "application/json", `{"id":1,"method":"ping"}`, 400, jsonrpc.CodeInvalidRequest},
		{"valid request", "application/json", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, 200, 0},
		{"both accept types", "application/json, text/event-stream", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, 200, 0},
		{"unclassifiable", "application/json", `{"jsonrpc":"2.0"}`, 400, jsonrpc.CodeInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMCP(t, s, tt.accept, testKey, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			out := decodeResponse(t, resp)
			if tt.wantCode == 0 {
				if out.Error != nil {
					t.Errorf("unexpected error: %+v", out.Error)
				}
				return
			}
			if out.Error == nil {
				t.Fatal("expected error envelope")
			}
			if out.Error.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", out.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestPost_NotificationAndResponse(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"notification", `{"jsonrpc":"2.0","method":"notifications/initialized"}`},
		{"result response", `{"jsonrpc":"2.0","id":7,"result":{}}`},
		{"error response", `{"jsonrpc":"2.0","id":7,"error":{"code":-32603,"message":"x"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMCP(t, s, "application/json", testKey, tt.body)
			if resp.StatusCode != http.StatusAccepted {
				t.Fatalf("status = %d, want 202", resp.StatusCode)
			}
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			if len(body) != 0 {
				t.Errorf("body = %q, want empty", body)
			}
		})
	}
}

func TestPost_ToolsListJSON(t *testing.T) {
	s := newTestServer(t)

	resp := postMCP(t, s, "application/json", testKey, `{"jsonrpc":"2.0","id":"list-1","method":"tools/list"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	out := decodeResponse(t, resp)
	if out.Error != nil {
		t.Fatalf("error: %+v", out.Error)
	}
	if string(out.ID) != `"list-1"` {
		t.Errorf("id = %s", out.ID)
	}
	var result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	raw, _ := json.Marshal(out.Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Tools) != 6 {
		t.Errorf("len(tools) = %d, want 6", len(result.Tools))
	}
}

// jsonValue round-trips a value through encoding/json so struct and
// map shapes compare as decoded JSON trees.
func jsonValue(t *testing.T, v any) any {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestPost_ToolsListSchemaRoundTrip(t *testing.T) {
	s := newTestServer(t)

	svc := telco.NewService(telco.NewCustomerStore(), telco.NewMemoryTicketRepo())
	reg, err := tools.NewRegistry(svc)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	declared, ok := reg.Get("get_customer_info")
	if !ok {
		t.Fatal("get_customer_info not registered")
	}

	resp := postMCP(t, s, "application/json", testKey, `{"jsonrpc":"2.0","id":"rt-1","method":"tools/list"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Result struct {
			Tools []struct {
				Name         string `json:"name"`
				InputSchema  any    `json:"inputSchema"`
				OutputSchema any    `json:"outputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	var gotInput, gotOutput any
	for _, tool := range out.Result.Tools {
		if tool.Name == "get_customer_info" {
			gotInput, gotOutput = tool.InputSchema, tool.OutputSchema
		}
	}
	if gotInput == nil {
		t.Fatal("get_customer_info missing from tools/list")
	}

	if want := jsonValue(t, declared.InputSchema); !reflect.DeepEqual(gotInput, want) {
		t.Errorf("inputSchema on the wire differs from the declared schema:\ngot  %v\nwant %v", gotInput, want)
	}
	if want := jsonValue(t, declared.OutputSchema); !reflect.DeepEqual(gotOutput, want) {
		t.Errorf("outputSchema on the wire differs from the declared schema:\ngot  %v\nwant %v", gotOutput, want)
	}

	// Spot-check the constraint fields survive serialization.
	schema := gotInput.(map[string]any)
	password := schema["properties"].(map[string]any)["password"].(map[string]any)
	if password["pattern"] != `^\d{4}$` {
		t.Errorf("password.pattern = %v", password["pattern"])
	}
	if password["minLength"] != float64(4) || password["maxLength"] != float64(4) {
		t.Errorf("password length bounds = %v/%v, want 4/4", password["minLength"], password["maxLength"])
	}
	required, ok := schema["required"].([]any)
	if !ok || len(required) != 2 || required[0] != "phoneNumber" || required[1] != "password" {
		t.Errorf("required = %v, want [phoneNumber password]", schema["required"])
	}
}

func TestPost_SSEStream(t *testing.T) {
	s := newTestServer(t)

	resp := postMCP(t, s, "text/event-stream", testKey, `{"jsonrpc":"2.0","id":5,"method":"ping"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	text := string(body)
	start := strings.Index(text, "event: start\n")
	message := strings.Index(text, "event: message\n")
	complete := strings.Index(text, "event: complete\n")
	if start == -1 || message == -1 || complete == -1 {
		t.Fatalf("missing events in stream:\n%s", text)
	}
	if !(start < message && message < complete) {
		t.Errorf("events out of order: start=%d message=%d complete=%d", start, message, complete)
	}

	// The message event carries the full JSON-RPC response.
	lines := strings.Split(text[message:], "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[1], "data: ") {
		t.Fatalf("no data line after message event:\n%s", text)
	}
	var rpcResp jsonrpc.Response
	if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &rpcResp); err != nil {
		t.Fatalf("message data is not a response: %v", err)
	}
	if string(rpcResp.ID) != "5" {
		t.Errorf("id = %s, want 5", rpcResp.ID)
	}
	if rpcResp.Error != nil {
		t.Errorf("error: %+v", rpcResp.Error)
	}
}

func TestGet_RequiresEventStreamAccept(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/mcp", nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", testKey)
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthAndDiscovery(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			resp, err := s.App().Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			var body map[string]any
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			resp.Body.Close()
			if len(body) == 0 {
				t.Error("empty payload")
			}
		})
	}
}

// flakyWriter fails its Nth flush, standing in for a client that
// disconnected mid-stream.
type flakyWriter struct {
	buf       bytes.Buffer
	flushes   int
	failAfter int
}

func (w *flakyWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *flakyWriter) Flush() error {
	w.flushes++
	if w.flushes > w.failAfter {
		return errors.New("broken pipe")
	}
	return nil
}

func TestKeepalive_StopsOnWriteFailure(t *testing.T) {
	w := &flakyWriter{failAfter: 3}

	done := make(chan struct{})
	go func() {
		defer close(done)
		keepalive(w, "session-1", time.Millisecond)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("keepalive did not stop after write failure")
	}

	text := w.buf.String()
	if !strings.Contains(text, "event: connected\n") {
		t.Errorf("missing connected event:\n%s", text)
	}
	if !strings.Contains(text, `"sessionId":"session-1"`) {
		t.Errorf("missing session id:\n%s", text)
	}
	if !strings.Contains(text, "event: ping\n") {
		t.Errorf("missing ping event:\n%s", text)
	}
}

func TestKeepalive_StopsImmediatelyWhenConnectFails(t *testing.T) {
	w := &flakyWriter{failAfter: 0}

	done := make(chan struct{})
	go func() {
		defer close(done)
		keepalive(w, "session-2", time.Hour)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("keepalive blocked on a dead connection")
	}
}
