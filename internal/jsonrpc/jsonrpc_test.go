package jsonrpc

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"telco-callcenter-mcp/internal/config"
	"telco-callcenter-mcp/internal/telco"
	"telco-callcenter-mcp/internal/tools"
)

func TestMessageClassification(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		request      bool
		notification bool
		response     bool
	}{
		{"request with number id", `{"jsonrpc":"2.0","id":1,"method":"ping"}`, true, false, false},
		{"request with string id", `{"jsonrpc":"2.0","id":"abc","method":"ping"}`, true, false, false},
		{"request with null id", `{"jsonrpc":"2.0","id":null,"method":"ping"}`, true, false, false},
		{"notification", `{"jsonrpc":"2.0","method":"notifications/initialized"}`, false, true, false},
		{"result response", `{"jsonrpc":"2.0","id":1,"result":{}}`, false, false, true},
		{"error response", `{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"bad"}}`, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			if err := json.Unmarshal([]byte(tt.raw), &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := msg.IsRequest(); got != tt.request {
				t.Errorf("IsRequest = %v, want %v", got, tt.request)
			}
			if got := msg.IsNotification(); got != tt.notification {
				t.Errorf("IsNotification = %v, want %v", got, tt.notification)
			}
			if got := msg.IsResponse(); got != tt.response {
				t.Errorf("IsResponse = %v, want %v", got, tt.response)
			}
		})
	}
}

func TestResponseIDAlwaysPresent(t *testing.T) {
	resp := NewError(nil, CodeInvalidRequest, "Invalid Request", nil)
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	id, ok := decoded["id"]
	if !ok {
		t.Fatal("id member missing from response")
	}
	if string(id) != "null" {
		t.Errorf("id = %s, want null", id)
	}
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	svc := telco.NewService(telco.NewCustomerStore(), telco.NewMemoryTicketRepo())
	reg, err := tools.NewRegistry(svc)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	info := config.ServerInfo{Name: "test-server", Version: "0.0.1"}
	return NewRouter(info, reg, tools.NewDispatcher(reg))
}

func request(t *testing.T, raw string) *Message {
	t.Helper()
	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	return &msg
}

func TestHandle_Initialize(t *testing.T) {
	router := newTestRouter(t)

	resp := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{}}}`))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	result, ok := resp.Result.(initializeResult)
	if !ok {
		t.Fatalf("result type %T", resp.Result)
	}
	if result.ProtocolVersion != "2025-06-18" {
		t.Errorf("protocolVersion = %q", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "test-server" || result.ServerInfo.Version != "0.0.1" {
		t.Errorf("serverInfo = %+v", result.ServerInfo)
	}
	if result.Capabilities.Tools.ListChanged {
		t.Error("tools.listChanged should be false")
	}
	if string(resp.ID) != "1" {
		t.Errorf("id = %s, want 1", resp.ID)
	}

	// Repeated calls return the same result.
	for i := 0; i < 3; i++ {
		again := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{}}}`))
		if again.Error != nil {
			t.Fatalf("call %d error: %+v", i+2, again.Error)
		}
		if !reflect.DeepEqual(again.Result, resp.Result) {
			t.Errorf("call %d result differs: %+v vs %+v", i+2, again.Result, resp.Result)
		}
	}
}

func TestHandle_Ping(t *testing.T) {
	router := newTestRouter(t)

	resp := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":"p1","method":"ping"}`))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	if string(raw) != "{}" {
		t.Errorf("result = %s, want {}", raw)
	}
}

func TestHandle_ToolsList(t *testing.T) {
	router := newTestRouter(t)

	resp := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result type %T", resp.Result)
	}
	list, ok := result["tools"].([]*tools.Descriptor)
	if !ok {
		t.Fatalf("tools type %T", result["tools"])
	}
	if len(list) != 6 {
		t.Errorf("len(tools) = %d, want 6", len(list))
	}
}

func TestHandle_EmptyCollections(t *testing.T) {
	router := newTestRouter(t)

	for _, method := range []string{"resources/list", "prompts/list"} {
		t.Run(method, func(t *testing.T) {
			resp := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":3,"method":"`+method+`"}`))
			if resp.Error != nil {
				t.Fatalf("error: %+v", resp.Error)
			}
			raw, err := json.Marshal(resp.Result)
			if err != nil {
				t.Fatalf("marshal result: %v", err)
			}
			key := method[:len(method)-len("/list")]
			want := `{"` + key + `":[]}`
			if string(raw) != want {
				t.Errorf("result = %s, want %s", raw, want)
			}
		})
	}
}

func TestHandle_MethodNotFound(t *testing.T) {
	router := newTestRouter(t)

	resp := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":4,"method":"tools/delete"}`))
	if resp.Error == nil {
		t.Fatal("expected error")
	}
	if resp.Error.Code != CodeMethodNotFound {
		t.Errorf("code = %d, want %d", resp.Error.Code, CodeMethodNotFound)
	}
	if string(resp.ID) != "4" {
		t.Errorf("id = %s, want 4", resp.ID)
	}
}

func TestHandle_ToolsCall(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		params   string
		wantCode int
	}{
		{"success", `{"name":"get_customer_info","arguments":{"phoneNumber":"+1-555-0001","password":"1234"}}`, 0},
		{"missing name", `{"arguments":{}}`, CodeInvalidParams},
		{"unknown tool", `{"name":"reboot_router","arguments":{}}`, CodeMethodNotFound},
		{"schema violation", `{"name":"get_customer_info","arguments":{"phoneNumber":"bogus","password":"1234"}}`, CodeInvalidParams},
		{"domain failure", `{"name":"get_customer_info","arguments":{"phoneNumber":"+1-555-0001","password":"0000"}}`, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":`+tt.params+`}`))
			if tt.wantCode == 0 {
				if resp.Error != nil {
					t.Fatalf("error: %+v", resp.Error)
				}
				result, ok := resp.Result.(*tools.Result)
				if !ok {
					t.Fatalf("result type %T", resp.Result)
				}
				if len(result.Content) != 1 || result.Content[0].Type != "text" {
					t.Errorf("content = %+v", result.Content)
				}
				return
			}
			if resp.Error == nil {
				t.Fatal("expected error")
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandle_ToolsCall_DomainErrorData(t *testing.T) {
	router := newTestRouter(t)

	resp := router.Handle(context.Background(), request(t, `{"jsonrpc":"2.0","id":10,"method":"tools/call","params":{"name":"get_ticket_details","arguments":{"ticketId":"TKT-0000-000000"}}}`))
	if resp.Error == nil {
		t.Fatal("expected error")
	}
	if resp.Error.Code != CodeInternalError {
		t.Errorf("code = %d, want %d", resp.Error.Code, CodeInternalError)
	}
	data, ok := resp.Error.Data.(map[string]any)
	if !ok {
		t.Fatalf("data type %T", resp.Error.Data)
	}
	if data["success"] != false {
		t.Errorf("data.success = %v, want false", data["success"])
	}
	if data["error"] != "Ticket not found" {
		t.Errorf("data.error = %v", data["error"])
	}
}
