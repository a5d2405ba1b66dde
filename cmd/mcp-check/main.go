// mcp-check is a conformance client for the telco MCP server. It
// connects over Streamable HTTP, runs the initialize handshake, lists
// the registered tools and optionally invokes one with JSON arguments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

const (
	requestTimeout    = 30 * time.Second
	connectRetryDelay = 500 * time.Millisecond
	connectMaxRetries = 20 // 20 * 500ms = 10s max wait
)

func main() {
	url := flag.String("url", "http://localhost:3000/mcp", "MCP endpoint URL")
	apiKey := flag.String("api-key", "demo-api-key-12345", "API key sent in the X-API-Key header")
	tool := flag.String("tool", "", "tool to call after the handshake (optional)")
	argsJSON := flag.String("args", "{}", "JSON arguments for -tool")
	flag.Parse()

	client, err := connect(*url, *apiKey)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	tools, err := client.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		log.Fatalf("tools/list failed: %v", err)
	}
	fmt.Printf("Server exposes %d tools:\n", len(tools.Tools))
	for _, t := range tools.Tools {
		fmt.Printf("  %-24s %s\n", t.Name, t.Description)
	}

	if *tool == "" {
		return
	}

	var args map[string]any
	if err := json.Unmarshal([]byte(*argsJSON), &args); err != nil {
		log.Fatalf("Invalid -args JSON: %v", err)
	}

	req := mcpgo.CallToolRequest{}
	req.Params.Name = *tool
	req.Params.Arguments = args

	result, err := client.CallTool(ctx, req)
	if err != nil {
		log.Fatalf("tools/call %s failed: %v", *tool, err)
	}
	if result.IsError {
		fmt.Fprintf(os.Stderr, "Tool %s returned an error result\n", *tool)
	}
	for _, content := range result.Content {
		if tc, ok := mcpgo.AsTextContent(content); ok {
			fmt.Println(tc.Text)
		}
	}
}

// connect retries the handshake so the check can be started before the
// server finishes booting.
func connect(url, apiKey string) (*mcpclient.Client, error) {
	var lastErr error
	for attempt := range connectMaxRetries {
		client, err := handshake(url, apiKey)
		if err == nil {
			return client, nil
		}
		lastErr = err
		if attempt < connectMaxRetries-1 {
			log.Printf("Connection attempt %d/%d failed: %v, retrying in %v",
				attempt+1, connectMaxRetries, err, connectRetryDelay)
			time.Sleep(connectRetryDelay)
		}
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", connectMaxRetries, lastErr)
}

func handshake(url, apiKey string) (*mcpclient.Client, error) {
	t, err := transport.NewStreamableHTTP(url,
		transport.WithHTTPHeaders(map[string]string{"X-API-Key": apiKey}))
	if err != nil {
		return nil, fmt.Errorf("transport error: %w", err)
	}
	client := mcpclient.NewClient(t)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	initReq := mcpgo.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpgo.Implementation{
		Name:    "mcp-check",
		Version: "1.0.0",
	}
	initReq.Params.Capabilities = mcpgo.ClientCapabilities{}

	result, err := client.Initialize(ctx, initReq)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("initialize failed: %w", err)
	}
	log.Printf("Connected to %s %s (protocol %s)",
		result.ServerInfo.Name, result.ServerInfo.Version, result.ProtocolVersion)

	return client, nil
}
