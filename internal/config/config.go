package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerInfo is the identity the server reports in initialize responses
// and on the discovery endpoints.
type ServerInfo struct {
	Name        string `yaml:"name" json:"name"`
	Title       string `yaml:"title" json:"title,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
	Version     string `yaml:"version" json:"version"`
}

// StorageConfig selects the ticket repository backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	Path   string `yaml:"path"`   // sqlite database file
}

// Config holds the server configuration loaded from server.yaml.
type Config struct {
	Host                string        `yaml:"host"`
	Port                int           `yaml:"port"`
	MCPEndpoint         string        `yaml:"mcp_endpoint"`
	APIKeys             []string      `yaml:"api_keys"`
	PingIntervalSeconds int           `yaml:"ping_interval_seconds"`
	Server              ServerInfo    `yaml:"server"`
	Storage             StorageConfig `yaml:"storage"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the server.yaml configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 3000
	}
	if c.MCPEndpoint == "" {
		c.MCPEndpoint = "/mcp"
	}
	if len(c.APIKeys) == 0 {
		c.APIKeys = []string{"demo-api-key-12345", "telco-agent-key-67890"}
	}
	if c.PingIntervalSeconds == 0 {
		c.PingIntervalSeconds = 30
	}
	if c.Server.Name == "" {
		c.Server.Name = "telco-callcenter-mcp-server"
	}
	if c.Server.Title == "" {
		c.Server.Title = "Telco Customer Information MCP Server"
	}
	if c.Server.Description == "" {
		c.Server.Description = "MCP server for a telco call center agent. Exposes customer information, location, billing history and service ticket operations as MCP tools."
	}
	if c.Server.Version == "" {
		c.Server.Version = "1.0.4"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "./data/tickets.db"
	}
}
