package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"shardkv/internal/store"
)

// DefaultVNodes is the virtual node count used when a config leaves
// VNodes unset. Values in the 100-200 range trade ring memory for
// distribution uniformity.
const DefaultVNodes = 150

// Config describes a cluster topology: the servers to register and the
// virtual node count per server.
type Config struct {
	Servers []string `toml:"servers"`
	VNodes  int      `toml:"vnodes"`
}

// ParseServers parses a comma-separated list of server names, e.g.
// "n1,n2,n3". Surrounding whitespace is trimmed; empty and duplicate
// names are rejected.
func ParseServers(serversStr string) ([]string, error) {
	if strings.TrimSpace(serversStr) == "" {
		return []string{}, nil
	}

	parts := strings.Split(serversStr, ",")
	servers := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			return nil, fmt.Errorf("server name cannot be empty in %q", serversStr)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate server name %q", name)
		}
		seen[name] = true
		servers = append(servers, name)
	}
	return servers, nil
}

// Load reads and validates a TOML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(raw), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if cfg.VNodes == 0 {
		cfg.VNodes = DefaultVNodes
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the topology for use with a store: at least one
// server, a positive virtual node count, and unique non-empty names.
func (c *Config) Validate() error {
	if len(c.Servers) == 0 {
		return fmt.Errorf("config must list at least one server")
	}
	if c.VNodes <= 0 {
		return fmt.Errorf("vnodes must be positive, got %d", c.VNodes)
	}
	seen := make(map[string]bool, len(c.Servers))
	for _, name := range c.Servers {
		if name == "" {
			return fmt.Errorf("server name cannot be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate server name %q", name)
		}
		seen[name] = true
	}
	return nil
}

// BuildStore validates the config and returns a store with every
// configured server registered.
func (c *Config) BuildStore() (*store.ShardedStore, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s := store.New(c.VNodes)
	for _, name := range c.Servers {
		s.AddServer(name)
	}
	return s, nil
}
