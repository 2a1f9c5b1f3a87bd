package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseServers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "empty string",
			input: "",
			want:  []string{},
		},
		{
			name:  "single server",
			input: "n1",
			want:  []string{"n1"},
		},
		{
			name:  "multiple servers",
			input: "n1,n2,n3",
			want:  []string{"n1", "n2", "n3"},
		},
		{
			name:  "with spaces",
			input: " n1 , n2 ",
			want:  []string{"n1", "n2"},
		},
		{
			name:    "empty name",
			input:   "n1,,n3",
			wantErr: true,
		},
		{
			name:    "duplicate name",
			input:   "n1,n2,n1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServers(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseServers() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if len(got) != len(tt.want) {
					t.Errorf("ParseServers() length = %d, want %d", len(got), len(tt.want))
					return
				}
				for i := range got {
					if got[i] != tt.want[i] {
						t.Errorf("ParseServers()[%d] = %q, want %q", i, got[i], tt.want[i])
					}
				}
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg:  Config{Servers: []string{"n1", "n2"}, VNodes: 150},
		},
		{
			name:    "no servers",
			cfg:     Config{Servers: []string{}, VNodes: 150},
			wantErr: true,
		},
		{
			name:    "non-positive vnodes",
			cfg:     Config{Servers: []string{"n1"}, VNodes: 0},
			wantErr: true,
		},
		{
			name:    "empty server name",
			cfg:     Config{Servers: []string{"n1", ""}, VNodes: 150},
			wantErr: true,
		},
		{
			name:    "duplicate server name",
			cfg:     Config{Servers: []string{"n1", "n1"}, VNodes: 150},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster.toml")
	content := "servers = [\"n1\", \"n2\", \"n3\"]\nvnodes = 128\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Servers) != 3 {
		t.Errorf("Expected 3 servers, got %d", len(cfg.Servers))
	}
	if cfg.VNodes != 128 {
		t.Errorf("Expected 128 vnodes, got %d", cfg.VNodes)
	}
}

func TestLoad_DefaultVNodes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster.toml")
	if err := os.WriteFile(path, []byte("servers = [\"n1\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.VNodes != DefaultVNodes {
		t.Errorf("Expected default vnodes %d, got %d", DefaultVNodes, cfg.VNodes)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load("/nonexistent/cluster.toml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cluster.toml")
	if err := os.WriteFile(path, []byte("servers = [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

func TestConfig_BuildStore(t *testing.T) {
	cfg := &Config{Servers: []string{"n1", "n2", "n3"}, VNodes: 100}
	s, err := cfg.BuildStore()
	if err != nil {
		t.Fatalf("BuildStore() error = %v", err)
	}
	if s.ServerCount() != 3 {
		t.Errorf("Expected 3 servers, got %d", s.ServerCount())
	}
	if !s.Set("key", "value") {
		t.Error("Store built from config should accept writes")
	}
}

func TestConfig_BuildStore_Invalid(t *testing.T) {
	cfg := &Config{Servers: nil, VNodes: 100}
	if _, err := cfg.BuildStore(); err == nil {
		t.Error("Expected error for config with no servers")
	}
}
