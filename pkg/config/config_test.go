package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}

	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.LLM.Provider != "solar" {
		t.Errorf("LLM.Provider = %q, want solar", cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "solar-pro2" {
		t.Errorf("LLM.Model = %q, want solar-pro2", cfg.LLM.Model)
	}
	if cfg.Knowledge.TopK != 5 {
		t.Errorf("Knowledge.TopK = %d, want 5", cfg.Knowledge.TopK)
	}
	if cfg.Agent.Name != "Lumi" {
		t.Errorf("Agent.Name = %q, want Lumi", cfg.Agent.Name)
	}
}

func TestLoad_File(t *testing.T) {
	content := `
environment: production
server:
  port: 9090
  read_timeout: 15s
llm:
  model: solar-mini
  temperature: 0.3
knowledge:
  provider: qdrant
  top_k: 3
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Environment != "production" {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.LLM.Model != "solar-mini" {
		t.Errorf("LLM.Model = %q, want solar-mini", cfg.LLM.Model)
	}
	if cfg.Knowledge.Provider != "qdrant" {
		t.Errorf("Knowledge.Provider = %q, want qdrant", cfg.Knowledge.Provider)
	}
	if cfg.Knowledge.TopK != 3 {
		t.Errorf("Knowledge.TopK = %d, want 3", cfg.Knowledge.TopK)
	}
	// Defaults still fill what the file leaves out.
	if cfg.LLM.Host != "https://api.upstage.ai/v1" {
		t.Errorf("LLM.Host = %q, want default host", cfg.LLM.Host)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_LUMI_KEY", "sk-12345")

	content := `
llm:
  api_key: ${TEST_LUMI_KEY}
  host: ${TEST_LUMI_HOST:-https://fallback.example.com/v1}
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.APIKey != "sk-12345" {
		t.Errorf("LLM.APIKey = %q, want expanded value", cfg.LLM.APIKey)
	}
	if cfg.LLM.Host != "https://fallback.example.com/v1" {
		t.Errorf("LLM.Host = %q, want default from ${VAR:-default}", cfg.LLM.Host)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad provider", "llm:\n  provider: mystery\n"},
		{"bad port", "server:\n  port: 99999\n"},
		{"bad knowledge provider", "knowledge:\n  provider: pinecone\n"},
		{"bad temperature", "llm:\n  temperature: 3.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			if _, err := Load(path); err == nil {
				t.Error("Load() error = nil, want validation error")
			}
		})
	}
}

func TestExpandEnvString(t *testing.T) {
	t.Setenv("TEST_EXPAND_VAR", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"${TEST_EXPAND_VAR}", "value"},
		{"$TEST_EXPAND_VAR", "value"},
		{"${MISSING_VAR:-fallback}", "fallback"},
		{"${MISSING_VAR}", ""},
		{"prefix-${TEST_EXPAND_VAR}-suffix", "prefix-value-suffix"},
	}

	for _, tt := range tests {
		if got := expandEnvString(tt.in); got != tt.want {
			t.Errorf("expandEnvString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
