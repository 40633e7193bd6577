// Package config defines the application configuration and its loading
// pipeline: YAML file, environment variable expansion, mapstructure decode,
// defaults, validation.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the agent service.
type Config struct {
	Environment string          `yaml:"environment"`
	Debug       bool            `yaml:"debug"`
	Server      ServerConfig    `yaml:"server"`
	LLM         LLMConfig       `yaml:"llm"`
	Embedder    EmbedderConfig  `yaml:"embedder"`
	Knowledge   KnowledgeConfig `yaml:"knowledge"`
	Database    DatabaseConfig  `yaml:"database"`
	Agent       AgentConfig     `yaml:"agent"`
	Metrics     MetricsConfig   `yaml:"metrics"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	StaticDir       string        `yaml:"static_dir"`
}

// LLMConfig holds chat model provider settings.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	Host        string        `yaml:"host"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxRetries  int           `yaml:"max_retries"`
}

// EmbedderConfig holds embedding model settings. The API key defaults to the
// LLM key since Solar serves both from one account.
type EmbedderConfig struct {
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	Host      string `yaml:"host"`
	Dimension int    `yaml:"dimension"`
}

// KnowledgeConfig holds vector store settings for the retrieval node.
type KnowledgeConfig struct {
	Provider       string  `yaml:"provider"` // "chromem", "qdrant", or "none"
	Path           string  `yaml:"path"`     // chromem persistence dir
	Host           string  `yaml:"host"`     // qdrant host
	Port           int     `yaml:"port"`     // qdrant gRPC port
	Collection     string  `yaml:"collection"`
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float32 `yaml:"score_threshold"`
	TokenBudget    int     `yaml:"token_budget"` // max tokens of retrieved context
}

// DatabaseConfig holds Postgres settings for tool data. When the URL is
// empty the service falls back to seeded in-memory data.
type DatabaseConfig struct {
	URL          string        `yaml:"url"`
	MaxOpenConns int           `yaml:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns"`
	ConnLifetime time.Duration `yaml:"conn_lifetime"`
}

// AgentConfig holds workflow and persona settings.
type AgentConfig struct {
	Name            string        `yaml:"name"`
	Persona         string        `yaml:"persona"` // system prompt; defaults to the built-in persona
	MaxHistoryTurns int           `yaml:"max_history_turns"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SetDefaults fills in zero values with sensible defaults.
func (c *Config) SetDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"*"}
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Streaming responses can run long.
		c.Server.WriteTimeout = 5 * time.Minute
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "solar"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "solar-pro2"
	}
	if c.LLM.Host == "" {
		c.LLM.Host = "https://api.upstage.ai/v1"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2048
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}
	if c.LLM.MaxRetries == 0 {
		c.LLM.MaxRetries = 3
	}

	if c.Embedder.Model == "" {
		c.Embedder.Model = "embedding-query"
	}
	if c.Embedder.Host == "" {
		c.Embedder.Host = c.LLM.Host
	}
	if c.Embedder.APIKey == "" {
		c.Embedder.APIKey = c.LLM.APIKey
	}
	if c.Embedder.Dimension == 0 {
		c.Embedder.Dimension = 4096
	}

	if c.Knowledge.Provider == "" {
		c.Knowledge.Provider = "chromem"
	}
	if c.Knowledge.Path == "" {
		c.Knowledge.Path = "./data/knowledge"
	}
	if c.Knowledge.Host == "" {
		c.Knowledge.Host = "localhost"
	}
	if c.Knowledge.Port == 0 {
		c.Knowledge.Port = 6334
	}
	if c.Knowledge.Collection == "" {
		c.Knowledge.Collection = "lumi"
	}
	if c.Knowledge.TopK == 0 {
		c.Knowledge.TopK = 5
	}
	if c.Knowledge.TokenBudget == 0 {
		c.Knowledge.TokenBudget = 1500
	}

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnLifetime == 0 {
		c.Database.ConnLifetime = 30 * time.Minute
	}

	if c.Agent.Name == "" {
		c.Agent.Name = "Lumi"
	}
	if c.Agent.MaxHistoryTurns == 0 {
		c.Agent.MaxHistoryTurns = 20
	}
	if c.Agent.SessionTTL == 0 {
		c.Agent.SessionTTL = 24 * time.Hour
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate checks the configuration for errors that should stop startup.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	switch c.LLM.Provider {
	case "solar", "openai":
	default:
		return fmt.Errorf("llm.provider %q not supported (expected solar or openai)", c.LLM.Provider)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %g out of range [0, 2]", c.LLM.Temperature)
	}

	switch c.Knowledge.Provider {
	case "chromem", "qdrant", "none":
	default:
		return fmt.Errorf("knowledge.provider %q not supported (expected chromem, qdrant or none)", c.Knowledge.Provider)
	}

	if c.Knowledge.TopK < 1 {
		return fmt.Errorf("knowledge.top_k must be positive, got %d", c.Knowledge.TopK)
	}

	if c.Agent.MaxHistoryTurns < 1 {
		return fmt.Errorf("agent.max_history_turns must be positive, got %d", c.Agent.MaxHistoryTurns)
	}

	return nil
}
