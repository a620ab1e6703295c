package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the wastebot service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Admin         AdminConfig         `mapstructure:"admin"`
	KnowledgeBase KnowledgeBaseConfig `mapstructure:"knowledge_base"`
	Index         IndexConfig         `mapstructure:"index"`
	Chunker       ChunkerConfig       `mapstructure:"chunker"`
	Embedder      EmbedderConfig      `mapstructure:"embedder"`
	LLM           LLMConfig           `mapstructure:"llm"`
	Suggestions   SuggestionsConfig   `mapstructure:"suggestions"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// AdminConfig holds admin authentication configuration.
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// KnowledgeBaseConfig holds the document corpus location.
type KnowledgeBaseConfig struct {
	Path string `mapstructure:"path"`
	// FallbackFile is loaded individually when directory-wide ingestion
	// yields nothing, to tolerate partial corpus corruption.
	FallbackFile string `mapstructure:"fallback_file"`
}

// IndexConfig holds the persisted vector index location.
type IndexConfig struct {
	Path string `mapstructure:"path"`
}

// ChunkerConfig configures how documents are split into chunks.
type ChunkerConfig struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string               `mapstructure:"type"`
	OpenAI OpenAIEmbedderConfig `mapstructure:"openai"`
}

// OpenAIEmbedderConfig configures the OpenAI-compatible remote embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	APIKeyEnv   string `mapstructure:"api_key_env"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds language model gateway configuration.
type LLMConfig struct {
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
}

// SuggestionsConfig configures follow-up suggestion generation.
type SuggestionsConfig struct {
	Max int `mapstructure:"max"`
}

// Load loads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("WASTEBOT")
	v.AutomaticEnv()

	// The gateway keeps its upstream variable names so existing
	// deployments keep working.
	v.BindEnv("llm.api_key", "WASTEBOT_LLM_API_KEY", "OPENROUTER_API_KEY")
	v.BindEnv("llm.model", "WASTEBOT_LLM_MODEL", "OPENROUTER_MODEL")
	v.BindEnv("llm.max_tokens", "WASTEBOT_LLM_MAX_TOKENS", "OPENROUTER_MAX_TOKENS")
	v.BindEnv("llm.temperature", "WASTEBOT_LLM_TEMPERATURE", "OPENROUTER_TEMPERATURE")
	v.BindEnv("llm.top_p", "WASTEBOT_LLM_TOP_P", "OPENROUTER_TOP_P")
	v.BindEnv("knowledge_base.path", "WASTEBOT_KNOWLEDGE_BASE_PATH", "KNOWLEDGE_BASE_PATH")
	v.BindEnv("index.path", "WASTEBOT_INDEX_PATH", "VECTOR_STORE_PATH")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("admin.api_key", "")

	v.SetDefault("knowledge_base.path", "./data/knowledge_base")
	v.SetDefault("knowledge_base.fallback_file", "waste_guidelines.txt")
	v.SetDefault("index.path", "./data/vector_store")

	v.SetDefault("chunker.size", 500)
	v.SetDefault("chunker.overlap", 100)

	v.SetDefault("embedder.type", "tfidf")
	v.SetDefault("embedder.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("embedder.openai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("embedder.openai.model", "text-embedding-3-small")
	v.SetDefault("embedder.openai.timeout_secs", 30)

	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "mistralai/mistral-small-3.2-24b-instruct-2506:free")
	v.SetDefault("llm.max_tokens", 200)
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.top_p", 0.96)
	v.SetDefault("llm.timeout_secs", 30)

	v.SetDefault("suggestions.max", 3)
}

// Address returns the server listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
