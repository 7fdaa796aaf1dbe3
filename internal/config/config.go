package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// RedisConfig contains connection details for the session store backend.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	Password    string `yaml:"password"`
	DB          int    `yaml:"db"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// JinaEmbedderConfig holds configuration for the Jina embeddings client.
type JinaEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string              `yaml:"type"`
	Dimension int                 `yaml:"dimension"`
	Jina      *JinaEmbedderConfig `yaml:"jina,omitempty"`
}

// GeminiGeneratorConfig holds configuration for the Gemini client.
type GeminiGeneratorConfig struct {
	BaseURL         string  `yaml:"base_url"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	Model           string  `yaml:"model"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
	Temperature     float64 `yaml:"temperature"`
	TopP            float64 `yaml:"top_p"`
	TimeoutSecs     int     `yaml:"timeout_secs"`
}

// GeneratorConfig selects and configures the answer generator.
type GeneratorConfig struct {
	Type   string                 `yaml:"type"`
	Gemini *GeminiGeneratorConfig `yaml:"gemini,omitempty"`
}

// RetrievalConfig configures candidate selection.
type RetrievalConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Redis     RedisConfig     `yaml:"redis"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/newschat/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "newschat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:           5001,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Redis:     RedisConfig{Addr: "localhost:6379", TimeoutSecs: 5},
		Embedder:  EmbedderConfig{Type: "local"},
		Generator: GeneratorConfig{Type: "template"},
		Retrieval: RetrievalConfig{TopK: 3},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TimeoutSecs == 0 {
		cfg.Redis.TimeoutSecs = 5
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Embedder.Type == "jina" && cfg.Embedder.Jina != nil {
		if cfg.Embedder.Jina.BaseURL == "" {
			cfg.Embedder.Jina.BaseURL = "https://api.jina.ai/v1"
		}
		if cfg.Embedder.Jina.APIKeyEnv == "" {
			cfg.Embedder.Jina.APIKeyEnv = "JINA_API_KEY"
		}
		if cfg.Embedder.Jina.Model == "" {
			cfg.Embedder.Jina.Model = "jina-embeddings-v2-base-en"
		}
		if cfg.Embedder.Jina.TimeoutSecs == 0 {
			cfg.Embedder.Jina.TimeoutSecs = 30
		}
	}
	if cfg.Generator.Type == "gemini" && cfg.Generator.Gemini != nil {
		if cfg.Generator.Gemini.APIKeyEnv == "" {
			cfg.Generator.Gemini.APIKeyEnv = "GEMINI_API_KEY"
		}
		if cfg.Generator.Gemini.Model == "" {
			cfg.Generator.Gemini.Model = "gemini-2.0-flash"
		}
		if cfg.Generator.Gemini.MaxOutputTokens == 0 {
			cfg.Generator.Gemini.MaxOutputTokens = 300
		}
		if cfg.Generator.Gemini.Temperature == 0 {
			cfg.Generator.Gemini.Temperature = 0.7
		}
		if cfg.Generator.Gemini.TopP == 0 {
			cfg.Generator.Gemini.TopP = 0.8
		}
		if cfg.Generator.Gemini.TimeoutSecs == 0 {
			cfg.Generator.Gemini.TimeoutSecs = 30
		}
	}
}
