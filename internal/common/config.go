package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Upload      UploadConfig  `toml:"upload"`
	Logging     LoggingConfig `toml:"logging"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	LLM         LLMConfig     `toml:"llm"`
	Corpus      CorpusConfig  `toml:"corpus"`
	QA          QAConfig      `toml:"qa"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger     BadgerConfig     `toml:"badger"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type FilesystemConfig struct {
	Uploads string `toml:"uploads"` // Directory for raw uploaded files
	Exports string `toml:"exports"` // Directory for generated PDF reports
}

type UploadConfig struct {
	MaxSizeBytes int64    `toml:"max_size_bytes"` // Maximum upload size (default: 10MB)
	AllowedTypes []string `toml:"allowed_types"`  // Accepted MIME types
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Format     string   `toml:"format"`      // "json" or "text"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05.000")
}

// GeminiConfig contains Google Gemini API configuration. Gemini serves both
// chat and embedding operations.
type GeminiConfig struct {
	APIKey         string  `toml:"api_key"`         // Google Gemini API key
	Model          string  `toml:"model"`           // Chat model (default: "gemini-3-flash-preview")
	EmbeddingModel string  `toml:"embedding_model"` // Embedding model (default: "gemini-embedding-001")
	Timeout        string  `toml:"timeout"`         // Operation timeout as duration string (default: "2m")
	Temperature    float32 `toml:"temperature"`     // Chat completion temperature (default: 0.3)
}

// ClaudeConfig contains Anthropic Claude API configuration. Claude is chat
// only; embedding requests always route to Gemini.
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for chat operations (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.3)
}

// LLMConfig contains unified configuration for all AI providers
type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
	EmbedDimension  int    `toml:"embed_dimension"`  // Embedding vector dimension (default: 768)
}

// CorpusConfig configures the legal-knowledge corpus client
type CorpusConfig struct {
	BaseURL        string `toml:"base_url"`        // Remote corpus endpoint; empty uses the builtin corpus
	RateLimit      string `toml:"rate_limit"`      // Minimum interval between remote requests (default: "1s")
	RequestTimeout string `toml:"request_timeout"` // HTTP request timeout (default: "10s")
	MaxResults     int    `toml:"max_results"`     // Results returned per search (default: 3)
}

// QAConfig configures question answering behavior
type QAConfig struct {
	DocumentChunks int `toml:"document_chunks"` // Document chunks retrieved per question (default: 3)
	CorpusResults  int `toml:"corpus_results"`  // Corpus entries retrieved per question (default: 2)
	MaxSources     int `toml:"max_sources"`     // Cap on sources attached to an answer (default: 5)
	HistoryLimit   int `toml:"history_limit"`   // Default QA history page size (default: 50)
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in lexiq.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
			Filesystem: FilesystemConfig{
				Uploads: "./data/uploads",
				Exports: "./data/exports",
			},
		},
		Upload: UploadConfig{
			MaxSizeBytes: 10 * 1024 * 1024, // 10MB
			AllowedTypes: []string{
				"application/pdf",
				"application/msword",
				"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Gemini: GeminiConfig{
			APIKey:         "", // User must provide API key (no fallback)
			Model:          "gemini-3-flash-preview",
			EmbeddingModel: "gemini-embedding-001",
			Timeout:        "2m",
			Temperature:    0.3,
		},
		Claude: ClaudeConfig{
			APIKey:      "", // User must provide API key (ANTHROPIC_API_KEY or config)
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Timeout:     "2m",
			Temperature: 0.3,
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
			EmbedDimension:  768,
		},
		Corpus: CorpusConfig{
			BaseURL:        "", // Builtin corpus by default
			RateLimit:      "1s",
			RequestTimeout: "10s",
			MaxResults:     3,
		},
		QA: QAConfig{
			DocumentChunks: 3,
			CorpusResults:  2,
			MaxSources:     5,
			HistoryLimit:   50,
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files. Later files override
// earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("LEXIQ_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("LEXIQ_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("LEXIQ_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("LEXIQ_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if uploads := os.Getenv("LEXIQ_UPLOADS_DIR"); uploads != "" {
		config.Storage.Filesystem.Uploads = uploads
	}
	if exports := os.Getenv("LEXIQ_EXPORTS_DIR"); exports != "" {
		config.Storage.Filesystem.Exports = exports
	}

	// Upload configuration
	if maxSize := os.Getenv("LEXIQ_UPLOAD_MAX_SIZE_BYTES"); maxSize != "" {
		if ms, err := strconv.ParseInt(maxSize, 10, 64); err == nil {
			config.Upload.MaxSizeBytes = ms
		}
	}

	// Logging configuration
	if level := os.Getenv("LEXIQ_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("LEXIQ_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
	if output := os.Getenv("LEXIQ_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Gemini configuration
	if apiKey := os.Getenv("LEXIQ_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("LEXIQ_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if model := os.Getenv("LEXIQ_GEMINI_EMBEDDING_MODEL"); model != "" {
		config.Gemini.EmbeddingModel = model
	}
	if timeout := os.Getenv("LEXIQ_GEMINI_TIMEOUT"); timeout != "" {
		config.Gemini.Timeout = timeout
	}
	if temperature := os.Getenv("LEXIQ_GEMINI_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Gemini.Temperature = float32(t)
		}
	}

	// Claude configuration
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("LEXIQ_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // LEXIQ_ prefix takes priority
	}
	if model := os.Getenv("LEXIQ_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}
	if maxTokens := os.Getenv("LEXIQ_CLAUDE_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.Claude.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("LEXIQ_CLAUDE_TIMEOUT"); timeout != "" {
		config.Claude.Timeout = timeout
	}
	if temperature := os.Getenv("LEXIQ_CLAUDE_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 32); err == nil {
			config.Claude.Temperature = float32(t)
		}
	}

	// LLM provider configuration
	if provider := os.Getenv("LEXIQ_LLM_DEFAULT_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = provider
	}
	if dim := os.Getenv("LEXIQ_LLM_EMBED_DIMENSION"); dim != "" {
		if d, err := strconv.Atoi(dim); err == nil && d > 0 {
			config.LLM.EmbedDimension = d
		}
	}

	// Corpus configuration
	if baseURL := os.Getenv("LEXIQ_CORPUS_BASE_URL"); baseURL != "" {
		config.Corpus.BaseURL = baseURL
	}
	if rateLimit := os.Getenv("LEXIQ_CORPUS_RATE_LIMIT"); rateLimit != "" {
		config.Corpus.RateLimit = rateLimit
	}
	if timeout := os.Getenv("LEXIQ_CORPUS_REQUEST_TIMEOUT"); timeout != "" {
		config.Corpus.RequestTimeout = timeout
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	// Command-line flags have highest priority
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
