package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	AIProvider string `env:"AI_PROVIDER" envDefault:"openrouter"`
	OpenRouter OpenRouterConfig
	Gemini     GeminiConfig
	Qdrant     QdrantConfig
	Index      IndexConfig
	Storage    StorageConfig
}

type ServerConfig struct {
	Port     string `env:"PORT" envDefault:"3000"`
	Env      string `env:"ENV" envDefault:"development"`
	LogJSON  bool   `env:"LOG_JSON" envDefault:"false"`
	LogDebug bool   `env:"LOG_DEBUG" envDefault:"false"`
}

type DatabaseConfig struct {
	Driver   string `env:"DB_DRIVER" envDefault:"postgres"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"DB_NAME" envDefault:"resume_analyzer"`
	// Path is only used by the sqlite driver.
	Path string `env:"DB_PATH" envDefault:"resume_analyzer.db"`
}

// OpenRouterConfig carries everything the chat-completions client needs.
// The API key keeps its historical OPENAI_API_KEY name.
type OpenRouterConfig struct {
	APIKey  string        `env:"OPENAI_API_KEY"`
	BaseURL string        `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	Model   string        `env:"OPENROUTER_MODEL" envDefault:"openrouter/free"`
	Referer string        `env:"OPENROUTER_REFERER" envDefault:"http://localhost:5083"`
	Title   string        `env:"OPENROUTER_TITLE" envDefault:"AI Resume Analyzer"`
	Timeout time.Duration `env:"OPENROUTER_TIMEOUT" envDefault:"0s"`
}

type GeminiConfig struct {
	APIKey     string `env:"GEMINI_API_KEY"`
	Model      string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	EmbedModel string `env:"GEMINI_EMBED_MODEL" envDefault:"text-embedding-004"`
}

type QdrantConfig struct {
	URL        string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	APIKey     string `env:"QDRANT_API_KEY"`
	Collection string `env:"QDRANT_COLLECTION" envDefault:"resumes"`
}

type IndexConfig struct {
	Enabled     bool `env:"INDEX_ENABLED" envDefault:"false"`
	Concurrency int  `env:"INDEX_CONCURRENCY" envDefault:"2"`
}

type StorageConfig struct {
	MaxFileSize int64 `env:"MAX_FILE_SIZE" envDefault:"10485760"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.AIProvider = strings.ToLower(strings.TrimSpace(cfg.AIProvider))

	switch cfg.Database.Driver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}

	switch cfg.AIProvider {
	case ProviderOpenRouter, ProviderGemini:
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.AIProvider)
	}

	if cfg.Index.Concurrency <= 0 {
		cfg.Index.Concurrency = 1
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IndexEnabled reports whether the similarity index can run. It needs Gemini for embeddings.
func (c *Config) IndexEnabled() bool {
	return c.Index.Enabled && strings.TrimSpace(c.Gemini.APIKey) != ""
}

func (c *Config) GetDatabaseDSN() string {
	switch c.Database.Driver {
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.DBName,
		)
	case DriverSQLite:
		return c.Database.Path
	default:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.Database.Host,
			c.Database.Port,
			c.Database.User,
			c.Database.Password,
			c.Database.DBName,
		)
	}
}
