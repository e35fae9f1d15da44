// Package config builds the process configuration from the environment.
// The configuration is constructed once at startup and passed by reference
// into each component's constructor; components declare which sub-struct
// they need, so tests can inject fakes without touching the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// DefaultReadTimeout is the default HTTP server read timeout.
	DefaultReadTimeout = 10 * time.Second
	// DefaultWriteTimeout is the default HTTP server write timeout.
	DefaultWriteTimeout = 3 * time.Minute
	// DefaultIdleTimeout is the default HTTP server idle timeout.
	DefaultIdleTimeout = 2 * time.Minute
	// DefaultRequestTimeout bounds each individual remote call.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultRunTimeout bounds one full publish run end to end.
	DefaultRunTimeout = 2 * time.Minute

	defaultLLMBaseURL       = "https://api.z.ai/api/paas/v4"
	defaultLLMModel         = "glm-4.5-flash"
	defaultHashnodeEndpoint = "https://gql.hashnode.com/"

	// defaultFallbackImageURL is substituted when image resolution fails.
	defaultFallbackImageURL = "https://images.unsplash.com/photo-1511690656952-34342bb7c2f2?q=80&w=464&auto=format&fit=crop"
)

// Storage backend selectors. The backend is chosen by configuration, never
// by runtime detection.
const (
	StorageBackendR2       = "r2"
	StorageBackendAppwrite = "appwrite"
)

type Config struct {
	Debug    bool
	Server   ServerConfig
	LLM      LLMConfig
	Hashnode HashnodeConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LLMConfig points at the chat-completions endpoint used for idea and
// article generation.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// HashnodeConfig holds the publishing platform credentials. The token is
// sent raw (no "Bearer" prefix) per the platform's API contract.
type HashnodeConfig struct {
	Endpoint      string
	Token         string
	PublicationID string
}

// StorageConfig selects and configures the object storage backend used for
// cover image uploads.
type StorageConfig struct {
	Backend string

	R2       R2Config
	Appwrite AppwriteConfig
}

type R2Config struct {
	AccountID string
	AccessKey string
	SecretKey string
	Bucket    string
	// Endpoint overrides the derived bucket endpoint. Used by tests.
	Endpoint string
}

type AppwriteConfig struct {
	Endpoint  string
	ProjectID string
	APIKey    string
	BucketID  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig configures the optional metrics store. An empty Addr
// disables metrics tracking.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PipelineConfig struct {
	FallbackImageURL string
	RequestTimeout   time.Duration
	RunTimeout       time.Duration
}

// Load reads configuration from the environment, applying defaults.
// Credentials are not validated here; each component fails with a
// configuration error at the point of use instead, so a partially
// configured process can still serve the routes it has credentials for.
func Load() *Config {
	return &Config{
		Debug: getEnvBool("DEBUG", false),
		Server: ServerConfig{
			Address:      getEnv("SERVER_ADDR", ":8080"),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", DefaultReadTimeout),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", DefaultWriteTimeout),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", DefaultIdleTimeout),
		},
		LLM: LLMConfig{
			APIKey:  os.Getenv("ZAI_API_KEY"),
			BaseURL: getEnv("LLM_BASE_URL", defaultLLMBaseURL),
			Model:   getEnv("LLM_MODEL", defaultLLMModel),
		},
		Hashnode: HashnodeConfig{
			Endpoint:      getEnv("HASHNODE_ENDPOINT", defaultHashnodeEndpoint),
			Token:         os.Getenv("HASHNODE_PAT"),
			PublicationID: os.Getenv("HASHNODE_PUB_ID"),
		},
		Storage: StorageConfig{
			Backend: getEnv("STORAGE_BACKEND", StorageBackendR2),
			R2: R2Config{
				AccountID: os.Getenv("R2_ACCOUNT_ID"),
				AccessKey: os.Getenv("R2_ACCESS_KEY_ID"),
				SecretKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
				Bucket:    os.Getenv("R2_BUCKET_NAME"),
			},
			Appwrite: AppwriteConfig{
				Endpoint:  os.Getenv("APPWRITE_ENDPOINT"),
				ProjectID: os.Getenv("APPWRITE_PROJECT_ID"),
				APIKey:    os.Getenv("APPWRITE_API_KEY"),
				BucketID:  os.Getenv("APPWRITE_BUCKET_ID"),
			},
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:   getEnv("POSTGRES_DB", "publisher"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Pipeline: PipelineConfig{
			FallbackImageURL: getEnv("FALLBACK_IMAGE_URL", defaultFallbackImageURL),
			RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
			RunTimeout:       getEnvDuration("PIPELINE_RUN_TIMEOUT", DefaultRunTimeout),
		},
	}
}

// Validate checks the parts of the configuration that must hold for the
// process to start at all. Remote credentials are intentionally excluded.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return errors.New("server address is required")
	}
	switch c.Storage.Backend {
	case StorageBackendR2, StorageBackendAppwrite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Pipeline.FallbackImageURL == "" {
		return errors.New("fallback image URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
