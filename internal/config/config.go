package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/db/mysql"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/db/postgres"
)

// Database drivers.
const (
	DriverMemory   = "memory"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		IdleTimeout  time.Duration `yaml:"idle_timeout"`
		CORSOrigins  []string      `yaml:"cors_origins"`
		RateLimit    struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refill_rate"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`

	Provider struct {
		Name            string        `yaml:"name"`
		Model           string        `yaml:"model"`
		BaseURL         string        `yaml:"base_url"`
		MaxOutputTokens int           `yaml:"max_output_tokens"`
		RequestTimeout  time.Duration `yaml:"request_timeout"`
	} `yaml:"provider"`

	Analysis struct {
		// HighLatency raises the retry budget on slow hosts.
		HighLatency   bool          `yaml:"high_latency"`
		Backoff       time.Duration `yaml:"backoff"`
		Verify        bool          `yaml:"verify"`
		ReclaimMemory bool          `yaml:"reclaim_memory"`
	} `yaml:"analysis"`

	Credentials struct {
		KeyPrefix          string        `yaml:"key_prefix"`
		MinLength          int           `yaml:"min_length"`
		ValidationCacheTTL time.Duration `yaml:"validation_cache_ttl"`
	} `yaml:"credentials"`

	Session struct {
		CookieName    string        `yaml:"cookie_name"`
		TTL           time.Duration `yaml:"ttl"`
		SweepInterval time.Duration `yaml:"sweep_interval"`
		Secure        bool          `yaml:"secure"`
	} `yaml:"session"`

	Database struct {
		Driver   string `yaml:"driver"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Minio struct {
		Enabled       bool          `yaml:"enabled"`
		Endpoint      string        `yaml:"endpoint"`
		AccessKey     string        `yaml:"accessKey"`
		SecretKey     string        `yaml:"secretKey"`
		BucketName    string        `yaml:"bucketName"`
		Region        string        `yaml:"region"`
		UseSSL        bool          `yaml:"useSSL"`
		PresignExpiry time.Duration `yaml:"presignExpiry"`
	} `yaml:"minio"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Server.Port = 5000
	c.Server.ReadTimeout = 15 * time.Second
	// one stage with retries and verification can take minutes
	c.Server.WriteTimeout = 300 * time.Second
	c.Server.IdleTimeout = 60 * time.Second
	c.Server.RateLimit.Capacity = 30
	c.Server.RateLimit.RefillRate = 1

	c.Provider.Name = ProviderGemini
	// empty model lets each provider client pick its own default
	c.Provider.MaxOutputTokens = 8192
	c.Provider.RequestTimeout = 120 * time.Second

	c.Analysis.Backoff = 2 * time.Second
	c.Analysis.Verify = true
	c.Analysis.ReclaimMemory = true

	c.Credentials.KeyPrefix = "AI"
	c.Credentials.MinLength = 20
	c.Credentials.ValidationCacheTTL = 10 * time.Minute

	c.Session.CookieName = "legal_session"
	c.Session.TTL = 24 * time.Hour
	c.Session.SweepInterval = 10 * time.Minute

	c.Database.Driver = DriverMemory
	c.Minio.PresignExpiry = time.Hour

	c.Log.Level = "info"
	c.Log.Format = "console"
	return &c
}

// Load membaca file yaml di atas Default, lalu menerapkan override env.
// File yang tidak ada bukan error.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = p
	}
	// any non-empty RENDER value marks a high-latency host
	if v, ok := lookup("RENDER"); ok && v != "" {
		c.Analysis.HighLatency = true
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("DATABASE_DRIVER"); ok && v != "" {
		c.Database.Driver = strings.ToLower(v)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Provider.Name {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("provider.name %q: must be %s or %s", c.Provider.Name, ProviderGemini, ProviderOpenAI)
	}
	switch c.Database.Driver {
	case DriverMemory, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("database.driver %q: must be memory, mysql or postgres", c.Database.Driver)
	}
	if c.Minio.Enabled && (c.Minio.Endpoint == "" || c.Minio.BucketName == "") {
		return errors.New("minio.endpoint and minio.bucketName are required when minio is enabled")
	}
	return nil
}

// MySQL returns the connection options for the mysql driver.
func (c *Config) MySQL() mysql.Options {
	return mysql.Options{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Name:     c.Database.Name,
	}
}

// Postgres returns the connection options for the postgres driver.
func (c *Config) Postgres() postgres.Options {
	return postgres.Options{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Name:     c.Database.Name,
		SSLMode:  c.Database.SSLMode,
	}
}
