package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/labelscan/backend/internal/logger"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	OCR    OCRConfig    `mapstructure:"ocr"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	PagePath        string        `mapstructure:"page_path"` // static page served on GET; built-in page when missing
	AllowOrigin     string        `mapstructure:"allow_origin"`
	AllowHeaders    string        `mapstructure:"allow_headers"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// OCRConfig holds OCR engine configuration
type OCRConfig struct {
	Engine        string        `mapstructure:"engine"` // "tesseract", "vision" or "rekognition"
	Language      string        `mapstructure:"language"`
	TesseractPath string        `mapstructure:"tesseract_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RateLimit     float64       `mapstructure:"rate_limit"` // cloud requests per second
	Burst         int           `mapstructure:"burst"`
	AWSRegion     string        `mapstructure:"aws_region"`
	DebugText     bool          `mapstructure:"debug_text"` // log normalized OCR text
}

// CacheConfig holds report cache configuration
type CacheConfig struct {
	Type    string        `mapstructure:"type"` // only "memory"
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
	Output     string `mapstructure:"output"`
}

var validEngines = []string{"tesseract", "vision", "rekognition"}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/labelscan/")

	// LABELSCAN_OCR_ENGINE maps to ocr.engine
	v.SetEnvPrefix("LABELSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.page_path", "index.html")
	v.SetDefault("server.allow_origin", "null")
	v.SetDefault("server.allow_headers", "content-type")
	v.SetDefault("server.shutdown_timeout", "10s")

	// OCR defaults
	v.SetDefault("ocr.engine", "tesseract")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.timeout", "60s")
	v.SetDefault("ocr.rate_limit", 5)
	v.SetDefault("ocr.burst", 10)
	v.SetDefault("ocr.aws_region", "")
	v.SetDefault("ocr.debug_text", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("log.output", "stdout")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set LABELSCAN_SERVER_PORT)")
	}

	if !isValidEngine(config.OCR.Engine) {
		return fmt.Errorf("ocr engine must be one of %s, got: %s", strings.Join(validEngines, ", "), config.OCR.Engine)
	}

	if config.OCR.Timeout <= 0 {
		return fmt.Errorf("ocr timeout must be positive, got: %s", config.OCR.Timeout)
	}

	if config.OCR.RateLimit < 0 {
		return fmt.Errorf("ocr rate limit must not be negative, got: %v", config.OCR.RateLimit)
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	format := strings.ToLower(config.Log.Format)
	if format != "console" && format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}

func isValidEngine(engine string) bool {
	for _, e := range validEngines {
		if strings.EqualFold(e, engine) {
			return true
		}
	}
	return false
}

// LoggerConfig returns the logger settings
func (c *Config) LoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		TimeFormat: c.Log.TimeFormat,
		Output:     c.Log.Output,
	}
}
