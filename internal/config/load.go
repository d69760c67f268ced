package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. BOUQUET_SERVER_PORT for server.port.
const EnvPrefix = "BOUQUET"

// Default model names per provider, used when llm.model_name is not set.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.ModelName == "" {
		cfg.LLM.ModelName = defaultModelFor(cfg.LLM.Provider)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags and the cross-field rules the tags cannot
// express.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Image.Enabled && cfg.Image.Sink == SinkS3 && cfg.Image.S3.Bucket == "" {
		return errors.New("config validation failed: image.s3.bucket is required for the s3 sink")
	}

	return nil
}

// setDefaults registers a default for every key. Viper only maps environment
// variables onto keys it already knows about, so every key is listed here
// even when its zero value would do.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.static_dir", "public")
	v.SetDefault("server.request_timeout_seconds", 150)
	v.SetDefault("server.max_description_length", 2000)

	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model_name", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout_seconds", 60)
	v.SetDefault("llm.max_attempts", 3)
	v.SetDefault("llm.retry_delay_ms", 500)
	v.SetDefault("llm.retry_on_missing_json", false)
	v.SetDefault("llm.instruction_steps", 4)
	v.SetDefault("llm.structured_output", true)

	v.SetDefault("image.enabled", true)
	v.SetDefault("image.endpoint", "https://router.huggingface.co/hf-inference/models")
	v.SetDefault("image.model", "stabilityai/stable-diffusion-xl-base-1.0")
	v.SetDefault("image.api_key", "")
	v.SetDefault("image.wait_for_model", true)
	v.SetDefault("image.timeout_seconds", 60)
	v.SetDefault("image.max_bytes", 32<<20)
	v.SetDefault("image.sink", SinkInline)
	v.SetDefault("image.local_dir", "public/images")
	v.SetDefault("image.url_prefix", "/images")
	v.SetDefault("image.s3.bucket", "")
	v.SetDefault("image.s3.region", "")
	v.SetDefault("image.s3.prefix", "bouquets/")
	v.SetDefault("image.s3.public_base_url", "")

	v.SetDefault("keepalive.url", "")
	v.SetDefault("keepalive.interval_minutes", 14)

	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "production")
}

func defaultModelFor(provider string) string {
	if provider == ProviderOpenAI {
		return DefaultOpenAIModel
	}
	return DefaultGeminiModel
}
