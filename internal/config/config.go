package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"       validate:"required"`
	Image     ImageConfig     `mapstructure:"image"     validate:"required"`
	KeepAlive KeepAliveConfig `mapstructure:"keepalive"`
	Sentry    SentryConfig    `mapstructure:"sentry"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// StaticDir is served at the site root. Empty disables static serving.
	StaticDir string `mapstructure:"static_dir"`

	// RequestTimeoutSeconds bounds a whole /generate request, both upstream
	// calls included.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"gt=0"`

	// MaxDescriptionLength is the largest description, in characters, that is
	// forwarded to the language model. Zero disables the limit.
	MaxDescriptionLength int `mapstructure:"max_description_length" validate:"gte=0"`
}

// RequestTimeout returns RequestTimeoutSeconds as a duration.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// LLMConfig contains all language-model integration settings.
type LLMConfig struct {
	Provider  string `mapstructure:"provider"   validate:"required,oneof=gemini openai"`
	APIKey    string `mapstructure:"api_key"    validate:"required"`
	ModelName string `mapstructure:"model_name"`

	// Endpoint overrides the provider's base URL (OpenAI-compatible gateways,
	// test servers).
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`

	Temperature    float32 `mapstructure:"temperature"     validate:"gte=0,lte=2"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`

	// MaxAttempts bounds how many times a prompt is resubmitted when the
	// model's reply cannot be parsed.
	MaxAttempts  int `mapstructure:"max_attempts"   validate:"gte=1,lte=10"`
	RetryDelayMs int `mapstructure:"retry_delay_ms" validate:"gte=0"`

	// RetryOnMissingJSON also spends the retry budget on replies that hold
	// no JSON object at all.
	RetryOnMissingJSON bool `mapstructure:"retry_on_missing_json"`

	// InstructionSteps is the number of arrangement steps the model is asked for.
	InstructionSteps int `mapstructure:"instruction_steps" validate:"gte=1,lte=12"`

	// StructuredOutput requests schema-constrained JSON from the provider.
	StructuredOutput bool `mapstructure:"structured_output"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns RetryDelayMs as a duration.
func (c LLMConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

// Image sinks.
const (
	SinkInline = "inline"
	SinkLocal  = "local"
	SinkS3     = "s3"
)

// ImageConfig contains the image-generation and image-storage settings.
type ImageConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Endpoint       string `mapstructure:"endpoint"        validate:"omitempty,url"`
	Model          string `mapstructure:"model"           validate:"required_if=Enabled true"`
	APIKey         string `mapstructure:"api_key"`
	WaitForModel   bool   `mapstructure:"wait_for_model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"gt=0"`

	// MaxBytes caps the size of a generated image. Zero uses the client default.
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gte=0"`

	Sink      string   `mapstructure:"sink"       validate:"oneof=inline local s3"`
	LocalDir  string   `mapstructure:"local_dir"  validate:"required_if=Sink local"`
	URLPrefix string   `mapstructure:"url_prefix"`
	S3        S3Config `mapstructure:"s3"`
}

// Timeout returns TimeoutSeconds as a duration.
func (c ImageConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// S3Config configures the object-store image sink.
type S3Config struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Prefix        string `mapstructure:"prefix"`
	PublicBaseURL string `mapstructure:"public_base_url" validate:"omitempty,url"`
}

// KeepAliveConfig controls the self-ping used on hosts that idle out quiet
// services. An empty URL disables it.
type KeepAliveConfig struct {
	URL             string `mapstructure:"url"              validate:"omitempty,url"`
	IntervalMinutes int    `mapstructure:"interval_minutes" validate:"gte=1"`
}

// Interval returns IntervalMinutes as a duration.
func (c KeepAliveConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}
