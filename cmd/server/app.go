package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/bouquet-api/internal/config"
	"github.com/phrazzld/bouquet-api/internal/generation"
	"github.com/phrazzld/bouquet-api/internal/imaging"
	"github.com/phrazzld/bouquet-api/internal/platform/gemini"
	"github.com/phrazzld/bouquet-api/internal/platform/huggingface"
	"github.com/phrazzld/bouquet-api/internal/platform/keepalive"
	"github.com/phrazzld/bouquet-api/internal/platform/objectstore"
	"github.com/phrazzld/bouquet-api/internal/platform/openai"
	"github.com/phrazzld/bouquet-api/internal/render"
	"github.com/phrazzld/bouquet-api/internal/service"
)

// maxRetryDelay caps the backoff between plan generation attempts.
const maxRetryDelay = 5 * time.Second

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	bouquetService service.BouquetService

	// localImageDir is served at config.Image.URLPrefix when the local sink
	// is active.
	localImageDir string

	pinger *keepalive.Pinger
}

// newApplication creates a new application instance with all dependencies initialized.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	model, err := newChatModel(ctx, cfg.LLM, logger.With("component", "llm"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize language model: %w", err)
	}

	generator, err := generation.NewPlanGenerator(model, logger.With("component", "plan_generator"), generatorOptions(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize plan generator: %w", err)
	}
	logger.Info("plan generator initialized",
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.ModelName,
		"max_attempts", cfg.LLM.MaxAttempts)

	// A nil interface disables the image stage.
	var images service.ImageSynthesizer
	if cfg.Image.Enabled {
		synthesizer, err := app.newImageSynthesizer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize image synthesizer: %w", err)
		}
		images = synthesizer
		logger.Info("image synthesizer initialized", "model", cfg.Image.Model, "sink", cfg.Image.Sink)
	} else {
		logger.Info("image generation disabled")
	}

	app.bouquetService, err = service.NewBouquetService(
		generator,
		images,
		render.NewAssembler(),
		logger.With("component", "bouquet_service"),
		service.Options{MaxDescriptionLength: cfg.Server.MaxDescriptionLength},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bouquet service: %w", err)
	}

	app.pinger = keepalive.NewPinger(cfg.KeepAlive, nil, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// newChatModel selects the language-model client for the configured provider.
func newChatModel(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return gemini.NewChatModel(ctx, logger, cfg)
	case config.ProviderOpenAI:
		return openai.NewChatModel(logger, &http.Client{}, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// generatorOptions translates LLM settings into generator options.
func generatorOptions(cfg config.LLMConfig) generation.Options {
	return generation.Options{
		Temperature:      cfg.Temperature,
		Timeout:          cfg.Timeout(),
		InstructionSteps: cfg.InstructionSteps,
		StructuredOutput: cfg.StructuredOutput,
		Retry: generation.RetryPolicy{
			MaxAttempts:        cfg.MaxAttempts,
			BaseDelay:          cfg.RetryDelay(),
			MaxDelay:           maxRetryDelay,
			Jitter:             0.2,
			RetryOnMissingJSON: cfg.RetryOnMissingJSON,
		},
	}
}

// newImageSynthesizer builds the image client and the configured sink.
func (app *application) newImageSynthesizer(ctx context.Context) (*imaging.Synthesizer, error) {
	cfg := app.config.Image

	renderer, err := huggingface.NewClient(cfg, &http.Client{})
	if err != nil {
		return nil, err
	}

	sink, err := app.newImageSink(ctx)
	if err != nil {
		return nil, err
	}

	return imaging.NewSynthesizer(renderer, sink, app.logger.With("component", "image_synthesizer"), cfg.Timeout())
}

// newImageSink selects where generated images end up.
func (app *application) newImageSink(ctx context.Context) (imaging.Sink, error) {
	cfg := app.config.Image

	switch cfg.Sink {
	case config.SinkLocal:
		sink, err := imaging.NewLocalSink(cfg.LocalDir, cfg.URLPrefix)
		if err != nil {
			return nil, err
		}
		app.localImageDir = cfg.LocalDir
		return sink, nil

	case config.SinkS3:
		store, err := objectstore.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return imaging.NewObjectStoreSink(store, "")

	default:
		return imaging.InlineSink{}, nil
	}
}

// Run starts the keep-alive loop and the HTTP server, and blocks until ctx
// is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	pingCtx, cancelPing := context.WithCancel(ctx)
	defer cancelPing()
	go app.pinger.Run(pingCtx)

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
