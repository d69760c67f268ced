package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/bouquet-api/internal/api"
	apiMiddleware "github.com/phrazzld/bouquet-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.RequestLogger)

	bouquetHandler := api.NewBouquetHandler(app.bouquetService, app.config.Server.MaxDescriptionLength)

	r.With(middleware.Timeout(app.config.Server.RequestTimeout())).Post("/generate", bouquetHandler.Generate)
	r.Get("/health", bouquetHandler.Health)

	if app.localImageDir != "" {
		prefix := "/" + strings.Trim(app.config.Image.URLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(app.localImageDir))))
	}

	if dir := app.config.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(dir)))
		} else {
			app.logger.Warn("static directory not found, static serving disabled", "dir", dir)
		}
	}

	return r
}
