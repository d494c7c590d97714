package main

import (
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/drblury/botweaver/component"
	"github.com/drblury/botweaver/info"
	"github.com/drblury/botweaver/internal/samples"
	"github.com/drblury/botweaver/internal/serverconfig"
	"github.com/drblury/botweaver/middleware"
	"github.com/drblury/botweaver/parser"
	"github.com/drblury/botweaver/probe"
	"github.com/drblury/botweaver/responder"
	"github.com/drblury/botweaver/router"
)

func getVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "dev"
}

func versionInfo() any {
	return map[string]string{
		"version":         getVersion(),
		"go":              runtime.Version(),
		"platformVersion": component.PlatformVersion,
	}
}

// newRegistry returns the registry served by botserver.
func newRegistry() (*component.Registry, error) {
	return component.NewRegistry(samples.All()...)
}

// buildApp assembles the server router: info endpoints at the root and the
// bot layers mounted under cfg.ComponentsPath.
func buildApp(cfg serverconfig.Config, logger *slog.Logger, reg *component.Registry, readiness ...probe.Func) (*router.Router, error) {
	resp := responder.NewResponder(responder.WithLogger(logger))
	doc := component.OpenAPI("botweaver components", reg)

	botOpts := []router.Option{
		router.WithLogger(logger),
		router.WithoutCORSMiddleware(),
		router.WithoutTimeoutMiddleware(),
		router.WithoutLoggingMiddleware(),
	}
	if cfg.ValidateRequests {
		botOpts = append(botOpts, router.WithSwagger(doc))
	} else {
		botOpts = append(botOpts, router.WithoutOpenAPIValidation())
	}

	bot, err := middleware.Init(middleware.Options{
		Parser: &parser.Options{
			Limit:     cfg.BodyLimit,
			Responder: resp,
		},
		Component: &component.Options{
			Registry:     reg,
			MaxBodyBytes: cfg.BodyLimit,
			Responder:    resp,
			Logger:       logger,
		},
	}, botOpts...)
	if err != nil {
		return nil, err
	}

	app := router.New(
		router.WithLogger(logger),
		router.WithConfig(router.Config{
			Timeout:         cfg.RequestTimeout,
			QuietdownRoutes: info.Routes(),
			HideHeaders:     []string{"Authorization"},
			CORS: router.CORSConfig{
				Origins: cfg.CORSOrigins,
				Methods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				Headers: []string{"Content-Type", "Authorization"},
			},
		}),
		router.WithoutOpenAPIValidation(),
	)

	checks := append([]probe.Func{probe.NewComponentProbe(reg, 1)}, readiness...)
	info.NewInfoHandler(
		info.WithInfoResponder(resp),
		info.WithInfoProvider(versionInfo),
		info.WithOpenAPIDocument(doc),
		info.WithReadinessChecks(checks...),
	).Mount(app)

	app.Mount(cfg.ComponentsPath, bot)
	return app, nil
}
