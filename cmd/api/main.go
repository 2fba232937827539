package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tailorai/internal/domain"
	"tailorai/internal/domain/stylecfg"
	"tailorai/internal/http/handlers"
	httpapi "tailorai/internal/http/httpapi"
	"tailorai/internal/infra"
	"tailorai/internal/infra/geoip"
	imageprovider "tailorai/internal/providers/image"
	"tailorai/internal/relay"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "relay", nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := stylecfg.Load(cfg.StyleCatalogPath, domain.DefaultCatalog())
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.StyleCatalogPath).Msg("failed to load style catalog")
	}

	generator, err := imageprovider.FromConfig(ctx, cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.ImageProvider).Msg("failed to configure image provider")
	}

	svc, err := relay.NewService(catalog, generator, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build relay")
	}

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		// Locale detection still works from headers.
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	app := handlers.NewApp(svc, &logger, cfg.MaxBodyBytes)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		AllowedOrigins:  cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   resolver.Lookup(),
	})

	server := infra.NewHTTPServer(cfg, router)
	logger.Info().
		Str("addr", server.Addr()).
		Str("provider", generator.Name()).
		Int("styles", len(catalog.IDs())).
		Msg("TailorAI relay listening")

	if err := server.Run(ctx, cfg.HTTPIdleTimeout); err != nil {
		logger.Fatal().Err(err).Msg("http server failed")
	}
	logger.Info().Msg("server stopped")
}
