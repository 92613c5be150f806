package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Tsubaki01/slimoro/internal/http/handlers"
	"github.com/Tsubaki01/slimoro/internal/http/httpapi"
	"github.com/Tsubaki01/slimoro/internal/infra"
	"github.com/Tsubaki01/slimoro/internal/infra/geoip"
	"github.com/Tsubaki01/slimoro/internal/providers/genai"
	"github.com/Tsubaki01/slimoro/internal/providers/image"
	"github.com/Tsubaki01/slimoro/internal/region"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	// Fail fast on an unsupported explicit region instead of discovering it
	// on the first request.
	if _, err := region.Resolve(cfg.Region, nil); err != nil {
		logger.Fatal().Err(err).Msg("invalid COMPUTE_REGION")
	}

	geoResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	if geoResolver != nil {
		defer geoResolver.Close()
	}

	generators := image.NewRegistry(genai.Options{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		MaxRetries: cfg.GeminiMaxRetries,
		BaseDelay:  cfg.GeminiBaseDelay,
		Logger:     &logger,
	})

	app := handlers.NewApp(cfg, logger, generators)

	var geo geoip.LocationResolver
	if geoResolver != nil {
		geo = geoResolver
	}
	router := httpapi.NewRouter(app, geo)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
