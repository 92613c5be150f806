package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Tsubaki01/slimoro/internal/infra"
	"github.com/Tsubaki01/slimoro/internal/providers/image"
)

// GeneratorSource hands out the backend generator for a resolved region.
// *image.Registry is the production implementation.
type GeneratorSource interface {
	GeneratorFor(region string) (image.Generator, error)
}

// App bundles the dependencies the HTTP handlers need.
type App struct {
	Config     *infra.Config
	Logger     zerolog.Logger
	Generators GeneratorSource
}

// NewApp builds the handler container.
func NewApp(cfg *infra.Config, logger zerolog.Logger, generators GeneratorSource) *App {
	return &App{Config: cfg, Logger: logger, Generators: generators}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}
